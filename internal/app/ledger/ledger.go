// Package ledger owns per-citizen resource balances. Every mutating method
// expects to run inside a transaction opened by the caller.
package ledger

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"soloville/internal/app/ports"
	"soloville/internal/domain/village"
)

type Ledger struct {
	Resources ports.ResourceRepository
	Balances  ports.BalanceRepository
	// Citizens, when set, receives the floored energy balance after every
	// energy write so the citizen row mirrors the ledger.
	Citizens ports.CitizenRepository
	Now      func() time.Time
}

func (l Ledger) now() time.Time {
	if l.Now == nil {
		return time.Now()
	}
	return l.Now()
}

func (l Ledger) resource(ctx context.Context, code string) (village.Resource, error) {
	res, err := l.Resources.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return village.Resource{}, village.ErrResourceNotFound
		}
		return village.Resource{}, err
	}
	return res, nil
}

// GetBalance returns zero when the citizen never held the resource.
func (l Ledger) GetBalance(ctx context.Context, citizenID int64, code string) (float64, error) {
	res, err := l.resource(ctx, code)
	if err != nil {
		return 0, err
	}
	bal, err := l.Balances.Get(ctx, citizenID, res.ID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return bal.Quantity, nil
}

// BalanceOf is GetBalance keyed by citizen name.
func (l Ledger) BalanceOf(ctx context.Context, citizenName, code string) (float64, error) {
	citizenName = strings.TrimSpace(citizenName)
	code = strings.TrimSpace(code)
	if citizenName == "" || code == "" {
		return 0, village.ErrInvalidRequest
	}
	c, err := l.Citizens.GetByName(ctx, citizenName)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return 0, village.ErrCitizenNotFound
		}
		return 0, err
	}
	if !c.Active() {
		return 0, village.ErrCitizenNotFound
	}
	return l.GetBalance(ctx, c.ID, code)
}

// Locked reads the balances of codes under row locks, absent rows as zero.
func (l Ledger) Locked(ctx context.Context, citizenID int64, codes []string) (map[string]float64, error) {
	out := make(map[string]float64, len(codes))
	for _, code := range codes {
		res, err := l.resource(ctx, code)
		if err != nil {
			return nil, err
		}
		bal, err := l.Balances.GetForUpdate(ctx, citizenID, res.ID)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				out[code] = 0
				continue
			}
			return nil, err
		}
		out[code] = bal.Quantity
	}
	return out, nil
}

// Adjust adds delta and clamps the result at zero. A missing row is created
// only for a positive delta.
func (l Ledger) Adjust(ctx context.Context, citizenID int64, code string, delta float64, actor string) (float64, error) {
	res, err := l.resource(ctx, code)
	if err != nil {
		return 0, err
	}
	delta = village.Round2(delta)
	at := l.now()

	bal, err := l.Balances.GetForUpdate(ctx, citizenID, res.ID)
	if errors.Is(err, ports.ErrNotFound) {
		if delta <= 0 {
			return 0, nil
		}
		if _, err := l.Balances.Insert(ctx, village.Balance{
			CitizenID:    citizenID,
			ResourceID:   res.ID,
			ResourceCode: res.Code,
			Quantity:     delta,
		}, actor, at); err != nil {
			return 0, err
		}
		return delta, l.mirror(ctx, citizenID, res.Code, delta, actor, at)
	}
	if err != nil {
		return 0, err
	}

	next := village.Round2(math.Max(0, bal.Quantity+delta))
	if err := l.Balances.UpdateQuantity(ctx, bal.ID, next, bal.Version, actor, at); err != nil {
		return 0, err
	}
	return next, l.mirror(ctx, citizenID, res.Code, next, actor, at)
}

// DebitExact removes qty or fails with InsufficientResourcesError without writing.
func (l Ledger) DebitExact(ctx context.Context, citizenID int64, code string, qty float64, actor string) (float64, error) {
	res, err := l.resource(ctx, code)
	if err != nil {
		return 0, err
	}
	qty = village.Round2(qty)
	bal, err := l.Balances.GetForUpdate(ctx, citizenID, res.ID)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return 0, err
	}
	if bal.Quantity < qty {
		return 0, &village.InsufficientResourcesError{Missing: []village.Shortfall{{
			ResourceCode: res.Code,
			Required:     qty,
			Available:    bal.Quantity,
		}}}
	}
	if qty == 0 {
		return bal.Quantity, nil
	}

	at := l.now()
	next := village.Round2(bal.Quantity - qty)
	if err := l.Balances.UpdateQuantity(ctx, bal.ID, next, bal.Version, actor, at); err != nil {
		return 0, err
	}
	return next, l.mirror(ctx, citizenID, res.Code, next, actor, at)
}

// Credit is Adjust restricted to non-negative amounts.
func (l Ledger) Credit(ctx context.Context, citizenID int64, code string, qty float64, actor string) (float64, error) {
	if qty < 0 {
		return 0, village.ErrInvalidRequest
	}
	return l.Adjust(ctx, citizenID, code, qty, actor)
}

func (l Ledger) mirror(ctx context.Context, citizenID int64, code string, quantity float64, actor string, at time.Time) error {
	if code != village.EnergyResource || l.Citizens == nil {
		return nil
	}
	return l.Citizens.Patch(ctx, citizenID, village.CitizenPatch{}.Energy(int(math.Floor(quantity))), actor, at)
}
