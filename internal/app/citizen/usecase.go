// Package citizen is the lookup and registration service the rest of the
// economy resolves players through.
package citizen

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"soloville/internal/app/ports"
	"soloville/internal/app/shared/citizens"
	"soloville/internal/app/shared/txrun"
	"soloville/internal/domain/village"
)

const (
	DefaultStartingEnergy = 20
	MaxNameLength         = 64
	DefaultListLimit      = 50
	MaxListLimit          = 500
)

type Status struct {
	Citizen  village.Citizen   `json:"citizen"`
	Balances []village.Balance `json:"balances"`
}

type UseCase struct {
	Runner         txrun.Runner
	Citizens       ports.CitizenRepository
	Resources      ports.ResourceRepository
	Balances       ports.BalanceRepository
	Tools          ports.ToolRepository
	// StartingEnergy below 1 means DefaultStartingEnergy; config rejects
	// such values before they reach here.
	StartingEnergy int
	Now            func() time.Time
}

func (u UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}

func actorOr(actor string) string {
	if actor == "" {
		return village.ActorSystem
	}
	return actor
}

// Register creates the citizen together with a balance row for every active
// resource. The energy row starts at StartingEnergy.
func (u UseCase) Register(ctx context.Context, name, actor string) (Status, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return Status{}, village.ErrInvalidRequest
	}
	actor = actorOr(actor)
	energy := u.StartingEnergy
	if energy < 1 {
		energy = DefaultStartingEnergy
	}

	var out Status
	err := u.Runner.Run(ctx, "register_citizen", func(txCtx context.Context) error {
		out = Status{}
		_, err := u.Citizens.GetByName(txCtx, name)
		if err == nil {
			return village.ErrCitizenExists
		}
		if !errors.Is(err, ports.ErrNotFound) {
			return err
		}

		at := u.now()
		created, err := u.Citizens.Create(txCtx, village.Citizen{
			Name:   name,
			Energy: energy,
			Audit:  village.Audit{CreatedAt: at, CreatedBy: actor},
		})
		if err != nil {
			return err
		}
		resources, err := u.Resources.ListActive(txCtx)
		if err != nil {
			return err
		}
		balances := make([]village.Balance, 0, len(resources))
		for _, res := range resources {
			qty := 0.0
			if res.Code == village.EnergyResource {
				qty = float64(energy)
			}
			b, err := u.Balances.Insert(txCtx, village.Balance{
				CitizenID:    created.ID,
				ResourceID:   res.ID,
				ResourceCode: res.Code,
				Quantity:     qty,
			}, actor, at)
			if err != nil {
				return err
			}
			balances = append(balances, b)
		}
		out = Status{Citizen: created, Balances: balances}
		return nil
	})
	if err != nil {
		return Status{}, err
	}
	return out, nil
}

func (u UseCase) Status(ctx context.Context, name string) (Status, error) {
	c, err := citizens.Get(ctx, u.Citizens, name)
	if err != nil {
		return Status{}, err
	}
	balances, err := u.Balances.ListByCitizen(ctx, c.ID)
	if err != nil {
		return Status{}, err
	}
	return Status{Citizen: c, Balances: balances}, nil
}

// List returns active citizens ordered by name.
func (u UseCase) List(ctx context.Context, limit int) ([]village.Citizen, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	return u.Citizens.ListActive(ctx, limit)
}

// Delete soft-deletes the citizen; balances and history stay referenced.
func (u UseCase) Delete(ctx context.Context, name, actor string) error {
	return u.Runner.Run(ctx, "delete_citizen", func(txCtx context.Context) error {
		c, err := citizens.Lock(txCtx, u.Citizens, name)
		if err != nil {
			return err
		}
		return u.Citizens.SoftDelete(txCtx, c.ID, actorOr(actor), u.now())
	})
}

// VisitWell opens the well bonus window from now.
func (u UseCase) VisitWell(ctx context.Context, name, actor string) (village.Citizen, error) {
	var out village.Citizen
	err := u.Runner.Run(ctx, "visit_well", func(txCtx context.Context) error {
		c, err := citizens.Lock(txCtx, u.Citizens, name)
		if err != nil {
			return err
		}
		at := u.now()
		patch := village.CitizenPatch{}.WellVisitedAt(at)
		if err := u.Citizens.Patch(txCtx, c.ID, patch, actorOr(actor), at); err != nil {
			return err
		}
		patch.Apply(&c)
		out = c
		return nil
	})
	return out, err
}

func (u UseCase) GrantTool(ctx context.Context, name, toolCode string, has bool, actor string) error {
	toolCode = strings.ToLower(strings.TrimSpace(toolCode))
	if toolCode == "" {
		return village.ErrInvalidRequest
	}
	return u.Runner.Run(ctx, "grant_tool", func(txCtx context.Context) error {
		c, err := citizens.Lock(txCtx, u.Citizens, name)
		if err != nil {
			return err
		}
		tool, err := u.Tools.GetByCode(txCtx, toolCode)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return village.ErrToolNotFound
			}
			return err
		}
		return u.Tools.SetOwnership(txCtx, c.ID, tool.ID, has, actorOr(actor), u.now())
	})
}

// Update applies an administrative patch. Energy is owned by the ledger and
// cannot be patched here.
func (u UseCase) Update(ctx context.Context, name string, patch village.CitizenPatch, actor string) (village.Citizen, error) {
	if err := patch.Validate(); err != nil {
		return village.Citizen{}, err
	}
	if _, ok := patch.Value(village.FieldEnergy); ok {
		return village.Citizen{}, village.ErrInvalidPatch
	}
	var out village.Citizen
	err := u.Runner.Run(ctx, "update_citizen", func(txCtx context.Context) error {
		c, err := citizens.Lock(txCtx, u.Citizens, name)
		if err != nil {
			return err
		}
		if err := u.Citizens.Patch(txCtx, c.ID, patch, actorOr(actor), u.now()); err != nil {
			return err
		}
		patch.Apply(&c)
		out = c
		return nil
	})
	return out, err
}
