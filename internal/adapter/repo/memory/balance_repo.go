package memory

import (
	"context"
	"sort"
	"time"

	"soloville/internal/app/ports"
	"soloville/internal/domain/village"
)

type BalanceRepo struct {
	store *Store
}

func NewBalanceRepo(store *Store) BalanceRepo {
	return BalanceRepo{store: store}
}

func (r BalanceRepo) Get(ctx context.Context, citizenID, resourceID int64) (village.Balance, error) {
	var (
		out village.Balance
		ok  bool
	)
	r.store.read(ctx, func(d *storeData) {
		var id int64
		if id, ok = d.balanceByKey[balanceKey{citizenID, resourceID}]; ok {
			out = d.balances[id]
		}
	})
	if !ok {
		return village.Balance{}, ports.ErrNotFound
	}
	return out, nil
}

func (r BalanceRepo) GetForUpdate(ctx context.Context, citizenID, resourceID int64) (village.Balance, error) {
	return r.Get(ctx, citizenID, resourceID)
}

func (r BalanceRepo) Insert(ctx context.Context, b village.Balance, actor string, at time.Time) (village.Balance, error) {
	err := r.store.write(ctx, func(d *storeData) error {
		k := balanceKey{b.CitizenID, b.ResourceID}
		if _, exists := d.balanceByKey[k]; exists {
			return ports.ErrConflict
		}
		b.ID = d.newID()
		b.Version = 1
		b.ModifiedAt = &at
		b.ModifiedBy = actor
		d.balances[b.ID] = b
		d.balanceByKey[k] = b.ID
		return nil
	})
	if err != nil {
		return village.Balance{}, err
	}
	return b, nil
}

func (r BalanceRepo) UpdateQuantity(ctx context.Context, balanceID int64, quantity float64, expectedVersion int64, actor string, at time.Time) error {
	return r.store.write(ctx, func(d *storeData) error {
		b, ok := d.balances[balanceID]
		if !ok || b.Version != expectedVersion {
			return ports.ErrConflict
		}
		b.Quantity = quantity
		b.Version++
		b.ModifiedAt = &at
		b.ModifiedBy = actor
		d.balances[balanceID] = b
		return nil
	})
}

func (r BalanceRepo) ListByCitizen(ctx context.Context, citizenID int64) ([]village.Balance, error) {
	var out []village.Balance
	r.store.read(ctx, func(d *storeData) {
		for _, b := range d.balances {
			if b.CitizenID == citizenID {
				out = append(out, b)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ResourceCode < out[j].ResourceCode })
	return out, nil
}
