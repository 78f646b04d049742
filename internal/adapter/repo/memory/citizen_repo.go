package memory

import (
	"context"
	"sort"
	"time"

	"soloville/internal/app/ports"
	"soloville/internal/domain/village"
)

type CitizenRepo struct {
	store *Store
}

func NewCitizenRepo(store *Store) CitizenRepo {
	return CitizenRepo{store: store}
}

func (r CitizenRepo) Create(ctx context.Context, c village.Citizen) (village.Citizen, error) {
	err := r.store.write(ctx, func(d *storeData) error {
		if _, exists := d.citizenByName[c.Name]; exists {
			return ports.ErrConflict
		}
		c.ID = d.newID()
		d.citizens[c.ID] = c
		d.citizenByName[c.Name] = c.ID
		return nil
	})
	if err != nil {
		return village.Citizen{}, err
	}
	return c, nil
}

func (r CitizenRepo) GetByName(ctx context.Context, name string) (village.Citizen, error) {
	var (
		out village.Citizen
		ok  bool
	)
	r.store.read(ctx, func(d *storeData) {
		var id int64
		if id, ok = d.citizenByName[name]; ok {
			out = d.citizens[id]
		}
	})
	if !ok {
		return village.Citizen{}, ports.ErrNotFound
	}
	return out, nil
}

// LockByName is GetByName; transactions already hold the store lock.
func (r CitizenRepo) LockByName(ctx context.Context, name string) (village.Citizen, error) {
	return r.GetByName(ctx, name)
}

func (r CitizenRepo) Patch(ctx context.Context, citizenID int64, patch village.CitizenPatch, actor string, at time.Time) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	return r.store.write(ctx, func(d *storeData) error {
		c, ok := d.citizens[citizenID]
		if !ok {
			return ports.ErrNotFound
		}
		patch.Apply(&c)
		c.Audit.ModifiedAt = &at
		c.Audit.ModifiedBy = actor
		d.citizens[citizenID] = c
		return nil
	})
}

func (r CitizenRepo) SoftDelete(ctx context.Context, citizenID int64, actor string, at time.Time) error {
	return r.store.write(ctx, func(d *storeData) error {
		c, ok := d.citizens[citizenID]
		if !ok || c.Audit.DeletedAt != nil {
			return ports.ErrNotFound
		}
		c.Audit.DeletedAt = &at
		c.Audit.DeletedBy = actor
		d.citizens[citizenID] = c
		return nil
	})
}

func (r CitizenRepo) ListActive(ctx context.Context, limit int) ([]village.Citizen, error) {
	var out []village.Citizen
	r.store.read(ctx, func(d *storeData) {
		for _, c := range d.citizens {
			if c.Active() {
				out = append(out, c)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
