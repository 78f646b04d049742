package memory

import (
	"context"
	"sort"
	"time"

	"soloville/internal/domain/village"
)

type HistoryRepo struct {
	store *Store
}

func NewHistoryRepo(store *Store) HistoryRepo {
	return HistoryRepo{store: store}
}

func (r HistoryRepo) Append(ctx context.Context, entry village.HistoryEntry) error {
	return r.store.write(ctx, func(d *storeData) error {
		entry.ID = d.newID()
		d.history = append(d.history, entry)
		return nil
	})
}

func (r HistoryRepo) ListByCitizen(ctx context.Context, citizenID int64, limit int) ([]village.HistoryEntry, error) {
	var out []village.HistoryEntry
	r.store.read(ctx, func(d *storeData) {
		for _, e := range d.history {
			if e.CitizenID == citizenID {
				e.CitizenName = d.citizens[e.CitizenID].Name
				out = append(out, e)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r HistoryRepo) ListWindow(ctx context.Context, from, to time.Time, limit int) ([]village.HistoryEntry, error) {
	var out []village.HistoryEntry
	r.store.read(ctx, func(d *storeData) {
		for _, e := range d.history {
			if e.OccurredAt.Before(from) || !e.OccurredAt.Before(to) {
				continue
			}
			e.CitizenName = d.citizens[e.CitizenID].Name
			out = append(out, e)
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].OccurredAt.Before(out[j].OccurredAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
