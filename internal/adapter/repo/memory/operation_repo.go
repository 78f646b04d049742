package memory

import (
	"context"

	"soloville/internal/app/ports"
)

type OperationRepo struct {
	store *Store
}

func NewOperationRepo(store *Store) OperationRepo {
	return OperationRepo{store: store}
}

func (r OperationRepo) GetByKey(ctx context.Context, citizenID int64, key string) (*ports.OperationRecord, error) {
	var (
		rec ports.OperationRecord
		ok  bool
	)
	r.store.read(ctx, func(d *storeData) {
		rec, ok = d.operations[operationKey{citizenID, key}]
	})
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &rec, nil
}

func (r OperationRepo) Save(ctx context.Context, record ports.OperationRecord) error {
	return r.store.write(ctx, func(d *storeData) error {
		k := operationKey{record.CitizenID, record.RequestKey}
		if _, exists := d.operations[k]; exists {
			return ports.ErrConflict
		}
		d.operations[k] = record
		return nil
	})
}
