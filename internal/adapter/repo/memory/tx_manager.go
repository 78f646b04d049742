package memory

import "context"

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

// RunInTx serialises transactions on the store mutex and restores the
// pre-transaction snapshot when fn fails. Nested calls join the outer one.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.store.inTx(ctx) {
		return fn(ctx)
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	snapshot := t.store.data.clone()
	if err := fn(context.WithValue(ctx, txKey, t.store)); err != nil {
		t.store.data = snapshot
		return err
	}
	return nil
}
