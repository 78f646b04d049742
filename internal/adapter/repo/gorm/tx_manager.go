package gormrepo

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// TxManager opens one database transaction per RunInTx. Calls made with a
// context that already carries a transaction join it.
type TxManager struct {
	db   *gorm.DB
	opts *sql.TxOptions
}

func NewTxManager(db *gorm.DB) TxManager {
	return TxManager{db: db, opts: &sql.TxOptions{Isolation: sql.LevelReadCommitted}}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromCtx(ctx); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	}, t.opts)
}
