package ports

import "context"

// TxManager runs fn in one transaction. Repositories called with the context
// passed to fn take part in it; a nested RunInTx joins the outer transaction.
// Any error from fn rolls every write back.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
