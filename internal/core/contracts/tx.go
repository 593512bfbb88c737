package contracts

import "context"

// TxManager runs fn inside a storage transaction carried through the
// context; repositories pick it up transparently.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
