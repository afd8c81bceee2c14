package orders

import "context"

// Repository is the durable order ledger. Append must be atomic: an
// order is either fully recorded with its items or not at all.
type Repository interface {
	Append(ctx context.Context, o *Order) error
	List(ctx context.Context, sessionID string) ([]Order, error)
	Get(ctx context.Context, orderID string) (*Order, error)
	// Delete reports whether the order existed; deleting an absent id
	// is not an error.
	Delete(ctx context.Context, orderID string) (bool, error)
}
