package payments

import "context"

// Gateway abstracts the payment provider. CreateOrder registers a charge
// before any local state exists; Refund returns a captured payment in full.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, receipt string) (string, error)
	Refund(ctx context.Context, paymentID string) error
}
