package transfer

import "context"

// Repository is append-only: there is no update or delete.
type Repository interface {
	Create(ctx context.Context, t *Transfer) error
	// ListByUser returns transfers the user initiated, sent or received,
	// newest first.
	ListByUser(ctx context.Context, userID string) ([]Transfer, error)
}
