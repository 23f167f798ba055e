package application

import (
	"context"

	"github.com/google/uuid"

	orderdom "github.com/shopcanvas/storefront/internal/order/domain"
	storedom "github.com/shopcanvas/storefront/internal/storefront/domain"
)

type StoreResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (storedom.Store, error)
	// GetByHandle matches username or store name, case-insensitively.
	GetByHandle(ctx context.Context, handle string) (storedom.Store, error)
}

type OrderRepository interface {
	// InsertOrder writes the order header and returns it with the
	// generated id and created_at.
	InsertOrder(ctx context.Context, o orderdom.Order) (orderdom.Order, error)
	// InsertItems writes all line items as a single batch.
	InsertItems(ctx context.Context, items []orderdom.OrderItem) error
}

// EventRecorder appends an order-placed event for the outbox relay.
// Recording is best-effort; checkout never fails on it.
type EventRecorder interface {
	RecordOrderPlaced(ctx context.Context, ev orderdom.OrderPlaced) error
}

// SubmitGuard rejects replays of the same client idempotency key. Forget
// releases a key after a failed write so the shopper's resubmission is
// not mistaken for a duplicate.
type SubmitGuard interface {
	Seen(ctx context.Context, key string) (bool, error)
	Forget(ctx context.Context, key string) error
}
