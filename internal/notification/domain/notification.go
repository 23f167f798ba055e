package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is one customer-facing message queued off the back of an
// order event, e.g. the order confirmation email.
type Notification struct {
	ID        int64
	OrderID   uuid.UUID
	StoreID   uuid.UUID
	Recipient string
	Kind      Kind
	Body      string
	CreatedAt time.Time
}

type Kind string

const (
	KindOrderConfirmation Kind = "order_confirmation"
)
