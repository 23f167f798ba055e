package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/shopcanvas/storefront/internal/money"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order is the persisted record of one completed checkout. ID and
// CreatedAt are generated by the database on insert.
type Order struct {
	ID              uuid.UUID
	StoreID         uuid.UUID
	CustomerName    string
	CustomerEmail   string
	CustomerAddress string
	Total           money.Money
	Status          Status
	CreatedAt       time.Time
}

// OrderItem captures one cart line at the moment of checkout. Price is the
// unit price at cart time, independent of later catalog price changes.
type OrderItem struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Price     money.Money
}

// NewOrder builds a pending order header for a store. The total must have
// been computed from cart contents, never taken from the client.
func NewOrder(storeID uuid.UUID, name, email, address string, total money.Money) Order {
	return Order{
		StoreID:         storeID,
		CustomerName:    name,
		CustomerEmail:   email,
		CustomerAddress: address,
		Total:           total,
		Status:          StatusPending,
	}
}
