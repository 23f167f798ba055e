package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/shopcanvas/storefront/internal/money"
)

var ErrProductNotFound = errors.New("product not found")

// Product belongs to the shared catalog managed by admins. Sellers do not
// own products; they list them at their own resale price.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	BasePrice   money.Money
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Listing is a catalog product as it appears on one seller's storefront.
type Listing struct {
	Product     Product
	StoreID     uuid.UUID
	ResalePrice money.Money
	AddedAt     time.Time
}
