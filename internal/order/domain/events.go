package domain

import "github.com/google/uuid"

// OrderPlaced is published to kafka after a checkout completes. Amounts
// travel as strings to keep decimal precision on the wire.
type OrderPlaced struct {
	OrderID       uuid.UUID    `json:"order_id"`
	StoreID       uuid.UUID    `json:"store_id"`
	CustomerEmail string       `json:"customer_email"`
	Total         string       `json:"total"`
	Currency      string       `json:"currency"`
	Items         []PlacedItem `json:"items"`
}

type PlacedItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     string    `json:"price"`
}
