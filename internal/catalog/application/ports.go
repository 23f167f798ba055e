package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/shopcanvas/storefront/internal/catalog/domain"
)

type CatalogRepository interface {
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)

	AddToStore(ctx context.Context, storeID, productID uuid.UUID, resaleAmount decimal.Decimal, cur currency.Unit) error
	RemoveFromStore(ctx context.Context, storeID, productID uuid.UUID) error
	ListForStore(ctx context.Context, storeID uuid.UUID) ([]domain.Listing, error)
	GetListing(ctx context.Context, storeID, productID uuid.UUID) (domain.Listing, error)
}
