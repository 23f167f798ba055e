package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/shopcanvas/storefront/internal/catalog/domain"
)

// Service is the shared product catalog: admins manage products, sellers
// list them on their storefronts at custom resale prices.
type Service struct {
	repo CatalogRepository
}

func NewService(repo CatalogRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.Name == "" {
		return domain.Product{}, fmt.Errorf("product name is empty")
	}
	if p.BasePrice.IsNegative() {
		return domain.Product{}, fmt.Errorf("base price is negative")
	}
	return s.repo.CreateProduct(ctx, p)
}

func (s *Service) UpdateProduct(ctx context.Context, p domain.Product) error {
	if p.ID == uuid.Nil {
		return fmt.Errorf("product id is empty")
	}
	if p.BasePrice.IsNegative() {
		return fmt.Errorf("base price is negative")
	}
	return s.repo.UpdateProduct(ctx, p)
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteProduct(ctx, id)
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

// AddToStore lists a catalog product on the seller's storefront. The
// product must exist; a negative resale price is rejected.
func (s *Service) AddToStore(ctx context.Context, storeID, productID uuid.UUID, resaleAmount decimal.Decimal, cur currency.Unit) error {
	if resaleAmount.IsNegative() {
		return fmt.Errorf("resale price is negative")
	}
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return err
	}
	return s.repo.AddToStore(ctx, storeID, productID, resaleAmount, cur)
}

func (s *Service) RemoveFromStore(ctx context.Context, storeID, productID uuid.UUID) error {
	return s.repo.RemoveFromStore(ctx, storeID, productID)
}

func (s *Service) ListForStore(ctx context.Context, storeID uuid.UUID) ([]domain.Listing, error) {
	return s.repo.ListForStore(ctx, storeID)
}

func (s *Service) GetListing(ctx context.Context, storeID, productID uuid.UUID) (domain.Listing, error) {
	return s.repo.GetListing(ctx, storeID, productID)
}
