package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopcanvas/storefront/internal/order/domain"
)

// Service is the read/update side of orders: sellers see their own store's
// orders and move them through the status lifecycle, admins see everything.
type Service struct {
	repo OrderRepository
}

func NewService(repo OrderRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Order, []domain.OrderItem, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByStore(ctx context.Context, storeID uuid.UUID) ([]domain.Order, error) {
	return s.repo.ListByStore(ctx, storeID)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListAll(ctx)
}

// SetStatus parses and applies a status change submitted by a seller.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, raw string) error {
	status := domain.Status(raw)
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
