package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopcanvas/storefront/internal/order/domain"
)

type OrderRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Order, []domain.OrderItem, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) error
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
}
