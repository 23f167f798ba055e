package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopcanvas/storefront/internal/storefront/domain"
)

type StoreRepository interface {
	Create(ctx context.Context, s domain.Store) (domain.Store, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Store, error)
	GetByHandle(ctx context.Context, handle string) (domain.Store, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, s domain.Settings) error
}
