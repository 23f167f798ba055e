package application

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/currency"

	"github.com/shopcanvas/storefront/internal/storefront/domain"
)

// Service manages seller storefronts: public resolution by handle for
// shoppers and settings updates for sellers.
type Service struct {
	repo StoreRepository
}

func NewService(repo StoreRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, store domain.Store) (domain.Store, error) {
	store.Username = strings.ToLower(strings.TrimSpace(store.Username))
	if store.ThemeColor == "" {
		store.ThemeColor = "#1a1a2e"
	}
	if store.Currency == (currency.Unit{}) {
		store.Currency = currency.USD
	}
	return s.repo.Create(ctx, store)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (domain.Store, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByHandle(ctx context.Context, handle string) (domain.Store, error) {
	return s.repo.GetByHandle(ctx, strings.TrimSpace(handle))
}

func (s *Service) UpdateSettings(ctx context.Context, id uuid.UUID, settings domain.Settings) error {
	return s.repo.UpdateSettings(ctx, id, settings)
}
