package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopcanvas/storefront/internal/notification/domain"
	orderdom "github.com/shopcanvas/storefront/internal/order/domain"
)

// Service turns order events into queued customer notifications. Delivery
// itself is handled by an external mailer reading the notifications table.
type Service struct {
	log  *slog.Logger
	repo NotificationRepository
}

func NewService(log *slog.Logger, repo NotificationRepository) *Service {
	return &Service{log: log, repo: repo}
}

func (s *Service) HandleOrderPlaced(ctx context.Context, event orderdom.OrderPlaced) error {
	n := domain.Notification{
		OrderID:   event.OrderID,
		StoreID:   event.StoreID,
		Recipient: event.CustomerEmail,
		Kind:      domain.KindOrderConfirmation,
		Body: fmt.Sprintf("Your order %s has been placed. Total: %s %s.",
			event.OrderID, event.Total, event.Currency),
	}
	if err := s.repo.Save(ctx, n); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}
	s.log.Info("order confirmation queued", "order_id", event.OrderID, "recipient", event.CustomerEmail)
	return nil
}
