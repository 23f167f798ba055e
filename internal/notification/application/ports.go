package application

import (
	"context"

	"github.com/shopcanvas/storefront/internal/notification/domain"
)

type NotificationRepository interface {
	Save(ctx context.Context, n domain.Notification) error
}
