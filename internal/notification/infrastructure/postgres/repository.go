package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopcanvas/storefront/internal/notification/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Save(ctx context.Context, n domain.Notification) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (order_id, store_id, recipient, kind, body)
		VALUES ($1, $2, $3, $4, $5)`,
		n.OrderID, n.StoreID, n.Recipient, string(n.Kind), n.Body)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}
