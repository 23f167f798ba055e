package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/text/currency"

	"github.com/shopcanvas/storefront/internal/order/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

// InsertOrder writes the order header only. Items are a separate call on
// purpose: the two writes are not wrapped in a transaction, so a failure
// between them leaves a header with zero items (see checkout service).
func (r *Repository) InsertOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO orders (store_id, customer_name, customer_email, customer_address, total_amount, total_currency, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		o.StoreID, o.CustomerName, o.CustomerEmail, o.CustomerAddress,
		o.Total.Amount, o.Total.Currency.String(), o.Status,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

// InsertItems writes all line items as a single batch.
func (r *Repository) InsertItems(ctx context.Context, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(`
			INSERT INTO order_items (order_id, product_id, quantity, price_amount, price_currency)
			VALUES ($1, $2, $3, $4, $5)`,
			it.OrderID, it.ProductID, it.Quantity, it.Price.Amount, it.Price.Currency.String())
	}

	results := r.pool.SendBatch(ctx, batch)
	if err := results.Close(); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Order, []domain.OrderItem, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, store_id, customer_name, customer_email, customer_address, total_amount, total_currency, status, created_at
		FROM orders WHERE id = $1`, id)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, nil, domain.ErrOrderNotFound
		}
		return domain.Order{}, nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT order_id, product_id, quantity, price_amount, price_currency
		FROM order_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return domain.Order{}, nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			it      domain.OrderItem
			amount  decimal.Decimal
			curCode string
		)
		if err := rows.Scan(&it.OrderID, &it.ProductID, &it.Quantity, &amount, &curCode); err != nil {
			return domain.Order{}, nil, fmt.Errorf("scan order item: %w", err)
		}
		cur, err := currency.ParseISO(curCode)
		if err != nil {
			return domain.Order{}, nil, fmt.Errorf("currency[%s] is not valid: %w", curCode, err)
		}
		it.Price.Amount = amount
		it.Price.Currency = cur
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return domain.Order{}, nil, fmt.Errorf("iterate order items: %w", err)
	}

	return o, items, nil
}

// UpdateStatus changes the status field of one order.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) error {
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}

	ct, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, store_id, customer_name, customer_email, customer_address, total_amount, total_currency, status, created_at
		FROM orders WHERE store_id = $1 ORDER BY created_at DESC`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list orders by store: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// ListAll is the admin view across every store.
func (r *Repository) ListAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, store_id, customer_name, customer_email, customer_address, total_amount, total_currency, status, created_at
		FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// RecordOrderPlaced appends an order_events row for the relay to publish.
func (r *Repository) RecordOrderPlaced(ctx context.Context, ev domain.OrderPlaced) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := map[string]string{"source": "storefront-service"}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO order_events (aggregate_type, aggregate_id, type, payload, headers, traceparent, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')`,
		"order", ev.OrderID.String(), "OrderPlaced", payload, headers, carrier["traceparent"])
	if err != nil {
		return fmt.Errorf("insert order event: %w", err)
	}
	return nil
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o       domain.Order
		amount  decimal.Decimal
		curCode string
	)
	err := row.Scan(&o.ID, &o.StoreID, &o.CustomerName, &o.CustomerEmail, &o.CustomerAddress,
		&amount, &curCode, &o.Status, &o.CreatedAt)
	if err != nil {
		return domain.Order{}, err
	}
	cur, err := currency.ParseISO(curCode)
	if err != nil {
		return domain.Order{}, fmt.Errorf("currency[%s] is not valid: %w", curCode, err)
	}
	o.Total.Amount = amount
	o.Total.Currency = cur
	return o, nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}
