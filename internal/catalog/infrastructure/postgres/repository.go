package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/shopcanvas/storefront/internal/catalog/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (name, description, base_price_amount, base_price_currency, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		p.Name, p.Description, p.BasePrice.Amount, p.BasePrice.Currency.String(), p.ImageURL,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *Repository) UpdateProduct(ctx context.Context, p domain.Product) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE products
		SET name = $2, description = $3, base_price_amount = $4, base_price_currency = $5, image_url = $6, updated_at = now()
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.BasePrice.Amount, p.BasePrice.Currency.String(), p.ImageURL)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *Repository) GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, description, base_price_amount, base_price_currency, image_url, created_at, updated_at
		FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (r *Repository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, base_price_amount, base_price_currency, image_url, created_at, updated_at
		FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// AddToStore lists a catalog product on a seller's storefront at a resale
// price; re-adding updates the price.
func (r *Repository) AddToStore(ctx context.Context, storeID, productID uuid.UUID, resaleAmount decimal.Decimal, cur currency.Unit) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO store_products (store_id, product_id, resale_price_amount, resale_price_currency)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (store_id, product_id) DO UPDATE SET resale_price_amount = $3, resale_price_currency = $4`,
		storeID, productID, resaleAmount, cur.String())
	if err != nil {
		return fmt.Errorf("add product to store: %w", err)
	}
	return nil
}

func (r *Repository) RemoveFromStore(ctx context.Context, storeID, productID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM store_products WHERE store_id = $1 AND product_id = $2`, storeID, productID)
	if err != nil {
		return fmt.Errorf("remove product from store: %w", err)
	}
	return nil
}

// ListForStore returns the store's listings in the order the seller added
// them, each with its resale price.
func (r *Repository) ListForStore(ctx context.Context, storeID uuid.UUID) ([]domain.Listing, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name, p.description, p.base_price_amount, p.base_price_currency, p.image_url, p.created_at, p.updated_at,
		       sp.store_id, sp.resale_price_amount, sp.resale_price_currency, sp.added_at
		FROM store_products sp
		JOIN products p ON p.id = sp.product_id
		WHERE sp.store_id = $1
		ORDER BY sp.added_at`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list store products: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var (
			l             domain.Listing
			baseAmount    decimal.Decimal
			baseCurCode   string
			resaleAmount  decimal.Decimal
			resaleCurCode string
		)
		err := rows.Scan(&l.Product.ID, &l.Product.Name, &l.Product.Description, &baseAmount, &baseCurCode,
			&l.Product.ImageURL, &l.Product.CreatedAt, &l.Product.UpdatedAt,
			&l.StoreID, &resaleAmount, &resaleCurCode, &l.AddedAt)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}

		baseCur, err := currency.ParseISO(baseCurCode)
		if err != nil {
			return nil, fmt.Errorf("currency[%s] is not valid: %w", baseCurCode, err)
		}
		resaleCur, err := currency.ParseISO(resaleCurCode)
		if err != nil {
			return nil, fmt.Errorf("currency[%s] is not valid: %w", resaleCurCode, err)
		}

		l.Product.BasePrice.Amount = baseAmount
		l.Product.BasePrice.Currency = baseCur
		l.ResalePrice.Amount = resaleAmount
		l.ResalePrice.Currency = resaleCur
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return listings, nil
}

// GetListing fetches one product as listed on one store, used when adding
// a product to a cart at the store's resale price.
func (r *Repository) GetListing(ctx context.Context, storeID, productID uuid.UUID) (domain.Listing, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT p.id, p.name, p.description, p.base_price_amount, p.base_price_currency, p.image_url, p.created_at, p.updated_at,
		       sp.store_id, sp.resale_price_amount, sp.resale_price_currency, sp.added_at
		FROM store_products sp
		JOIN products p ON p.id = sp.product_id
		WHERE sp.store_id = $1 AND sp.product_id = $2`, storeID, productID)

	var (
		l             domain.Listing
		baseAmount    decimal.Decimal
		baseCurCode   string
		resaleAmount  decimal.Decimal
		resaleCurCode string
	)
	err := row.Scan(&l.Product.ID, &l.Product.Name, &l.Product.Description, &baseAmount, &baseCurCode,
		&l.Product.ImageURL, &l.Product.CreatedAt, &l.Product.UpdatedAt,
		&l.StoreID, &resaleAmount, &resaleCurCode, &l.AddedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Listing{}, domain.ErrProductNotFound
		}
		return domain.Listing{}, fmt.Errorf("get listing: %w", err)
	}

	baseCur, err := currency.ParseISO(baseCurCode)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("currency[%s] is not valid: %w", baseCurCode, err)
	}
	resaleCur, err := currency.ParseISO(resaleCurCode)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("currency[%s] is not valid: %w", resaleCurCode, err)
	}

	l.Product.BasePrice.Amount = baseAmount
	l.Product.BasePrice.Currency = baseCur
	l.ResalePrice.Amount = resaleAmount
	l.ResalePrice.Currency = resaleCur
	return l, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p       domain.Product
		amount  decimal.Decimal
		curCode string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &amount, &curCode, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("scan product: %w", err)
	}

	cur, err := currency.ParseISO(curCode)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", curCode, err)
	}
	p.BasePrice.Amount = amount
	p.BasePrice.Currency = cur
	return p, nil
}
