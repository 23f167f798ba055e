package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/text/currency"

	"github.com/shopcanvas/storefront/internal/storefront/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

const storeColumns = `id, owner_id, username, store_name, theme_color, hero_title, hero_subtitle, hero_image_url, carousel_images, nav_links, currency, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, s domain.Store) (domain.Store, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO stores (owner_id, username, store_name, theme_color, hero_title, hero_subtitle, hero_image_url, carousel_images, nav_links, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		s.OwnerID, s.Username, s.Name, s.ThemeColor, s.HeroTitle, s.HeroSubtitle, s.HeroImageURL,
		s.CarouselImages, s.NavLinks, s.Currency.String(),
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.Store{}, fmt.Errorf("insert store: %w", err)
	}
	return s, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Store, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id)
	return scanStore(row)
}

// GetByHandle resolves the store whose username or display name matches the
// route parameter, case-insensitively.
func (r *Repository) GetByHandle(ctx context.Context, handle string) (domain.Store, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+storeColumns+`
		FROM stores
		WHERE LOWER(username) = LOWER($1) OR LOWER(store_name) = LOWER($1)
		LIMIT 1`, handle)
	return scanStore(row)
}

// UpdateSettings replaces the seller-editable fields of the store.
func (r *Repository) UpdateSettings(ctx context.Context, id uuid.UUID, s domain.Settings) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE stores
		SET store_name = $2, theme_color = $3, hero_title = $4, hero_subtitle = $5,
		    hero_image_url = $6, carousel_images = $7, nav_links = $8, updated_at = now()
		WHERE id = $1`,
		id, s.Name, s.ThemeColor, s.HeroTitle, s.HeroSubtitle, s.HeroImageURL,
		s.CarouselImages, s.NavLinks)
	if err != nil {
		return fmt.Errorf("update store settings: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrStoreNotFound
	}
	return nil
}

func scanStore(row pgx.Row) (domain.Store, error) {
	var (
		s       domain.Store
		curCode string
	)
	err := row.Scan(&s.ID, &s.OwnerID, &s.Username, &s.Name, &s.ThemeColor,
		&s.HeroTitle, &s.HeroSubtitle, &s.HeroImageURL,
		&s.CarouselImages, &s.NavLinks, &curCode, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Store{}, domain.ErrStoreNotFound
		}
		return domain.Store{}, fmt.Errorf("scan store: %w", err)
	}

	cur, err := currency.ParseISO(curCode)
	if err != nil {
		return domain.Store{}, fmt.Errorf("currency[%s] is not valid: %w", curCode, err)
	}
	s.Currency = cur
	return s, nil
}
