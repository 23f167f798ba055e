package postgres_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"

	"github.com/shopcanvas/storefront/internal/storefront/domain"
	storepg "github.com/shopcanvas/storefront/internal/storefront/infrastructure/postgres"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	pc, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts("../../../../migrations/000001_init.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := pc.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}
	return pc, connStr, nil
}

type storeRepositorySuite struct {
	suite.Suite

	pool *pgxpool.Pool
	repo *storepg.Repository
}

func TestStoreRepositorySuite(t *testing.T) {
	suite.Run(t, new(storeRepositorySuite))
}

func (suite *storeRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.NoError(err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.repo = storepg.NewRepository(log, suite.pool)
}

func (suite *storeRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *storeRepositorySuite) TestCreateAndGetByID() {
	t := suite.T()
	ctx := t.Context()

	created, err := suite.repo.Create(ctx, domain.Store{
		OwnerID:        uuid.New(),
		Username:       "acme-tools",
		Name:           "Acme Tools",
		ThemeColor:     "#112233",
		HeroTitle:      "Everything for the workshop",
		CarouselImages: []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
		NavLinks: []domain.NavLink{
			{Label: "Home", URL: "/", Position: "header"},
			{Label: "Contact", URL: "/contact", Position: "footer"},
		},
		Currency: currency.USD,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	got, err := suite.repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Username, got.Username)
	require.Equal(t, created.Name, got.Name)
	require.Equal(t, currency.USD.String(), got.Currency.String())
	require.Empty(t, cmp.Diff(created.CarouselImages, got.CarouselImages))
	require.Empty(t, cmp.Diff(created.NavLinks, got.NavLinks))
}

func (suite *storeRepositorySuite) TestGetByHandle() {
	t := suite.T()
	ctx := t.Context()

	created, err := suite.repo.Create(ctx, domain.Store{
		OwnerID:  uuid.New(),
		Username: "plantparadise",
		Name:     "Plant Paradise",
		Currency: currency.EUR,
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		handle string
	}{
		{name: "by username", handle: "plantparadise"},
		{name: "by username, mixed case", handle: "PlantParadise"},
		{name: "by store name", handle: "Plant Paradise"},
		{name: "by store name, upper case", handle: "PLANT PARADISE"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			got, err := suite.repo.GetByHandle(ctx, tt.handle)
			require.NoError(suite.T(), err)
			require.Equal(suite.T(), created.ID, got.ID)
		})
	}
}

func (suite *storeRepositorySuite) TestGetByHandleNotFound() {
	t := suite.T()

	_, err := suite.repo.GetByHandle(t.Context(), "no-such-store")
	require.ErrorIs(t, err, domain.ErrStoreNotFound)
}

func (suite *storeRepositorySuite) TestUpdateSettings() {
	t := suite.T()
	ctx := t.Context()

	created, err := suite.repo.Create(ctx, domain.Store{
		OwnerID:  uuid.New(),
		Username: "gadgetlab",
		Name:     "Gadget Lab",
		Currency: currency.USD,
	})
	require.NoError(t, err)

	settings := domain.Settings{
		Name:           "Gadget Lab Deluxe",
		ThemeColor:     "#ff6600",
		HeroTitle:      "New season, new gadgets",
		HeroSubtitle:   "Free shipping over 50",
		CarouselImages: []string{"https://cdn.example.com/hero.jpg"},
		NavLinks:       []domain.NavLink{{Label: "Deals", URL: "/deals", Position: "header"}},
	}
	require.NoError(t, suite.repo.UpdateSettings(ctx, created.ID, settings))

	got, err := suite.repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, settings.Name, got.Name)
	require.Equal(t, settings.ThemeColor, got.ThemeColor)
	require.Empty(t, cmp.Diff(settings.NavLinks, got.NavLinks))

	err = suite.repo.UpdateSettings(ctx, uuid.New(), settings)
	require.ErrorIs(t, err, domain.ErrStoreNotFound)
}
