package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"

	"github.com/shopcanvas/storefront/internal/cart"
	catalogapp "github.com/shopcanvas/storefront/internal/catalog/application"
	catalogdom "github.com/shopcanvas/storefront/internal/catalog/domain"
	checkoutapp "github.com/shopcanvas/storefront/internal/checkout/application"
	"github.com/shopcanvas/storefront/internal/money"
	orderdom "github.com/shopcanvas/storefront/internal/order/domain"
	storeapp "github.com/shopcanvas/storefront/internal/storefront/application"
	storedom "github.com/shopcanvas/storefront/internal/storefront/domain"
	storehttp "github.com/shopcanvas/storefront/internal/storefront/infrastructure/http"
)

type storeRepoFake struct {
	stores []storedom.Store
}

func (f *storeRepoFake) Create(ctx context.Context, s storedom.Store) (storedom.Store, error) {
	s.ID = uuid.New()
	f.stores = append(f.stores, s)
	return s, nil
}

func (f *storeRepoFake) GetByID(ctx context.Context, id uuid.UUID) (storedom.Store, error) {
	for _, s := range f.stores {
		if s.ID == id {
			return s, nil
		}
	}
	return storedom.Store{}, storedom.ErrStoreNotFound
}

func (f *storeRepoFake) GetByHandle(ctx context.Context, handle string) (storedom.Store, error) {
	for _, s := range f.stores {
		if strings.EqualFold(s.Username, handle) || strings.EqualFold(s.Name, handle) {
			return s, nil
		}
	}
	return storedom.Store{}, storedom.ErrStoreNotFound
}

func (f *storeRepoFake) UpdateSettings(ctx context.Context, id uuid.UUID, s storedom.Settings) error {
	return nil
}

type catalogRepoFake struct {
	listings []catalogdom.Listing
}

func (f *catalogRepoFake) CreateProduct(ctx context.Context, p catalogdom.Product) (catalogdom.Product, error) {
	return p, nil
}
func (f *catalogRepoFake) UpdateProduct(ctx context.Context, p catalogdom.Product) error { return nil }
func (f *catalogRepoFake) DeleteProduct(ctx context.Context, id uuid.UUID) error        { return nil }
func (f *catalogRepoFake) GetProduct(ctx context.Context, id uuid.UUID) (catalogdom.Product, error) {
	return catalogdom.Product{}, catalogdom.ErrProductNotFound
}
func (f *catalogRepoFake) ListProducts(ctx context.Context) ([]catalogdom.Product, error) {
	return nil, nil
}
func (f *catalogRepoFake) AddToStore(ctx context.Context, storeID, productID uuid.UUID, resaleAmount decimal.Decimal, cur currency.Unit) error {
	return nil
}
func (f *catalogRepoFake) RemoveFromStore(ctx context.Context, storeID, productID uuid.UUID) error {
	return nil
}

func (f *catalogRepoFake) ListForStore(ctx context.Context, storeID uuid.UUID) ([]catalogdom.Listing, error) {
	var out []catalogdom.Listing
	for _, l := range f.listings {
		if l.StoreID == storeID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *catalogRepoFake) GetListing(ctx context.Context, storeID, productID uuid.UUID) (catalogdom.Listing, error) {
	for _, l := range f.listings {
		if l.StoreID == storeID && l.Product.ID == productID {
			return l, nil
		}
	}
	return catalogdom.Listing{}, catalogdom.ErrProductNotFound
}

type orderRepoFake struct {
	orders []orderdom.Order
	items  []orderdom.OrderItem
}

func (f *orderRepoFake) InsertOrder(ctx context.Context, o orderdom.Order) (orderdom.Order, error) {
	o.ID = uuid.New()
	f.orders = append(f.orders, o)
	return o, nil
}

func (f *orderRepoFake) InsertItems(ctx context.Context, items []orderdom.OrderItem) error {
	f.items = append(f.items, items...)
	return nil
}

type fixture struct {
	handler http.Handler
	store   storedom.Store
	listing catalogdom.Listing
	orders  *orderRepoFake
	session *http.Cookie
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	storeRepo := &storeRepoFake{}
	store, err := storeRepo.Create(t.Context(), storedom.Store{
		Username: "acme-tools",
		Name:     "Acme Tools",
		Currency: currency.USD,
	})
	require.NoError(t, err)

	listing := catalogdom.Listing{
		StoreID: store.ID,
		Product: catalogdom.Product{
			ID:   uuid.New(),
			Name: "Cordless Drill",
		},
		ResalePrice: money.Money{Amount: decimal.RequireFromString("59.99"), Currency: currency.USD},
	}
	catalogRepo := &catalogRepoFake{listings: []catalogdom.Listing{listing}}
	orders := &orderRepoFake{}

	stores := storeapp.NewService(storeRepo)
	catalog := catalogapp.NewService(catalogRepo)
	checkout := checkoutapp.NewService(log, storeRepo, orders, nil, nil)

	h := storehttp.NewHandler(log, stores, catalog, cart.NewRegistry(), checkout)
	return &fixture{
		handler: h.Routes(),
		store:   store,
		listing: listing,
		orders:  orders,
		session: &http.Cookie{Name: "cart_session", Value: uuid.NewString()},
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.AddCookie(f.session)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestGetStore(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/stores/acme-tools", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Username string `json:"username"`
		Currency string `json:"currency"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "acme-tools", got.Username)
	require.Equal(t, "USD", got.Currency)

	rec = f.do(t, http.MethodGet, "/stores/no-such-store", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartFlow(t *testing.T) {
	f := newFixture(t)
	itemsPath := "/stores/acme-tools/cart/items"

	rec := f.do(t, http.MethodPost, itemsPath, map[string]any{
		"product_id": f.listing.Product.ID,
		"quantity":   2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var snap cart.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Equal(t, 2, snap.Count)
	require.Equal(t, "119.98", snap.Total.Display())

	// same product again merges into the existing line
	rec = f.do(t, http.MethodPost, itemsPath, map[string]any{
		"product_id": f.listing.Product.ID,
		"quantity":   1,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Len(t, snap.Items, 1)
	require.Equal(t, 3, snap.Count)

	rec = f.do(t, http.MethodPatch, fmt.Sprintf("%s/%s", itemsPath, f.listing.Product.ID), map[string]any{
		"quantity": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Equal(t, 1, snap.Count)

	rec = f.do(t, http.MethodDelete, fmt.Sprintf("%s/%s", itemsPath, f.listing.Product.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Empty(t, snap.Items)
}

func TestAddUnknownProduct(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/stores/acme-tools/cart/items", map[string]any{
		"product_id": uuid.New(),
		"quantity":   1,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckout(t *testing.T) {
	f := newFixture(t)

	checkoutBody := map[string]any{
		"customer_name":    "Jamie Doe",
		"customer_email":   "jamie@example.com",
		"customer_address": "1 Main St",
	}

	// empty cart rejects
	rec := f.do(t, http.MethodPost, "/stores/acme-tools/checkout", checkoutBody)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/stores/acme-tools/cart/items", map[string]any{
		"product_id": f.listing.Product.ID,
		"quantity":   2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// missing email fails validation, cart survives
	rec = f.do(t, http.MethodPost, "/stores/acme-tools/checkout", map[string]any{
		"customer_name":    "Jamie Doe",
		"customer_address": "1 Main St",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/stores/acme-tools/checkout", checkoutBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got struct {
		OrderID uuid.UUID `json:"order_id"`
		Status  string    `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotEqual(t, uuid.Nil, got.OrderID)
	require.Equal(t, "pending", got.Status)
	require.Len(t, f.orders.orders, 1)
	require.Len(t, f.orders.items, 1)

	// cart was cleared on success
	rec = f.do(t, http.MethodGet, "/stores/acme-tools/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snap cart.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Empty(t, snap.Items)
}
