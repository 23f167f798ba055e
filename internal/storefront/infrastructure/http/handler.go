package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/shopcanvas/storefront/internal/cart"
	catalogapp "github.com/shopcanvas/storefront/internal/catalog/application"
	catalogdom "github.com/shopcanvas/storefront/internal/catalog/domain"
	checkoutapp "github.com/shopcanvas/storefront/internal/checkout/application"
	"github.com/shopcanvas/storefront/internal/money"
	storeapp "github.com/shopcanvas/storefront/internal/storefront/application"
	storedom "github.com/shopcanvas/storefront/internal/storefront/domain"
	"github.com/shopcanvas/storefront/pkg/httpx"
)

// Handler serves the shopper-facing storefront API: store config, product
// listings, the session cart and checkout. No authentication; carts are
// scoped by the session cookie.
type Handler struct {
	log      *slog.Logger
	stores   *storeapp.Service
	catalog  *catalogapp.Service
	carts    *cart.Registry
	checkout *checkoutapp.Service
	tracer   trace.Tracer
}

func NewHandler(log *slog.Logger, stores *storeapp.Service, catalog *catalogapp.Service, carts *cart.Registry, checkout *checkoutapp.Service) *Handler {
	return &Handler{
		log:      log,
		stores:   stores,
		catalog:  catalog,
		carts:    carts,
		checkout: checkout,
		tracer:   otel.Tracer("storefront-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(httpx.WithSession)

	r.Route("/stores/{handle}", func(r chi.Router) {
		r.Get("/", h.getStore)
		r.Get("/products", h.listProducts)
		r.Get("/cart", h.getCart)
		r.Post("/cart/items", h.addCartItem)
		r.Patch("/cart/items/{productID}", h.updateCartItem)
		r.Delete("/cart/items/{productID}", h.removeCartItem)
		r.Post("/checkout", h.placeOrder)
	})

	return r
}

type storeResponse struct {
	ID             uuid.UUID         `json:"id"`
	Username       string            `json:"username"`
	Name           string            `json:"name"`
	ThemeColor     string            `json:"theme_color"`
	HeroTitle      string            `json:"hero_title"`
	HeroSubtitle   string            `json:"hero_subtitle"`
	HeroImageURL   string            `json:"hero_image_url"`
	CarouselImages []string          `json:"carousel_images"`
	NavLinks       []storedom.NavLink `json:"nav_links"`
	Currency       string            `json:"currency"`
}

func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetStore")
	defer span.End()

	store, err := h.stores.GetByHandle(ctx, chi.URLParam(r, "handle"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, storeResponse{
		ID:             store.ID,
		Username:       store.Username,
		Name:           store.Name,
		ThemeColor:     store.ThemeColor,
		HeroTitle:      store.HeroTitle,
		HeroSubtitle:   store.HeroSubtitle,
		HeroImageURL:   store.HeroImageURL,
		CarouselImages: store.CarouselImages,
		NavLinks:       store.NavLinks,
		Currency:       store.Currency.String(),
	})
}

type listingResponse struct {
	ProductID   uuid.UUID   `json:"product_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ImageURL    string      `json:"image_url"`
	Price       money.Money `json:"price"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListStoreProducts")
	defer span.End()

	store, err := h.stores.GetByHandle(ctx, chi.URLParam(r, "handle"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	listings, err := h.catalog.ListForStore(ctx, store.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, listingResponse{
			ProductID:   l.Product.ID,
			Name:        l.Product.Name,
			Description: l.Product.Description,
			ImageURL:    l.Product.ImageURL,
			Price:       l.ResalePrice,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	c, _, err := h.sessionCart(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AddCartItem")
	defer span.End()

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	store, err := h.stores.GetByHandle(ctx, chi.URLParam(r, "handle"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	// the cart captures the store's resale price, not the client's
	listing, err := h.catalog.GetListing(ctx, store.ID, req.ProductID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	c := h.carts.Get(httpx.SessionID(ctx), store.ID, store.Currency)
	c.AddItem(cart.Item{
		ProductID: listing.Product.ID,
		Name:      listing.Product.Name,
		Price:     listing.ResalePrice,
		Quantity:  req.Quantity,
		ImageURL:  listing.Product.ImageURL,
	})

	writeJSON(w, http.StatusOK, c.Snapshot())
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	c, _, err := h.sessionCart(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	c.UpdateQuantity(productID, req.Quantity)
	writeJSON(w, http.StatusOK, c.Snapshot())
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	c, _, err := h.sessionCart(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	c.RemoveItem(productID)
	writeJSON(w, http.StatusOK, c.Snapshot())
}

type checkoutRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerAddress string `json:"customer_address"`
	IdempotencyKey  string `json:"idempotency_key"`
}

type checkoutResponse struct {
	OrderID uuid.UUID   `json:"order_id"`
	Status  string      `json:"status"`
	Total   money.Money `json:"total"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Checkout")
	defer span.End()

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	c, handle, err := h.sessionCart(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	created, err := h.checkout.PlaceOrder(ctx, checkoutapp.Request{
		StoreHandle:     handle,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,
		IdempotencyKey:  req.IdempotencyKey,
	}, c)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, checkoutResponse{
		OrderID: created.ID,
		Status:  string(created.Status),
		Total:   created.Total,
	})
}

// sessionCart resolves the route's store and returns the session's cart
// for it, plus the handle for downstream resolution.
func (h *Handler) sessionCart(r *http.Request) (*cart.Cart, string, error) {
	ctx := r.Context()
	handle := chi.URLParam(r, "handle")

	store, err := h.stores.GetByHandle(ctx, handle)
	if err != nil {
		return nil, "", err
	}
	return h.carts.Get(httpx.SessionID(ctx), store.ID, store.Currency), handle, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr *checkoutapp.ValidationError
	var werr *checkoutapp.OrderWriteError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"field": verr.Field, "error": verr.Reason})
	case errors.Is(err, checkoutapp.ErrEmptyCart):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, storedom.ErrStoreNotFound), errors.Is(err, catalogdom.ErrProductNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, checkoutapp.ErrDuplicateSubmission):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &werr):
		// resubmitting after an order_items failure can leave another
		// empty order header behind; the client is told to retry once
		h.log.Error("order write failed", "stage", string(werr.Stage), "err", werr.Err)
		http.Error(w, werr.Error(), http.StatusBadGateway)
	default:
		h.log.Error("storefront request failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
