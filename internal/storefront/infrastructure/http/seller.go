package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	catalogapp "github.com/shopcanvas/storefront/internal/catalog/application"
	catalogdom "github.com/shopcanvas/storefront/internal/catalog/domain"
	"github.com/shopcanvas/storefront/internal/money"
	orderapp "github.com/shopcanvas/storefront/internal/order/application"
	orderdom "github.com/shopcanvas/storefront/internal/order/domain"
	storeapp "github.com/shopcanvas/storefront/internal/storefront/application"
	storedom "github.com/shopcanvas/storefront/internal/storefront/domain"
)

// SellerHandler is the store-owner dashboard API: storefront settings,
// product listings and order management for one store.
type SellerHandler struct {
	log     *slog.Logger
	stores  *storeapp.Service
	catalog *catalogapp.Service
	orders  *orderapp.Service
	tracer  trace.Tracer
}

func NewSellerHandler(log *slog.Logger, stores *storeapp.Service, catalog *catalogapp.Service, orders *orderapp.Service) *SellerHandler {
	return &SellerHandler{
		log:     log,
		stores:  stores,
		catalog: catalog,
		orders:  orders,
		tracer:  otel.Tracer("seller-http"),
	}
}

func (h *SellerHandler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/stores/{storeID}", func(r chi.Router) {
		r.Get("/", h.getStore)
		r.Put("/settings", h.updateSettings)
		r.Post("/products", h.addProduct)
		r.Delete("/products/{productID}", h.removeProduct)
		r.Get("/orders", h.listOrders)
		r.Patch("/orders/{orderID}/status", h.updateOrderStatus)
	})

	return r
}

func (h *SellerHandler) getStore(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SellerGetStore")
	defer span.End()

	storeID, ok := h.storeID(w, r)
	if !ok {
		return
	}

	store, err := h.stores.GetByID(ctx, storeID)
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

type settingsRequest struct {
	Name           string             `json:"name"`
	ThemeColor     string             `json:"theme_color"`
	HeroTitle      string             `json:"hero_title"`
	HeroSubtitle   string             `json:"hero_subtitle"`
	HeroImageURL   string             `json:"hero_image_url"`
	CarouselImages []string           `json:"carousel_images"`
	NavLinks       []storedom.NavLink `json:"nav_links"`
}

func (h *SellerHandler) updateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateStoreSettings")
	defer span.End()

	storeID, ok := h.storeID(w, r)
	if !ok {
		return
	}

	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	err := h.stores.UpdateSettings(ctx, storeID, storedom.Settings{
		Name:           req.Name,
		ThemeColor:     req.ThemeColor,
		HeroTitle:      req.HeroTitle,
		HeroSubtitle:   req.HeroSubtitle,
		HeroImageURL:   req.HeroImageURL,
		CarouselImages: req.CarouselImages,
		NavLinks:       req.NavLinks,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addProductRequest struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ResalePrice  decimal.Decimal `json:"resale_price"`
}

func (h *SellerHandler) addProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AddStoreProduct")
	defer span.End()

	storeID, ok := h.storeID(w, r)
	if !ok {
		return
	}

	var req addProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	// resale price is in the store's currency
	store, err := h.stores.GetByID(ctx, storeID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.catalog.AddToStore(ctx, storeID, req.ProductID, req.ResalePrice, store.Currency); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SellerHandler) removeProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RemoveStoreProduct")
	defer span.End()

	storeID, ok := h.storeID(w, r)
	if !ok {
		return
	}
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.catalog.RemoveFromStore(ctx, storeID, productID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type orderResponse struct {
	ID              uuid.UUID   `json:"id"`
	StoreID         uuid.UUID   `json:"store_id"`
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email"`
	CustomerAddress string      `json:"customer_address"`
	Total           money.Money `json:"total"`
	Status          string      `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
}

func toOrderResponse(o orderdom.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		StoreID:         o.StoreID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerAddress: o.CustomerAddress,
		Total:           o.Total,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
	}
}

func (h *SellerHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListStoreOrders")
	defer span.End()

	storeID, ok := h.storeID(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.ListByStore(ctx, storeID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, out)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *SellerHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateOrderStatus")
	defer span.End()

	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := h.orders.SetStatus(ctx, orderID, req.Status); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SellerHandler) storeID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "storeID"))
	if err != nil {
		http.Error(w, "invalid store id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *SellerHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storedom.ErrStoreNotFound),
		errors.Is(err, catalogdom.ErrProductNotFound),
		errors.Is(err, orderdom.ErrOrderNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, orderdom.ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.log.Error("seller request failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
