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
	"golang.org/x/text/currency"

	catalogapp "github.com/shopcanvas/storefront/internal/catalog/application"
	"github.com/shopcanvas/storefront/internal/catalog/domain"
	"github.com/shopcanvas/storefront/internal/money"
	orderapp "github.com/shopcanvas/storefront/internal/order/application"
	storeapp "github.com/shopcanvas/storefront/internal/storefront/application"
	storedom "github.com/shopcanvas/storefront/internal/storefront/domain"
)

// AdminHandler is the platform operator API: the shared product catalog,
// seller store provisioning and a cross-store order view.
type AdminHandler struct {
	log     *slog.Logger
	catalog *catalogapp.Service
	stores  *storeapp.Service
	orders  *orderapp.Service
	tracer  trace.Tracer
}

func NewAdminHandler(log *slog.Logger, catalog *catalogapp.Service, stores *storeapp.Service, orders *orderapp.Service) *AdminHandler {
	return &AdminHandler{
		log:     log,
		catalog: catalog,
		stores:  stores,
		orders:  orders,
		tracer:  otel.Tracer("admin-http"),
	}
}

func (h *AdminHandler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/{productID}", h.getProduct)
		r.Put("/{productID}", h.updateProduct)
		r.Delete("/{productID}", h.deleteProduct)
	})
	r.Post("/stores", h.createStore)
	r.Get("/orders", h.listOrders)

	return r
}

type productRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	BasePrice   money.Money `json:"base_price"`
	ImageURL    string      `json:"image_url"`
}

type productResponse struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	BasePrice   money.Money `json:"base_price"`
	ImageURL    string      `json:"image_url"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		BasePrice:   p.BasePrice,
		ImageURL:    p.ImageURL,
	}
}

func (h *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateProduct")
	defer span.End()

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	created, err := h.catalog.CreateProduct(ctx, domain.Product{
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(created))
}

func (h *AdminHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetProduct")
	defer span.End()

	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	p, err := h.catalog.GetProduct(ctx, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (h *AdminHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateProduct")
	defer span.End()

	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	err = h.catalog.UpdateProduct(ctx, domain.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DeleteProduct")
	defer span.End()

	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.catalog.DeleteProduct(ctx, id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListProducts")
	defer span.End()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

type createStoreRequest struct {
	OwnerID  uuid.UUID `json:"owner_id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Currency string    `json:"currency"`
}

func (h *AdminHandler) createStore(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateStore")
	defer span.End()

	var req createStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Name == "" {
		http.Error(w, "username and name are required", http.StatusBadRequest)
		return
	}

	store := storedom.Store{
		OwnerID:  req.OwnerID,
		Username: req.Username,
		Name:     req.Name,
	}
	if req.Currency != "" {
		cur, err := currency.ParseISO(req.Currency)
		if err != nil {
			http.Error(w, "invalid currency", http.StatusBadRequest)
			return
		}
		store.Currency = cur
	}

	created, err := h.stores.Create(ctx, store)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       created.ID,
		"username": created.Username,
		"name":     created.Name,
		"currency": created.Currency.String(),
	})
}

func (h *AdminHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListAllOrders")
	defer span.End()

	orders, err := h.orders.ListAll(ctx)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		out = append(out, map[string]any{
			"id":             o.ID,
			"store_id":       o.StoreID,
			"customer_name":  o.CustomerName,
			"customer_email": o.CustomerEmail,
			"total":          o.Total,
			"status":         string(o.Status),
			"created_at":     o.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.log.Error("admin request failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
