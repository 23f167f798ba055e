package application

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/shopcanvas/storefront/internal/cart"
	orderdom "github.com/shopcanvas/storefront/internal/order/domain"
	storedom "github.com/shopcanvas/storefront/internal/storefront/domain"
	"github.com/shopcanvas/storefront/pkg/idempotency"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Request carries the submitted checkout form. Exactly one of StoreID
// (seller's own sample-order flow) or StoreHandle (shopper-facing route
// parameter) identifies the target store.
type Request struct {
	StoreID         uuid.UUID
	StoreHandle     string
	CustomerName    string
	CustomerEmail   string
	CustomerAddress string
	IdempotencyKey  string
}

// Service converts a cart plus customer details into persisted order rows.
// The header and item writes are two sequential calls with no transaction;
// a failure between them leaves an order with zero items on purpose.
type Service struct {
	log    *slog.Logger
	stores StoreResolver
	orders OrderRepository
	events EventRecorder // optional
	guard  SubmitGuard   // optional
	tracer trace.Tracer
}

func NewService(log *slog.Logger, stores StoreResolver, orders OrderRepository, events EventRecorder, guard SubmitGuard) *Service {
	return &Service{
		log:    log,
		stores: stores,
		orders: orders,
		events: events,
		guard:  guard,
		tracer: otel.Tracer("checkout"),
	}
}

// PlaceOrder runs the full checkout: validate, resolve the store, write the
// order header, write the items, record the event, clear the cart. The cart
// is cleared only on full success.
func (s *Service) PlaceOrder(ctx context.Context, req Request, c *cart.Cart) (orderdom.Order, error) {
	ctx, span := s.tracer.Start(ctx, "PlaceOrder")
	defer span.End()

	var zero orderdom.Order

	if err := validate(req); err != nil {
		return zero, err
	}

	items := c.Items()
	if len(items) == 0 {
		return zero, ErrEmptyCart
	}

	store, err := s.resolveStore(ctx, req)
	if err != nil {
		return zero, err
	}

	var guardKey string
	if s.guard != nil && req.IdempotencyKey != "" {
		guardKey = idempotency.CheckoutKey(store.ID, req.IdempotencyKey)
		seen, err := s.guard.Seen(ctx, guardKey)
		if err != nil {
			// guard outage must not block checkout
			s.log.Error("submit guard check failed", "store_id", store.ID, "err", err)
		} else if seen {
			return zero, ErrDuplicateSubmission
		}
	}

	// the authoritative total comes from the cart at submission time
	order := orderdom.NewOrder(store.ID, req.CustomerName, req.CustomerEmail, req.CustomerAddress, c.Total())

	created, err := s.orders.InsertOrder(ctx, order)
	if err != nil {
		s.releaseGuard(ctx, guardKey)
		return zero, &OrderWriteError{Stage: StageHeader, Err: err}
	}

	orderItems := make([]orderdom.OrderItem, 0, len(items))
	for _, it := range items {
		orderItems = append(orderItems, orderdom.OrderItem{
			OrderID:   created.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	if err := s.orders.InsertItems(ctx, orderItems); err != nil {
		// the header row stays behind without items; no compensating
		// delete, matching the storefront's observed behavior
		s.log.Error("order items insert failed after header insert",
			"order_id", created.ID, "store_id", store.ID, "err", err)
		s.releaseGuard(ctx, guardKey)
		return zero, &OrderWriteError{Stage: StageItems, Err: err}
	}

	if s.events != nil {
		if err := s.events.RecordOrderPlaced(ctx, placedEvent(created, orderItems)); err != nil {
			s.log.Error("order event record failed", "order_id", created.ID, "err", err)
		}
	}

	c.Clear()
	s.log.Info("order placed", "order_id", created.ID, "store_id", store.ID, "total", created.Total.Display())
	return created, nil
}

// releaseGuard frees the idempotency key after a failed order write. The
// order does not exist, so the same form submission must stay valid.
func (s *Service) releaseGuard(ctx context.Context, key string) {
	if s.guard == nil || key == "" {
		return
	}
	if err := s.guard.Forget(ctx, key); err != nil {
		s.log.Error("submit guard release failed", "key", key, "err", err)
	}
}

func (s *Service) resolveStore(ctx context.Context, req Request) (storedom.Store, error) {
	if req.StoreID != uuid.Nil {
		return s.stores.GetByID(ctx, req.StoreID)
	}
	return s.stores.GetByHandle(ctx, req.StoreHandle)
}

func validate(req Request) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return &ValidationError{Field: "customer_name", Reason: "must not be empty"}
	}
	if !emailPattern.MatchString(req.CustomerEmail) {
		return &ValidationError{Field: "customer_email", Reason: "not a valid email address"}
	}
	if strings.TrimSpace(req.CustomerAddress) == "" {
		return &ValidationError{Field: "customer_address", Reason: "must not be empty"}
	}
	if req.StoreID == uuid.Nil && strings.TrimSpace(req.StoreHandle) == "" {
		return &ValidationError{Field: "store", Reason: "store id or handle required"}
	}
	return nil
}

func placedEvent(o orderdom.Order, items []orderdom.OrderItem) orderdom.OrderPlaced {
	ev := orderdom.OrderPlaced{
		OrderID:       o.ID,
		StoreID:       o.StoreID,
		CustomerEmail: o.CustomerEmail,
		Total:         o.Total.Display(),
		Currency:      o.Total.Currency.String(),
	}
	for _, it := range items {
		ev.Items = append(ev.Items, orderdom.PlacedItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price.Display(),
		})
	}
	return ev
}
