package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/okarpov/storecore/internal/domain"
	"github.com/okarpov/storecore/internal/event"
	"github.com/okarpov/storecore/internal/metrics"
	"github.com/okarpov/storecore/internal/repository"
	apperrors "github.com/okarpov/storecore/pkg/errors"
	"github.com/okarpov/storecore/pkg/pagination"
)

// OrderService implements order placement, the status state machine,
// and cancellation with stock restoration.
type OrderService struct {
	orders    repository.OrderRepository
	products  repository.ProductRepository
	customers repository.CustomerRepository
	events    *event.Producer
	log       *slog.Logger
}

// NewOrderService creates an order service.
func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	events *event.Producer,
	log *slog.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		customers: customers,
		events:    events,
		log:       log,
	}
}

// Create places an order: it reserves stock for every requested unit and
// records the order as Pending. Reservation is all-or-nothing; on any
// failure, already-reserved stock is restored and no order is recorded.
func (s *OrderService) Create(ctx context.Context, customerID int64, productIDs []int64) (*domain.Order, error) {
	if len(productIDs) == 0 {
		return nil, apperrors.InvalidInput("order must contain at least one product")
	}

	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}

	quantities := make(map[int64]int, len(productIDs))
	for _, id := range productIDs {
		quantities[id]++
	}

	// Reserve in ascending product ID order so concurrent multi-product
	// orders acquire stock in a consistent order.
	ids := make([]int64, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var total int64
	reserved := make([]int64, 0, len(ids))

	for _, id := range ids {
		qty := quantities[id]
		product, err := s.products.Reserve(ctx, id, qty)
		if err != nil {
			s.rollbackReservations(ctx, reserved, quantities)
			if errors.Is(err, apperrors.ErrInsufficientStock) {
				metrics.ReservationFailures.Inc()
			}
			return nil, err
		}
		reserved = append(reserved, id)
		total += product.Price * int64(qty)
		s.events.InventoryUpdated(ctx, id, product.Stock)
	}

	order := &domain.Order{
		CustomerID: customerID,
		ProductIDs: slices.Clone(productIDs),
		Status:     domain.OrderStatusPending,
		Total:      total,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		s.rollbackReservations(ctx, reserved, quantities)
		return nil, err
	}

	if err := s.customers.AttachOrder(ctx, customerID, order.ID); err != nil {
		// The order is already placed; losing the back-reference is
		// recoverable, so log instead of failing the operation.
		s.log.ErrorContext(ctx, "attaching order to customer",
			slog.Int64("order_id", order.ID),
			slog.Int64("customer_id", customerID),
			slog.String("error", err.Error()),
		)
	}

	s.log.InfoContext(ctx, "order created",
		slog.Int64("order_id", order.ID),
		slog.Int64("customer_id", customerID),
		slog.Int("units", len(productIDs)),
		slog.Int64("total", total),
	)

	metrics.OrdersCreated.Inc()
	s.events.OrderCreated(ctx, order)
	return order, nil
}

func (s *OrderService) rollbackReservations(ctx context.Context, reserved []int64, quantities map[int64]int) {
	for _, id := range reserved {
		if _, err := s.products.Restore(ctx, id, quantities[id]); err != nil {
			s.log.ErrorContext(ctx, "rolling back reservation",
				slog.Int64("product_id", id),
				slog.Int("quantity", quantities[id]),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *OrderService) List(ctx context.Context, p pagination.Params) ([]*domain.Order, pagination.Meta, error) {
	orders, err := s.orders.List(ctx, p)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	total, err := s.orders.Count(ctx)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return orders, pagination.NewMeta(p, total), nil
}

// ListBetween returns orders created within [from, to].
func (s *OrderService) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	if to.Before(from) {
		return nil, apperrors.InvalidInput("'to' must not be before 'from'")
	}
	return s.orders.ListBetweenDates(ctx, from, to)
}

// UpdateStatus moves an order through the state machine. Transitions to
// Cancelled go through Cancel so reserved stock is restored.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, target domain.OrderStatus) (*domain.Order, error) {
	if !domain.IsValidStatus(target) {
		return nil, apperrors.InvalidInput("unknown order status: " + string(target))
	}
	if target == domain.OrderStatusCancelled {
		return s.Cancel(ctx, id)
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.CanTransitionTo(target) {
		metrics.OrderTransitions.WithLabelValues(string(target), "rejected").Inc()
		return nil, apperrors.InvalidTransition(string(order.Status), string(target))
	}

	previous := order.Status
	updated, err := s.orders.UpdateStatusFrom(ctx, id, previous, target)
	if err != nil {
		metrics.OrderTransitions.WithLabelValues(string(target), "conflict").Inc()
		return nil, err
	}

	s.log.InfoContext(ctx, "order status changed",
		slog.Int64("order_id", id),
		slog.String("from", string(previous)),
		slog.String("to", string(target)),
	)

	metrics.OrderTransitions.WithLabelValues(string(target), "ok").Inc()
	s.events.OrderStatusChanged(ctx, updated, previous)
	return updated, nil
}

// Cancel cancels a Pending order and restores its reserved stock. The
// conditional status update guarantees stock is restored at most once
// even under concurrent cancellation attempts.
func (s *OrderService) Cancel(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.CanTransitionTo(domain.OrderStatusCancelled) {
		metrics.OrderTransitions.WithLabelValues(string(domain.OrderStatusCancelled), "rejected").Inc()
		return nil, apperrors.InvalidTransition(string(order.Status), string(domain.OrderStatusCancelled))
	}

	previous := order.Status
	cancelled, err := s.orders.UpdateStatusFrom(ctx, id, previous, domain.OrderStatusCancelled)
	if err != nil {
		metrics.OrderTransitions.WithLabelValues(string(domain.OrderStatusCancelled), "conflict").Inc()
		return nil, err
	}

	for productID, qty := range cancelled.QuantityByProduct() {
		product, err := s.products.Restore(ctx, productID, qty)
		if err != nil {
			// Products can be deleted while orders referencing them
			// remain; there is no stock to restore in that case.
			s.log.WarnContext(ctx, "skipping stock restore",
				slog.Int64("order_id", id),
				slog.Int64("product_id", productID),
				slog.String("error", err.Error()),
			)
			continue
		}
		s.events.InventoryUpdated(ctx, productID, product.Stock)
	}

	s.log.InfoContext(ctx, "order cancelled",
		slog.Int64("order_id", id),
		slog.String("from", string(previous)),
	)

	metrics.OrdersCancelled.Inc()
	metrics.OrderTransitions.WithLabelValues(string(domain.OrderStatusCancelled), "ok").Inc()
	s.events.OrderCancelled(ctx, cancelled)
	return cancelled, nil
}
