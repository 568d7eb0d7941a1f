package domain

import "time"

// OrderStatus is the lifecycle state of an order. Values are capitalized
// on the wire.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// ValidStatuses lists every recognized order status.
var ValidStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValidStatus reports whether s is a recognized order status.
func IsValidStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// allowedTransitions defines the order state machine. Delivered and
// Cancelled are terminal.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// CanTransitionTo reports whether the order may move from its current
// status to the target status.
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range allowedTransitions[o.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the order is in a terminal status.
func (o *Order) IsTerminal() bool {
	return len(allowedTransitions[o.Status]) == 0
}

// Order records a purchase of one or more product units. ProductIDs
// lists one entry per unit ordered, so the same product appears once
// per unit.
type Order struct {
	ID         int64       `json:"id"`
	CustomerID int64       `json:"customerId"`
	ProductIDs []int64     `json:"productIds"`
	Status     OrderStatus `json:"status"`
	Total      int64       `json:"total"` // minor currency units (cents)
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// QuantityByProduct collapses the unit list into per-product quantities.
func (o *Order) QuantityByProduct() map[int64]int {
	quantities := make(map[int64]int, len(o.ProductIDs))
	for _, id := range o.ProductIDs {
		quantities[id]++
	}
	return quantities
}
