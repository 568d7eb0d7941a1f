package domain

import "time"

// Customer is a registered buyer. OrderIDs accumulates the orders placed
// by the customer in creation order.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	OrderIDs  []int64   `json:"orderIds"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
