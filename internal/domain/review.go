package domain

import "time"

// Review is a customer's rating of a product. A customer holds at most
// one review per product; resubmitting replaces the existing one.
type Review struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"productId"`
	CustomerID int64     `json:"customerId"`
	Rating     int       `json:"rating"` // 1..5
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// RatingSummary is the denormalized aggregate stored on a product.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
