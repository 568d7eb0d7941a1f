package domain

import (
	"encoding/json"
	"math"
	"time"
)

// Product is a catalog item with live stock and a denormalized rating
// summary maintained by the review service.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Price         int64     `json:"price"` // minor currency units (cents)
	Stock         int       `json:"stock"`
	AverageRating float64   `json:"averageRating"`
	ReviewCount   int       `json:"reviewCount"`
	ReviewIDs     []int64   `json:"reviewIds"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// MarshalJSON rounds the average rating to two decimal places on the
// wire. The stored value keeps full precision so repeated summary
// rebuilds never drift.
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	out := alias(p)
	out.AverageRating = math.Round(out.AverageRating*100) / 100
	return json.Marshal(out)
}

// OutOfStock reports whether the product has no units available.
func (p *Product) OutOfStock() bool {
	return p.Stock <= 0
}

// HasReviews reports whether the product has at least one review.
func (p *Product) HasReviews() bool {
	return p.ReviewCount > 0
}
