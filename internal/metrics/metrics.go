// Package metrics holds engine-level prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersCreated counts successfully placed orders.
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storecore_orders_created_total",
		Help: "Total number of orders placed.",
	})

	// OrdersCancelled counts cancelled orders.
	OrdersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storecore_orders_cancelled_total",
		Help: "Total number of orders cancelled.",
	})

	// OrderTransitions counts status transitions by outcome.
	OrderTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storecore_order_transitions_total",
		Help: "Order status transitions by target status and outcome.",
	}, []string{"to", "outcome"})

	// ReservationFailures counts order attempts rejected for stock.
	ReservationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storecore_reservation_failures_total",
		Help: "Order attempts rejected due to insufficient stock.",
	})

	// ReviewsSubmitted counts review submissions by kind.
	ReviewsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storecore_reviews_submitted_total",
		Help: "Review submissions, split by create vs replace.",
	}, []string{"kind"})

	// AnalyticsCacheHits counts analytics cache lookups by result.
	AnalyticsCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storecore_analytics_cache_lookups_total",
		Help: "Analytics cache lookups by result (hit or miss).",
	}, []string{"result"})
)
