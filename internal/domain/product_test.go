package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_MarshalJSON_RoundsAverageRating(t *testing.T) {
	p := Product{ID: 101, Name: "Laptop", AverageRating: 14.0 / 3.0, ReviewCount: 3}

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 4.67, decoded["averageRating"])

	// The in-memory value keeps the exact quotient.
	assert.Equal(t, 14.0/3.0, p.AverageRating)
}

func TestProduct_OutOfStock(t *testing.T) {
	assert.True(t, (&Product{Stock: 0}).OutOfStock())
	assert.False(t, (&Product{Stock: 1}).OutOfStock())
}

func TestProduct_HasReviews(t *testing.T) {
	assert.False(t, (&Product{}).HasReviews())
	assert.True(t, (&Product{ReviewCount: 1}).HasReviews())
}
