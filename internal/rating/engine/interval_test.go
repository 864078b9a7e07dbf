package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalCategory(t *testing.T) {
	t.Run("single payment has no rating", func(t *testing.T) {
		_, ok := IntervalCategory([]PaymentEntry{payment(100, 0)})
		assert.False(t, ok)
	})

	t.Run("two payments ten days apart are good", func(t *testing.T) {
		got, ok := IntervalCategory([]PaymentEntry{payment(100, 10), payment(50, 0)})
		require.True(t, ok)
		assert.Equal(t, CategoryGood, got.Category)
		assert.Equal(t, 10.0, got.AverageDays)
		assert.Equal(t, 1, got.Gaps)
	})

	t.Run("mean of gaps", func(t *testing.T) {
		got, ok := IntervalCategory([]PaymentEntry{payment(1, 0), payment(1, 40), payment(1, 140)})
		require.True(t, ok)
		assert.Equal(t, 70.0, got.AverageDays)
		assert.Equal(t, CategoryBad, got.Category)
	})

	t.Run("average band", func(t *testing.T) {
		got, ok := IntervalCategory([]PaymentEntry{payment(1, 0), payment(1, 50)})
		require.True(t, ok)
		assert.Equal(t, CategoryAverage, got.Category)
	})
}
