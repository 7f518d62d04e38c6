package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreatePurchase(t *testing.T) {
	t.Run("prices with the server-side constant", func(t *testing.T) {
		p := CreatePurchase(nil)
		assert.Equal(t, int64(1099), p.Amount)
		assert.Equal(t, "USD", p.Currency)
	})

	t.Run("ignores whatever the client sends as items", func(t *testing.T) {
		items := []LineItem{
			{ID: "sku_1", Quantity: 9999},
			{ID: "sku_2", Quantity: 1},
		}
		p := CreatePurchase(items)
		assert.Equal(t, int64(1099), p.Amount)
		assert.Equal(t, "USD", p.Currency)
	})
}
