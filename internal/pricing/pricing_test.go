package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-orders/internal/models"
)

func TestPrice_FullOrder(t *testing.T) {
	lines := []models.OrderLine{
		{
			Name: "Cheeseburger", BasePrice: 12.99, Quantity: 2,
			Modifiers: []models.Modifier{
				{Name: "Extra Cheese", Quantity: 1, Price: 1.50},
				{Name: "Bacon", Quantity: 2, Price: 2.00},
			},
		},
		{
			Name: "French Fries", BasePrice: 4.99, Quantity: 1,
			Modifiers: []models.Modifier{
				{Name: "Large Size", Quantity: 1, Price: 1.00},
			},
		},
		{Name: "Soda", BasePrice: 2.99, Quantity: 2},
	}

	b, err := Price(lines, 0.06, 0, 0)
	require.NoError(t, err)

	require.Len(t, b.Items, 3)
	assert.InDelta(t, 31.48, b.Items[0].ItemTotal, 1e-9)
	assert.InDelta(t, 5.50, b.Items[0].ModifierTotal, 1e-9)
	assert.InDelta(t, 5.99, b.Items[1].ItemTotal, 1e-9)
	assert.InDelta(t, 5.98, b.Items[2].ItemTotal, 1e-9)

	assert.InDelta(t, 43.45, b.Subtotal, 1e-9)
	assert.InDelta(t, 2.61, b.TaxAmount, 1e-9)
	assert.InDelta(t, 46.06, b.Total, 1e-9)
}

func TestPrice_DeliveryFeeAndTip(t *testing.T) {
	lines := []models.OrderLine{{Name: "Soda", BasePrice: 2.99, Quantity: 2}}

	b, err := Price(lines, 0.06, 3.50, 5.00)
	require.NoError(t, err)

	// total = round(subtotal,2) + round(tax,2) + delivery_fee + tip_amount
	assert.InDelta(t, 5.98, b.Subtotal, 1e-9)
	assert.InDelta(t, 0.36, b.TaxAmount, 1e-9)
	assert.InDelta(t, 5.98+0.36+3.50+5.00, b.Total, 1e-9)
	assert.Equal(t, 0.06, b.TaxRate)
}

func TestPrice_SubtotalIsSumOfItemTotals(t *testing.T) {
	lines := []models.OrderLine{
		{Name: "Miso Soup", BasePrice: 3.25, Quantity: 3},
		{Name: "Nigiri Set", BasePrice: 18.40, Quantity: 1,
			Modifiers: []models.Modifier{{Name: "Extra Wasabi", Quantity: 2, Price: 0.75}}},
	}

	b, err := Price(lines, 0.10, 0, 0)
	require.NoError(t, err)

	sum := 0.0
	for _, item := range b.Items {
		sum += item.ItemTotal
	}
	assert.InDelta(t, sum, b.Subtotal, 1e-9)
}

func TestPrice_Deterministic(t *testing.T) {
	lines := []models.OrderLine{{Name: "Roll", BasePrice: 7.77, Quantity: 3}}

	first, err := Price(lines, 0.06, 1.25, 2.00)
	require.NoError(t, err)
	second, err := Price(lines, 0.06, 1.25, 2.00)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPrice_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		lines []models.OrderLine
		fee   float64
		tip   float64
	}{
		{name: "no items", lines: nil},
		{name: "zero quantity", lines: []models.OrderLine{{Name: "Soda", BasePrice: 2.99, Quantity: 0}}},
		{name: "negative price", lines: []models.OrderLine{{Name: "Soda", BasePrice: -1, Quantity: 1}}},
		{name: "missing item name", lines: []models.OrderLine{{BasePrice: 2.99, Quantity: 1}}},
		{
			name: "zero modifier quantity",
			lines: []models.OrderLine{{Name: "Burger", BasePrice: 9.99, Quantity: 1,
				Modifiers: []models.Modifier{{Name: "Cheese", Quantity: 0, Price: 1}}}},
		},
		{
			name: "negative modifier price",
			lines: []models.OrderLine{{Name: "Burger", BasePrice: 9.99, Quantity: 1,
				Modifiers: []models.Modifier{{Name: "Cheese", Quantity: 1, Price: -0.5}}}},
		},
		{name: "negative delivery fee", lines: []models.OrderLine{{Name: "Soda", BasePrice: 2.99, Quantity: 1}}, fee: -1},
		{name: "negative tip", lines: []models.OrderLine{{Name: "Soda", BasePrice: 2.99, Quantity: 1}}, tip: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Price(tt.lines, 0.06, tt.fee, tt.tip)
			require.Error(t, err)

			var verr *models.ValidationError
			assert.True(t, errors.As(err, &verr), "expected ValidationError, got %T", err)
		})
	}
}
