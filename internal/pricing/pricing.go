// Package pricing computes order totals. It is pure: the same lines and
// rates always produce the same breakdown, and nothing here touches I/O.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"restaurant-orders/internal/models"
)

// DefaultTaxRate applies when a restaurant has no tax rate configured.
const DefaultTaxRate = 0.06

// ModifierBreakdown details one modifier's contribution to a line.
type ModifierBreakdown struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// ItemBreakdown details one line's contribution to the subtotal.
type ItemBreakdown struct {
	Name          string              `json:"item_name"`
	Quantity      int                 `json:"item_quantity"`
	BasePrice     float64             `json:"item_base_price"`
	ItemSubtotal  float64             `json:"item_subtotal"`
	ModifierTotal float64             `json:"modifier_total"`
	ItemTotal     float64             `json:"item_total"`
	Modifiers     []ModifierBreakdown `json:"modifiers,omitempty"`
}

// Breakdown is the priced order. Subtotal, TaxAmount, and Total are each
// rounded to two places independently; recomputing from the same inputs
// and rates is deterministic.
type Breakdown struct {
	Subtotal    float64         `json:"subtotal"`
	TaxAmount   float64         `json:"tax_amount"`
	TaxRate     float64         `json:"tax_rate"`
	DeliveryFee float64         `json:"delivery_fee"`
	TipAmount   float64         `json:"tip_amount"`
	Total       float64         `json:"total"`
	Items       []ItemBreakdown `json:"item_breakdown"`
}

// Price computes the full breakdown for a set of order lines.
//
// item_total = base_price*quantity + sum(modifier.price*modifier.quantity)
// subtotal   = sum(item_total)
// tax_amount = round(subtotal*tax_rate, 2)
// total      = round(subtotal, 2) + tax_amount + delivery_fee + tip_amount
func Price(lines []models.OrderLine, taxRate, deliveryFee, tipAmount float64) (*Breakdown, error) {
	if len(lines) == 0 {
		return nil, &models.ValidationError{Field: "order_items", Message: "at least one item is required"}
	}
	if deliveryFee < 0 {
		return nil, &models.ValidationError{Field: "delivery_fee", Message: "must not be negative"}
	}
	if tipAmount < 0 {
		return nil, &models.ValidationError{Field: "tip_amount", Message: "must not be negative"}
	}

	subtotal := decimal.Zero
	items := make([]ItemBreakdown, 0, len(lines))

	for i, line := range lines {
		if err := validateLine(line, i); err != nil {
			return nil, err
		}

		base := decimal.NewFromFloat(line.BasePrice)
		qty := decimal.NewFromInt(int64(line.Quantity))
		itemSubtotal := base.Mul(qty)

		modifierTotal := decimal.Zero
		var mods []ModifierBreakdown
		for _, mod := range line.Modifiers {
			modTotal := decimal.NewFromFloat(mod.Price).Mul(decimal.NewFromInt(int64(mod.Quantity)))
			modifierTotal = modifierTotal.Add(modTotal)
			mods = append(mods, ModifierBreakdown{
				Name:      mod.Name,
				Quantity:  mod.Quantity,
				UnitPrice: mod.Price,
				Total:     modTotal.InexactFloat64(),
			})
		}

		itemTotal := itemSubtotal.Add(modifierTotal)
		subtotal = subtotal.Add(itemTotal)

		items = append(items, ItemBreakdown{
			Name:          line.Name,
			Quantity:      line.Quantity,
			BasePrice:     line.BasePrice,
			ItemSubtotal:  itemSubtotal.InexactFloat64(),
			ModifierTotal: modifierTotal.InexactFloat64(),
			ItemTotal:     itemTotal.InexactFloat64(),
			Modifiers:     mods,
		})
	}

	rate := decimal.NewFromFloat(taxRate)
	taxAmount := subtotal.Mul(rate).Round(2)
	roundedSubtotal := subtotal.Round(2)
	total := roundedSubtotal.
		Add(taxAmount).
		Add(decimal.NewFromFloat(deliveryFee)).
		Add(decimal.NewFromFloat(tipAmount)).
		Round(2)

	return &Breakdown{
		Subtotal:    roundedSubtotal.InexactFloat64(),
		TaxAmount:   taxAmount.InexactFloat64(),
		TaxRate:     taxRate,
		DeliveryFee: deliveryFee,
		TipAmount:   tipAmount,
		Total:       total.InexactFloat64(),
		Items:       items,
	}, nil
}

func validateLine(line models.OrderLine, index int) error {
	prefix := fmt.Sprintf("order_items[%d]", index)

	if line.Name == "" {
		return &models.ValidationError{Field: prefix + ".item_name", Message: "item name is required"}
	}
	if line.Quantity < 1 {
		return &models.ValidationError{Field: prefix + ".item_quantity", Message: "quantity must be at least 1"}
	}
	if line.BasePrice < 0 {
		return &models.ValidationError{Field: prefix + ".item_base_price", Message: "price must not be negative"}
	}

	for j, mod := range line.Modifiers {
		modPrefix := fmt.Sprintf("%s.modifiers[%d]", prefix, j)
		if mod.Name == "" {
			return &models.ValidationError{Field: modPrefix + ".modifier_name", Message: "modifier name is required"}
		}
		if mod.Quantity < 1 {
			return &models.ValidationError{Field: modPrefix + ".modifier_quantity", Message: "quantity must be at least 1"}
		}
		if mod.Price < 0 {
			return &models.ValidationError{Field: modPrefix + ".modifier_price", Message: "price must not be negative"}
		}
	}

	return nil
}
