package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/markberon/sari-store-backend/pkg/pricing"
	"github.com/markberon/sari-store-backend/pkg/types"
)

// Cart is the in-memory working copy of one session's basket. Totals are
// always derived from the items; nothing here is stored pre-computed.
//
// IsOpen tracks the storefront drawer and is intentionally excluded from the
// persisted snapshot, so a restored cart always starts closed.
type Cart struct {
	Items  []types.CartItemSnapshot
	IsOpen bool
}

// FromSnapshots rebuilds a cart from its persisted item list.
func FromSnapshots(items types.CartItemSnapshots) *Cart {
	c := &Cart{}
	if len(items) > 0 {
		c.Items = append(c.Items, items...)
	}
	return c
}

// Snapshots returns the persistable item list.
func (c *Cart) Snapshots() types.CartItemSnapshots {
	if len(c.Items) == 0 {
		return types.CartItemSnapshots{}
	}
	out := make(types.CartItemSnapshots, len(c.Items))
	copy(out, c.Items)
	return out
}

// AddItem merges by product: adding a product already in the cart bumps that
// line's quantity instead of appending a duplicate line. New lines get a
// fresh line id. Adding always opens the drawer.
func (c *Cart) AddItem(product types.ProductSnapshot, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.Items {
		if c.Items[i].Product.ID == product.ID {
			c.Items[i].Quantity += quantity
			c.IsOpen = true
			return
		}
	}
	c.Items = append(c.Items, types.CartItemSnapshot{
		ID:       uuid.NewString(),
		Product:  product,
		Quantity: quantity,
	})
	c.IsOpen = true
}

// RemoveItem drops the line for the given product. Unknown products are a
// no-op.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the line quantity for the given product. A quantity of
// zero or less removes the line.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart. The drawer state is left alone.
func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) Open()   { c.IsOpen = true }
func (c *Cart) Close()  { c.IsOpen = false }
func (c *Cart) Toggle() { c.IsOpen = !c.IsOpen }

// ItemCount is the sum of line quantities, not the number of lines.
func (c *Cart) ItemCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) pricingLines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, pricing.Line{
			UnitPrice: item.Product.Price,
			Quantity:  item.Quantity,
		})
	}
	return lines
}

// Subtotal is the sum of unit price times quantity across all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	return pricing.Subtotal(c.pricingLines())
}

// DeliveryFee applies the delivery rule to the current subtotal.
func (c *Cart) DeliveryFee(rule pricing.Rule) decimal.Decimal {
	return rule.DeliveryFee(c.Subtotal())
}

// Total is subtotal plus delivery fee under the given rule.
func (c *Cart) Total(rule pricing.Rule) decimal.Decimal {
	return c.Quote(rule).Total
}

// Quote derives all three totals in one pass.
func (c *Cart) Quote(rule pricing.Rule) pricing.Quote {
	return rule.QuoteLines(c.pricingLines())
}
