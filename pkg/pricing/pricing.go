// Package pricing owns the delivery fee rule shared by the cart engine and
// the order assembler. Both must price a given set of lines identically, so
// the threshold lives here and nowhere else.
package pricing

import "github.com/shopspring/decimal"

// Default rule values in whole pesos. Overridable through config.
const (
	DefaultBaseDeliveryFee       = 50
	DefaultFreeDeliveryThreshold = 1000
)

// Line is the minimal shape the pricer needs: a unit price and a quantity.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Quote is the derived money breakdown for a set of lines. It is always
// recomputed, never stored.
type Quote struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// Rule captures the fee parameters. The zero value is not usable; build one
// with NewRule or DefaultRule.
type Rule struct {
	baseFee       decimal.Decimal
	freeThreshold decimal.Decimal
}

// NewRule builds a pricing rule from explicit amounts.
func NewRule(baseFee, freeThreshold decimal.Decimal) Rule {
	return Rule{baseFee: baseFee, freeThreshold: freeThreshold}
}

// DefaultRule returns the stock 50-peso fee / 1000-peso threshold rule.
func DefaultRule() Rule {
	return NewRule(
		decimal.NewFromInt(DefaultBaseDeliveryFee),
		decimal.NewFromInt(DefaultFreeDeliveryThreshold),
	)
}

// BaseFee returns the configured base delivery fee.
func (r Rule) BaseFee() decimal.Decimal {
	return r.baseFee
}

// FreeThreshold returns the subtotal at or above which delivery is free.
func (r Rule) FreeThreshold() decimal.Decimal {
	return r.freeThreshold
}

// Subtotal sums unit price times quantity over the lines.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum
}

// DeliveryFee applies the threshold rule to a subtotal. The boundary is
// inclusive: a subtotal exactly at the threshold ships free.
func (r Rule) DeliveryFee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(r.freeThreshold) {
		return decimal.Zero
	}
	return r.baseFee
}

// QuoteLines computes the full subtotal / delivery fee / total breakdown.
func (r Rule) QuoteLines(lines []Line) Quote {
	subtotal := Subtotal(lines)
	fee := r.DeliveryFee(subtotal)
	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
	}
}
