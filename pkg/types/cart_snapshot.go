package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/markberon/sari-store-backend/pkg/enums"
)

// ProductSnapshot is the product shape embedded in a persisted cart item.
// The cart keeps the whole product so totals can be recomputed after a
// reload without a catalog round trip; the catalog remains authoritative for
// live display.
type ProductSnapshot struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	Slug          string             `json:"slug"`
	Price         decimal.Decimal    `json:"price"`
	OldPrice      *decimal.Decimal   `json:"old_price,omitempty"`
	Unit          enums.ProductUnit  `json:"unit"`
	ImageEmoji    *string            `json:"image_emoji,omitempty"`
	ImageURL      *string            `json:"image_url,omitempty"`
	Badge         *enums.ProductBadge `json:"badge,omitempty"`
	IsAvailable   bool               `json:"is_available"`
	StockQuantity *int               `json:"stock_quantity,omitempty"`
}

// CartItemSnapshot is one persisted cart line: a generated id, the embedded
// product, and a quantity. This is the durable-storage format; it must
// round-trip so a restored cart reproduces the same totals.
type CartItemSnapshot struct {
	ID       string          `json:"id"`
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
}

// CartItemSnapshots is stored as a jsonb column on the cart record.
type CartItemSnapshots []CartItemSnapshot
