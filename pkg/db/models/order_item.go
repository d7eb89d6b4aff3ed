package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem freezes one product line as of checkout time. Name and price are
// copied, not referenced, so later catalog edits never change past orders.
type OrderItem struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	ProductID    *uuid.UUID      `gorm:"column:product_id;type:uuid"`
	ProductName  string          `gorm:"column:product_name;not null"`
	ProductPrice decimal.Decimal `gorm:"column:product_price;type:numeric(12,2);not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	Subtotal     decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
