package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/markberon/sari-store-backend/pkg/enums"
)

// Order is immutable once created. Totals are computed at checkout and never
// recomputed; status is advanced only by the fulfillment process.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     string            `gorm:"column:order_number;uniqueIndex;not null"`
	CustomerName    string            `gorm:"column:customer_name;not null"`
	CustomerPhone   string            `gorm:"column:customer_phone;not null"`
	CustomerAddress string            `gorm:"column:customer_address;not null"`
	CustomerNotes   *string           `gorm:"column:customer_notes"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	Subtotal        decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DeliveryFee     decimal.Decimal   `gorm:"column:delivery_fee;type:numeric(12,2);not null"`
	Total           decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payment         *Payment          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
