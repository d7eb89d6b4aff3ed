package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/markberon/sari-store-backend/pkg/enums"
)

// Payment records how an order is to be settled. ReferenceNumber carries the
// GCash transaction reference when the method is gcash.
type Payment struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID           `gorm:"column:order_id;type:uuid;not null"`
	Method          enums.PaymentMethod `gorm:"column:method;not null"`
	ReferenceNumber *string             `gorm:"column:reference_number"`
	Amount          decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Status          string              `gorm:"column:status;not null;default:'pending'"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
