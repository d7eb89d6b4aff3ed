package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/markberon/sari-store-backend/pkg/types"
)

// CartRecord is the durable copy of one session's cart. The item list is a
// JSON snapshot; the open/closed drawer flag is deliberately not part of it
// and does not survive a reload.
type CartRecord struct {
	ID        uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID string                  `gorm:"column:session_id;uniqueIndex;not null"`
	Items     types.CartItemSnapshots `gorm:"column:items;type:jsonb;serializer:json;not null"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
