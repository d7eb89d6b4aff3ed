package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products for storefront browsing.
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;uniqueIndex;not null"`
	Icon      string    `gorm:"column:icon;not null;default:''"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
