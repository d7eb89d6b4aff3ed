package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/markberon/sari-store-backend/pkg/enums"
)

// Product is the canonical catalog listing. Prices on this row are live:
// carts price against them at read time, while orders freeze their own copy
// at checkout.
type Product struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID    uuid.UUID           `gorm:"column:category_id;type:uuid;not null"`
	Name          string              `gorm:"column:name;not null"`
	Slug          string              `gorm:"column:slug;uniqueIndex;not null"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	OldPrice      *decimal.Decimal    `gorm:"column:old_price;type:numeric(12,2)"`
	Unit          enums.ProductUnit   `gorm:"column:unit;not null;default:'pc'"`
	ImageEmoji    *string             `gorm:"column:image_emoji"`
	ImageURL      *string             `gorm:"column:image_url"`
	Badge         *enums.ProductBadge `gorm:"column:badge"`
	SearchTags    pq.StringArray      `gorm:"column:search_tags;type:text[]"`
	StockQuantity *int                `gorm:"column:stock_quantity"`
	IsAvailable   bool                `gorm:"column:is_available;not null;default:true"`
	IsFeatured    bool                `gorm:"column:is_featured;not null;default:false"`
	Rating        *float64            `gorm:"column:rating;type:numeric(3,2)"`
	ReviewCount   int                 `gorm:"column:review_count;not null;default:0"`
	Category      *Category           `gorm:"foreignKey:CategoryID"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
