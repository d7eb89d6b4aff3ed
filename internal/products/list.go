package products

import (
	"github.com/google/uuid"

	"github.com/markberon/sari-store-backend/pkg/enums"
)

// Sort names the supported catalog orderings.
type Sort string

const (
	SortName      Sort = "name"
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
	SortNewest    Sort = "newest"
)

// ParseSort maps a query-string value onto a Sort, defaulting to name order.
func ParseSort(raw string) Sort {
	switch Sort(raw) {
	case SortPriceAsc, SortPriceDesc, SortNewest, SortName:
		return Sort(raw)
	default:
		return SortName
	}
}

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	CategoryID    *uuid.UUID
	Badge         *enums.ProductBadge
	AvailableOnly bool
	Query         string
	Sort          Sort
}
