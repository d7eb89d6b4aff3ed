package enums

import "fmt"

// ProductBadge marks a product for promotional display.
type ProductBadge string

const (
	ProductBadgeSale       ProductBadge = "sale"
	ProductBadgeHot        ProductBadge = "hot"
	ProductBadgeFresh      ProductBadge = "fresh"
	ProductBadgeNew        ProductBadge = "new"
	ProductBadgePopular    ProductBadge = "popular"
	ProductBadgeBestSeller ProductBadge = "best-seller"
)

var validProductBadges = []ProductBadge{
	ProductBadgeSale,
	ProductBadgeHot,
	ProductBadgeFresh,
	ProductBadgeNew,
	ProductBadgePopular,
	ProductBadgeBestSeller,
}

// String implements fmt.Stringer.
func (b ProductBadge) String() string {
	return string(b)
}

// IsValid reports whether the value is a known ProductBadge.
func (b ProductBadge) IsValid() bool {
	for _, candidate := range validProductBadges {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseProductBadge converts raw input into a ProductBadge.
func ParseProductBadge(value string) (ProductBadge, error) {
	for _, candidate := range validProductBadges {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product badge %q", value)
}
