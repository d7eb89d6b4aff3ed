package enums

import "fmt"

// ProductUnit is the measure a product is sold by.
type ProductUnit string

const (
	ProductUnitPiece  ProductUnit = "pc"
	ProductUnitKilo   ProductUnit = "kg"
	ProductUnitGram   ProductUnit = "g"
	ProductUnitLiter  ProductUnit = "liter"
	ProductUnitMl     ProductUnit = "ml"
	ProductUnitPack   ProductUnit = "pack"
	ProductUnitBottle ProductUnit = "bottle"
	ProductUnitCan    ProductUnit = "can"
	ProductUnitBox    ProductUnit = "box"
	ProductUnitBundle ProductUnit = "bundle"
	ProductUnitTray   ProductUnit = "tray"
	ProductUnitSack   ProductUnit = "sack"
	ProductUnitCarton ProductUnit = "carton"
	ProductUnitDozen  ProductUnit = "dozen"
)

var validProductUnits = []ProductUnit{
	ProductUnitPiece,
	ProductUnitKilo,
	ProductUnitGram,
	ProductUnitLiter,
	ProductUnitMl,
	ProductUnitPack,
	ProductUnitBottle,
	ProductUnitCan,
	ProductUnitBox,
	ProductUnitBundle,
	ProductUnitTray,
	ProductUnitSack,
	ProductUnitCarton,
	ProductUnitDozen,
}

// String implements fmt.Stringer.
func (u ProductUnit) String() string {
	return string(u)
}

// IsValid reports whether the value is a known ProductUnit.
func (u ProductUnit) IsValid() bool {
	for _, candidate := range validProductUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseProductUnit converts raw input into a ProductUnit.
func ParseProductUnit(value string) (ProductUnit, error) {
	for _, candidate := range validProductUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product unit %q", value)
}
