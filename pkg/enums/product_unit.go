package enums

import "fmt"

// ProductUnit maps to the product_unit enum in Postgres.
type ProductUnit string

const (
	UnitPiece  ProductUnit = "piece"
	UnitBox    ProductUnit = "box"
	UnitCase   ProductUnit = "case"
	UnitPallet ProductUnit = "pallet"
	UnitKg     ProductUnit = "kg"
	UnitLiter  ProductUnit = "liter"
)

var validProductUnits = []ProductUnit{
	UnitPiece,
	UnitBox,
	UnitCase,
	UnitPallet,
	UnitKg,
	UnitLiter,
}

func (u ProductUnit) String() string {
	return string(u)
}

// IsValid reports whether the value matches the canonical product_unit enum.
func (u ProductUnit) IsValid() bool {
	for _, candidate := range validProductUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseProductUnit converts raw input into ProductUnit.
func ParseProductUnit(value string) (ProductUnit, error) {
	for _, candidate := range validProductUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product unit %q", value)
}
