package core

import (
	"math"
	"strconv"
	"strings"
)

// CostCategory names one of the eight budget lines that make up a
// project's expected cost.
type CostCategory string

const (
	CategoryInternal            CostCategory = "internal"
	CategoryExternal            CostCategory = "external"
	CategorySoftware            CostCategory = "software"
	CategoryVRDevelopment       CostCategory = "vr_development"
	CategorySoftwareDevelopment CostCategory = "software_development"
	CategoryDesign              CostCategory = "design"
	CategoryModeling3D          CostCategory = "modeling_3d"
	CategoryRendering           CostCategory = "rendering"
)

// CostCategories lists all eight categories. Total cost always sums
// every entry of this slice, in this order.
var CostCategories = []CostCategory{
	CategoryInternal,
	CategoryExternal,
	CategorySoftware,
	CategoryVRDevelopment,
	CategorySoftwareDevelopment,
	CategoryDesign,
	CategoryModeling3D,
	CategoryRendering,
}

func (c CostCategory) Valid() bool {
	for _, known := range CostCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCostCategory validates a category tag from storage or an import
// row. Unknown tags are an error, not a fall-through.
func ParseCostCategory(s string) (CostCategory, error) {
	c := CostCategory(strings.TrimSpace(strings.ToLower(s)))
	if !c.Valid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// CostSheet holds the budgeted amount for each cost category of a
// project. Internal is the derived creative-director line
// (hours × hourly rate); the others are entered directly.
type CostSheet struct {
	Internal            Money
	External            Money
	Software            Money
	VRDevelopment       Money
	SoftwareDevelopment Money
	Design              Money
	Modeling3D          Money
	Rendering           Money
}

// Amount returns the budgeted amount for one category.
func (c CostSheet) Amount(cat CostCategory) Money {
	switch cat {
	case CategoryInternal:
		return c.Internal
	case CategoryExternal:
		return c.External
	case CategorySoftware:
		return c.Software
	case CategoryVRDevelopment:
		return c.VRDevelopment
	case CategorySoftwareDevelopment:
		return c.SoftwareDevelopment
	case CategoryDesign:
		return c.Design
	case CategoryModeling3D:
		return c.Modeling3D
	case CategoryRendering:
		return c.Rendering
	}
	return Money{}
}

// Total is the single expected-cost formula: the sum of all eight
// category amounts. Every view goes through here; nothing re-derives it.
func (c CostSheet) Total() Money {
	var total Money
	for _, cat := range CostCategories {
		total = total.Add(c.Amount(cat))
	}
	return total
}

// CostModel converts labor hours into the internal cost line. The
// hourly rate is injected configuration: the historical data carries
// two different hardcoded rates, so the deployment decides.
type CostModel struct {
	HourlyRate Money
}

// NewCostModel validates the configured rate.
func NewCostModel(hourlyRate Money) (CostModel, error) {
	if hourlyRate.Cents <= 0 {
		return CostModel{}, ErrInvalidAmount
	}
	return CostModel{HourlyRate: hourlyRate}, nil
}

// InternalCost converts creative-director hours to cents, rounding
// half-up to the nearest cent.
func (m CostModel) InternalCost(hours float64) Money {
	if hours <= 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return Money{}
	}
	return Money{Cents: int64(math.Round(hours * float64(m.HourlyRate.Cents)))}
}

// Hours inverts InternalCost for form round-trips, rounding to the
// nearest whole hour.
func (m CostModel) Hours(internal Money) float64 {
	if m.HourlyRate.Cents <= 0 {
		return 0
	}
	return math.Round(float64(internal.Cents) / float64(m.HourlyRate.Cents))
}

// ParseHours coerces a numeric string to hours. Anything unparseable
// or negative becomes 0; hour fields never abort a request.
func ParseHours(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil || h < 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	return h
}
