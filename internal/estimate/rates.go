package estimate

import (
	"fmt"
	"math"
	"strings"
)

// WorkType is the billing category that selects a pricing curve.
type WorkType string

const (
	WorkTypeSurface      WorkType = "SURFACE"
	WorkTypeDemolition   WorkType = "DEMOLITION"
	WorkTypeConstruction WorkType = "CONSTRUCTION"
	WorkTypeSubfloor     WorkType = "SUBFLOOR"
)

// WorkTypes lists every work type in table order.
var WorkTypes = []WorkType{WorkTypeSurface, WorkTypeDemolition, WorkTypeConstruction, WorkTypeSubfloor}

// ParseWorkType resolves a work type name, ignoring case and surrounding space.
func ParseWorkType(s string) (WorkType, error) {
	wt := WorkType(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := anchors[wt]; !ok {
		return "", fmt.Errorf("unknown work type %q", s)
	}
	return wt, nil
}

// Anchor holds the negotiated total prices, excluding GST, for a 2-hour and an
// 8-hour job.
type Anchor struct {
	TwoHour   float64
	EightHour float64
}

var anchors = map[WorkType]Anchor{
	WorkTypeSurface:      {TwoHour: 612.00, EightHour: 1216.99},
	WorkTypeDemolition:   {TwoHour: 711.90, EightHour: 1798.90},
	WorkTypeConstruction: {TwoHour: 661.96, EightHour: 1507.95},
	WorkTypeSubfloor:     {TwoHour: 900.00, EightHour: 2334.69},
}

// Anchors returns the pricing anchors for the work type. Unknown work types
// fall back to SURFACE pricing.
func (w WorkType) Anchors() Anchor {
	if a, ok := anchors[w]; ok {
		return a
	}
	return anchors[WorkTypeSurface]
}

const (
	lowerAnchorHours = 2.0
	upperAnchorHours = 8.0
)

// InterpolateRate returns the effective hourly labour rate. The rate is linear
// between the 2-hour and 8-hour anchors and held flat outside them.
func InterpolateRate(workType WorkType, hours float64) float64 {
	a := workType.Anchors()
	rate2 := a.TwoHour / lowerAnchorHours
	rate8 := a.EightHour / upperAnchorHours

	switch {
	case hours == lowerAnchorHours:
		return rate2
	case hours == upperAnchorHours:
		return rate8
	case hours < lowerAnchorHours:
		return rate2
	case hours > upperAnchorHours:
		return rate8
	}
	return rate2 + (rate8-rate2)*(hours-lowerAnchorHours)/(upperAnchorHours-lowerAnchorHours)
}

// DiscountTier applies Discount to jobs of at most MaxHours.
type DiscountTier struct {
	MaxHours float64
	Discount float64
}

// DiscountTiers are checked in order; jobs longer than the last tier get
// MaxDiscount.
var DiscountTiers = []DiscountTier{
	{MaxHours: 8, Discount: 0},
	{MaxHours: 16, Discount: 0.075},
	{MaxHours: 24, Discount: 0.10},
}

// MaxDiscount is the volume discount for jobs beyond the last tier.
const MaxDiscount = 0.13

// SelectDiscount maps total hours to a labour discount fraction.
func SelectDiscount(hours float64) float64 {
	for _, tier := range DiscountTiers {
		if hours <= tier.MaxHours {
			return tier.Discount
		}
	}
	return MaxDiscount
}

// Daily hire rates, excluding GST.
const (
	DehumidifierDailyRate = 132.00
	AirMoverDailyRate     = 46.00
	RCDBoxDailyRate       = 5.00
)

// MaxHireDays caps HireDays so day counts never overflow.
const MaxHireDays = math.MaxInt32

// HireDays is the number of hire days needed to cover a job. Partial days are
// charged as full days. Zero, negative and NaN hours need no hire.
func HireDays(hours float64) int {
	days := math.Ceil(hours / 24)
	switch {
	case math.IsNaN(days) || days <= 0:
		return 0
	case days >= MaxHireDays:
		return MaxHireDays
	}
	return int(days)
}

// CalculateEquipment prices drying equipment hire. All classes share one day
// count. Nothing is charged unless drying equipment is enabled.
func CalculateEquipment(input InspectionCostInput, hours float64) EquipmentDetails {
	if !input.DryingEquipmentEnabled {
		return EquipmentDetails{}
	}
	days := HireDays(hours)
	return EquipmentDetails{
		Dehumidifiers: equipmentLine(input.DehumidifierQty, days, DehumidifierDailyRate),
		AirMovers:     equipmentLine(input.AirMoverQty, days, AirMoverDailyRate),
		RCDBox:        equipmentLine(input.RCDBoxQty, days, RCDBoxDailyRate),
	}
}

func equipmentLine(qty, days int, dailyRate float64) EquipmentLine {
	if qty <= 0 {
		return EquipmentLine{}
	}
	return EquipmentLine{
		Qty:  qty,
		Days: days,
		Cost: dailyRate * float64(qty) * float64(days),
	}
}
