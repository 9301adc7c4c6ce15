// Package estimate computes labour, equipment and GST costs for a mould
// remediation inspection.
package estimate

import "math"

// GSTRate is the goods and services tax applied to the pre-tax subtotal.
const GSTRate = 0.10

// InspectionArea is one room or zone assessed during an inspection.
type InspectionArea struct {
	AreaName           string   `json:"areaName" yaml:"areaName"`
	JobTime            float64  `json:"jobTime" yaml:"jobTime"`
	DemolitionRequired bool     `json:"demolitionRequired" yaml:"demolitionRequired"`
	DemolitionTime     *float64 `json:"demolitionTime,omitempty" yaml:"demolitionTime,omitempty"`
}

// demolitionMinutes returns the demolition time that counts towards totals.
func (a InspectionArea) demolitionMinutes() float64 {
	if !a.DemolitionRequired || a.DemolitionTime == nil {
		return 0
	}
	return *a.DemolitionTime
}

// InspectionCostInput is the full description of an inspection to be priced.
type InspectionCostInput struct {
	Areas                  []InspectionArea `json:"areas" yaml:"areas"`
	DwellingType           *string          `json:"dwellingType,omitempty" yaml:"dwellingType,omitempty"`
	SubfloorEnabled        bool             `json:"subfloorEnabled" yaml:"subfloorEnabled"`
	DryingEquipmentEnabled bool             `json:"dryingEquipmentEnabled" yaml:"dryingEquipmentEnabled"`
	DehumidifierQty        int              `json:"dehumidifierQty" yaml:"dehumidifierQty"`
	AirMoverQty            int              `json:"airMoverQty" yaml:"airMoverQty"`
	RCDBoxQty              int              `json:"rcdBoxQty" yaml:"rcdBoxQty"`
}

// AreaDetail records how each area contributed to the billable time.
type AreaDetail struct {
	AreaName       string  `json:"areaName"`
	JobTime        float64 `json:"jobTime"`
	DemolitionTime float64 `json:"demolitionTime"`
	TotalMinutes   float64 `json:"totalMinutes"`
}

// EquipmentLine is the hire cost of a single equipment class.
type EquipmentLine struct {
	Qty  int     `json:"qty"`
	Days int     `json:"days"`
	Cost float64 `json:"cost"`
}

// EquipmentDetails groups the three equipment classes.
type EquipmentDetails struct {
	Dehumidifiers EquipmentLine `json:"dehumidifiers"`
	AirMovers     EquipmentLine `json:"airMovers"`
	RCDBox        EquipmentLine `json:"rcdBox"`
}

// Total returns the unrounded sum of the three class costs.
func (d EquipmentDetails) Total() float64 {
	return d.Dehumidifiers.Cost + d.AirMovers.Cost + d.RCDBox.Cost
}

// CostBreakdown is the result of pricing one inspection.
type CostBreakdown struct {
	WorkType         WorkType         `json:"workType"`
	TotalHours       float64          `json:"totalHours"`
	DiscountPercent  float64          `json:"discountPercent"`
	LabourCost       float64          `json:"labourCost"`
	EquipmentCost    float64          `json:"equipmentCost"`
	Subtotal         float64          `json:"subtotal"`
	GST              float64          `json:"gst"`
	TotalCost        float64          `json:"totalCost"`
	AreaDetails      []AreaDetail     `json:"areaDetails"`
	EquipmentDetails EquipmentDetails `json:"equipmentDetails"`
}

// AggregateAreas sums job and demolition minutes across all areas and returns
// the total in hours alongside a per-area audit trail.
func AggregateAreas(areas []InspectionArea) (float64, []AreaDetail) {
	details := make([]AreaDetail, 0, len(areas))
	var totalMinutes float64
	for _, area := range areas {
		demolition := area.demolitionMinutes()
		minutes := area.JobTime + demolition
		totalMinutes += minutes
		details = append(details, AreaDetail{
			AreaName:       area.AreaName,
			JobTime:        area.JobTime,
			DemolitionTime: demolition,
			TotalMinutes:   minutes,
		})
	}
	return totalMinutes / 60.0, details
}

// ClassifyWorkType picks the pricing tier for an input. Conditions are checked
// in priority order and the first match wins.
func ClassifyWorkType(input InspectionCostInput) WorkType {
	if input.SubfloorEnabled {
		return WorkTypeSubfloor
	}
	for _, area := range input.Areas {
		if area.DemolitionRequired && area.DemolitionTime != nil && *area.DemolitionTime > 0 {
			return WorkTypeDemolition
		}
	}
	if input.DwellingType != nil && *input.DwellingType == string(WorkTypeConstruction) {
		return WorkTypeConstruction
	}
	return WorkTypeSurface
}

// Calculate prices an inspection. It performs no validation and always returns
// a breakdown; see Validate for rejecting out-of-range input.
func Calculate(input InspectionCostInput) CostBreakdown {
	totalHours, areaDetails := AggregateAreas(input.Areas)
	workType := ClassifyWorkType(input)
	rate := InterpolateRate(workType, totalHours)
	discount := SelectDiscount(totalHours)
	equipment := CalculateEquipment(input, totalHours)

	// Currency figures are rounded one at a time and later figures are derived
	// from the rounded values, so subtotal is the sum of two rounded amounts.
	labourCost := Round2(rate * totalHours * (1 - discount))
	equipmentCost := Round2(equipment.Total())
	subtotal := Round2(labourCost + equipmentCost)
	gst := Round2(subtotal * GSTRate)
	totalCost := Round2(subtotal + gst)

	return CostBreakdown{
		WorkType:         workType,
		TotalHours:       Round2(totalHours),
		DiscountPercent:  discount,
		LabourCost:       labourCost,
		EquipmentCost:    equipmentCost,
		Subtotal:         subtotal,
		GST:              gst,
		TotalCost:        totalCost,
		AreaDetails:      areaDetails,
		EquipmentDetails: equipment,
	}
}

// Round2 rounds to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
