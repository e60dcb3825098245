package dto

import "github.com/shopspring/decimal"

type RecordInspectionRequest struct {
	AllotmentID  string          `json:"allotment_id"  validate:"required,uuid"`
	RollNumber   int             `json:"roll_number"   validate:"required,min=1"`
	WeightKg     decimal.Decimal `json:"weight_kg"     validate:"required,gt=0"`
	AreaSqm      decimal.Decimal `json:"area_sqm"      validate:"required,gt=0"`
	DefectPoints int             `json:"defect_points" validate:"min=0"`
	Remarks      *string         `json:"remarks"       validate:"omitempty,max=500"`
}

type InspectionResponse struct {
	ID           string          `json:"id"`
	AllotmentID  string          `json:"allotment_id"`
	RollNumber   int             `json:"roll_number"`
	InspectorID  string          `json:"inspector_id"`
	WeightKg     decimal.Decimal `json:"weight_kg"`
	AreaSqm      decimal.Decimal `json:"area_sqm"`
	DefectPoints int             `json:"defect_points"`
	PointsPer100 decimal.Decimal `json:"points_per_100"`
	Grade        string          `json:"grade"`
	Status       string          `json:"status"`
	Remarks      *string         `json:"remarks"`
	InspectedAt  string          `json:"inspected_at"`
}

type InspectionSummary struct {
	AllotmentID    string          `json:"allotment_id"`
	ExpectedRolls  int             `json:"expected_rolls"`
	RollsInspected int             `json:"rolls_inspected"`
	Passed         int             `json:"passed"`
	Rejected       int             `json:"rejected"`
	TotalWeightKg  decimal.Decimal `json:"total_weight_kg"`
	Complete       bool            `json:"complete"`
}
