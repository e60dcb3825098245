package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Inspection outcomes.
const (
	InspectionPassed   = "passed"
	InspectionRejected = "rejected"
)

// Inspection records the grading of one knitted roll.
type Inspection struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AllotmentID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inspection_roll"`
	RollNumber   int             `gorm:"not null;uniqueIndex:idx_inspection_roll"`
	InspectorID  uuid.UUID       `gorm:"type:uuid;not null"`
	WeightKg     decimal.Decimal `gorm:"type:decimal(8,3);not null"`
	AreaSqm      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DefectPoints int             `gorm:"not null;default:0"`
	PointsPer100 decimal.Decimal `gorm:"type:decimal(8,2);not null"`
	Grade        string          `gorm:"type:varchar(2);not null"`
	Status       string          `gorm:"type:varchar(20);not null"`
	Remarks      *string
	InspectedAt  time.Time `gorm:"not null"`
	CreatedAt    time.Time
}
