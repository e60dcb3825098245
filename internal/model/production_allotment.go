package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Allotment states.
const (
	AllotmentPlanned = "planned"
	AllotmentRunning = "running"
	AllotmentDone    = "done"
)

// ProductionAllotment assigns part of a sales-order item to a knitting machine.
// Counter and the roll breakdown are computed server-side on creation.
type ProductionAllotment struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AllotID          string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	SalesOrderID     uuid.UUID `gorm:"type:uuid;index;not null"`
	SalesOrderItemID uuid.UUID `gorm:"type:uuid;index;not null"`
	MachineName      string    `gorm:"not null"`
	Needle           int       `gorm:"not null"`
	Feeder           int       `gorm:"not null"`
	Diameter         int
	Gauge            int
	Count            decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	StitchLength     decimal.Decimal `gorm:"type:decimal(6,3);not null"`
	RollPerKg        decimal.Decimal `gorm:"type:decimal(8,3);not null"`
	ActualQuantity   decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Counter          string          `gorm:"type:varchar(24);not null"`
	TotalWholeRolls  int             `gorm:"not null"`
	FractionalRoll   decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	FractionalWeight decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0"`
	Status           string          `gorm:"type:varchar(20);not null;default:'planned'"`
	SheetPath        *string
	CreatedBy        uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AllotmentSequence hands out per-month allotment numbers.
type AllotmentSequence struct {
	Period    string `gorm:"type:varchar(4);primaryKey"` // yymm
	LastValue int    `gorm:"not null"`
}
