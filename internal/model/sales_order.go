package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sales order states.
const (
	OrderDraft        = "draft"
	OrderConfirmed    = "confirmed"
	OrderInProduction = "in_production"
	OrderCompleted    = "completed"
	OrderCancelled    = "cancelled"
)

// SalesOrder is a customer order for knitted fabric.
type SalesOrder struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VoucherNumber string     `gorm:"type:varchar(40);uniqueIndex;not null"`
	PartyName     string     `gorm:"not null"`
	OrderDate     time.Time  `gorm:"type:date;not null"`
	DeliveryDate  *time.Time `gorm:"type:date"`
	Status        string     `gorm:"type:varchar(20);not null;default:'draft'"`
	Remarks       *string
	CreatedBy     uuid.UUID        `gorm:"type:uuid;not null"`
	Items         []SalesOrderItem `gorm:"foreignKey:SalesOrderID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SalesOrderItem is one fabric line of a sales order. The knitting
// parameters are either entered or read out of Description.
type SalesOrderItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalesOrderID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	ItemName      string          `gorm:"not null"`
	Description   string          `gorm:"type:text"`
	QuantityKg    decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Rate          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Unit          string          `gorm:"type:varchar(10);not null;default:'kg'"`
	StitchLength  decimal.Decimal `gorm:"type:decimal(6,3);not null;default:0"`
	Count         decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
	WeightPerRoll decimal.Decimal `gorm:"type:decimal(8,3);not null;default:0"`
	FabricType    string          `gorm:"type:varchar(60)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
