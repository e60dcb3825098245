package dto

import "github.com/shopspring/decimal"

// CreateAllotmentRequest allots an order item to a machine. Count and
// StitchLength default to the item's values when zero.
type CreateAllotmentRequest struct {
	SalesOrderItemID string          `json:"sales_order_item_id" validate:"required,uuid"`
	MachineName      string          `json:"machine_name"        validate:"required,min=1,max=60"`
	Needle           int             `json:"needle"              validate:"required,min=1"`
	Feeder           int             `json:"feeder"              validate:"required,min=1"`
	Diameter         int             `json:"diameter"            validate:"min=0"`
	Gauge            int             `json:"gauge"               validate:"min=0"`
	Count            decimal.Decimal `json:"count"               validate:"min=0"`
	StitchLength     decimal.Decimal `json:"stitch_length"       validate:"min=0"`
	RollPerKg        decimal.Decimal `json:"roll_per_kg"         validate:"required,gt=0"`
	ActualQuantity   decimal.Decimal `json:"actual_quantity"     validate:"required,gt=0"`
}

type ChangeAllotmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=planned running done"`
}

type AllotmentResponse struct {
	ID               string          `json:"id"`
	AllotID          string          `json:"allot_id"`
	SalesOrderID     string          `json:"sales_order_id"`
	SalesOrderItemID string          `json:"sales_order_item_id"`
	MachineName      string          `json:"machine_name"`
	Needle           int             `json:"needle"`
	Feeder           int             `json:"feeder"`
	Diameter         int             `json:"diameter"`
	Gauge            int             `json:"gauge"`
	Count            decimal.Decimal `json:"count"`
	StitchLength     decimal.Decimal `json:"stitch_length"`
	RollPerKg        decimal.Decimal `json:"roll_per_kg"`
	ActualQuantity   decimal.Decimal `json:"actual_quantity"`
	Counter          string          `json:"counter"`
	TotalWholeRolls  int             `json:"total_whole_rolls"`
	FractionalRoll   decimal.Decimal `json:"fractional_roll"`
	FractionalWeight decimal.Decimal `json:"fractional_weight"`
	Status           string          `json:"status"`
	SheetReady       bool            `json:"sheet_ready"`
	CreatedAt        string          `json:"created_at"`
}
