package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// SalesOrderFilter is bound from the query string of GET /v1/sales-orders.
type SalesOrderFilter struct {
	Status string `form:"status"` // empty = all
	Party  string `form:"party"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SalesOrderListResponse struct {
	Data  []SalesOrderResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SalesOrderItemRequest carries one fabric line. Knitting parameters left at
// zero are filled from Description.
type SalesOrderItemRequest struct {
	ItemName      string          `json:"item_name"       validate:"required,min=1,max=150"`
	Description   string          `json:"description"     validate:"max=2000"`
	QuantityKg    decimal.Decimal `json:"quantity_kg"     validate:"min=0"`
	Rate          decimal.Decimal `json:"rate"            validate:"min=0"`
	Unit          string          `json:"unit"            validate:"omitempty,oneof=kg mtr pcs"`
	StitchLength  decimal.Decimal `json:"stitch_length"   validate:"min=0"`
	Count         decimal.Decimal `json:"count"           validate:"min=0"`
	WeightPerRoll decimal.Decimal `json:"weight_per_roll" validate:"min=0"`
	FabricType    string          `json:"fabric_type"     validate:"max=60"`
}

type CreateSalesOrderRequest struct {
	VoucherNumber string                  `json:"voucher_number" validate:"required,min=1,max=40"`
	PartyName     string                  `json:"party_name"     validate:"required,min=1,max=150"`
	OrderDate     string                  `json:"order_date"     validate:"required,datetime=2006-01-02"`
	DeliveryDate  *string                 `json:"delivery_date"  validate:"omitempty,datetime=2006-01-02"`
	Remarks       *string                 `json:"remarks"        validate:"omitempty,max=1000"`
	Items         []SalesOrderItemRequest `json:"items"          validate:"required,min=1,dive"`
}

type UpdateSalesOrderRequest struct {
	PartyName    *string `json:"party_name"    validate:"omitempty,min=1,max=150"`
	DeliveryDate *string `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	Remarks      *string `json:"remarks"       validate:"omitempty,max=1000"`
}

type ChangeOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft confirmed in_production completed cancelled"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SalesOrderItemResponse struct {
	ID            string          `json:"id"`
	ItemName      string          `json:"item_name"`
	Description   string          `json:"description"`
	QuantityKg    decimal.Decimal `json:"quantity_kg"`
	Rate          decimal.Decimal `json:"rate"`
	Unit          string          `json:"unit"`
	Amount        decimal.Decimal `json:"amount"`
	StitchLength  decimal.Decimal `json:"stitch_length"`
	Count         decimal.Decimal `json:"count"`
	WeightPerRoll decimal.Decimal `json:"weight_per_roll"`
	FabricType    string          `json:"fabric_type"`
}

type SalesOrderResponse struct {
	ID            string                   `json:"id"`
	VoucherNumber string                   `json:"voucher_number"`
	PartyName     string                   `json:"party_name"`
	OrderDate     string                   `json:"order_date"`
	DeliveryDate  *string                  `json:"delivery_date"`
	Status        string                   `json:"status"`
	Remarks       *string                  `json:"remarks"`
	Items         []SalesOrderItemResponse `json:"items"`
	TotalKg       decimal.Decimal          `json:"total_kg"`
	TotalAmount   decimal.Decimal          `json:"total_amount"`
	CreatedAt     string                   `json:"created_at"`
}
