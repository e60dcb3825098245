package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"avyyan/internal/dto"
	"avyyan/internal/model"
	"avyyan/internal/repository"
	"avyyan/internal/textile"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// orderTransitions lists the statuses reachable from each status.
var orderTransitions = map[string][]string{
	model.OrderDraft:        {model.OrderConfirmed, model.OrderCancelled},
	model.OrderConfirmed:    {model.OrderInProduction, model.OrderCancelled},
	model.OrderInProduction: {model.OrderCompleted},
}

// CanTransitionOrder reports whether a sales order may move from one status to another.
func CanTransitionOrder(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type SalesOrderService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateSalesOrderRequest) (*dto.SalesOrderResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SalesOrderResponse, error)
	List(ctx context.Context, filter dto.SalesOrderFilter) (*dto.SalesOrderListResponse, error)
	UpdateHeader(ctx context.Context, id uuid.UUID, req dto.UpdateSalesOrderRequest) (*dto.SalesOrderResponse, error)
	AddItem(ctx context.Context, id uuid.UUID, req dto.SalesOrderItemRequest) (*dto.SalesOrderResponse, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*dto.SalesOrderResponse, error)
}

type salesOrderService struct {
	repo repository.SalesOrderRepository
}

func NewSalesOrderService(repo repository.SalesOrderRepository) SalesOrderService {
	return &salesOrderService{repo: repo}
}

func (s *salesOrderService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateSalesOrderRequest) (*dto.SalesOrderResponse, error) {
	voucher := strings.TrimSpace(req.VoucherNumber)
	if _, err := s.repo.FindByVoucher(ctx, voucher); err == nil {
		return nil, fmt.Errorf("voucher %q already exists: %w", voucher, ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	orderDate, err := time.Parse(dateLayout, req.OrderDate)
	if err != nil {
		return nil, fmt.Errorf("order_date: %w", ErrInvalidInput)
	}
	delivery, err := parseOptionalDate(req.DeliveryDate)
	if err != nil {
		return nil, err
	}
	if delivery != nil && delivery.Before(orderDate) {
		return nil, fmt.Errorf("delivery_date precedes order_date: %w", ErrInvalidInput)
	}

	order := &model.SalesOrder{
		VoucherNumber: voucher,
		PartyName:     strings.TrimSpace(req.PartyName),
		OrderDate:     orderDate,
		DeliveryDate:  delivery,
		Status:        model.OrderDraft,
		Remarks:       req.Remarks,
		CreatedBy:     userID,
	}
	for _, it := range req.Items {
		order.Items = append(order.Items, buildItem(it))
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, writeErr(err, "voucher")
	}
	return salesOrderToResponse(order), nil
}

func (s *salesOrderService) Get(ctx context.Context, id uuid.UUID) (*dto.SalesOrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "sales order")
	}
	return salesOrderToResponse(order), nil
}

func (s *salesOrderService) List(ctx context.Context, filter dto.SalesOrderFilter) (*dto.SalesOrderListResponse, error) {
	filter.Page, filter.Limit = pageOrDefault(filter.Page, filter.Limit, 50)
	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SalesOrderResponse, len(orders))
	for i := range orders {
		data[i] = *salesOrderToResponse(&orders[i])
	}
	return &dto.SalesOrderListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *salesOrderService) UpdateHeader(ctx context.Context, id uuid.UUID, req dto.UpdateSalesOrderRequest) (*dto.SalesOrderResponse, error) {
	order, err := s.editable(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.PartyName != nil {
		order.PartyName = strings.TrimSpace(*req.PartyName)
	}
	if req.DeliveryDate != nil {
		delivery, err := parseOptionalDate(req.DeliveryDate)
		if err != nil {
			return nil, err
		}
		if delivery.Before(order.OrderDate) {
			return nil, fmt.Errorf("delivery_date precedes order_date: %w", ErrInvalidInput)
		}
		order.DeliveryDate = delivery
	}
	if req.Remarks != nil {
		order.Remarks = req.Remarks
	}
	if err := s.repo.UpdateHeader(ctx, order); err != nil {
		return nil, err
	}
	return salesOrderToResponse(order), nil
}

func (s *salesOrderService) AddItem(ctx context.Context, id uuid.UUID, req dto.SalesOrderItemRequest) (*dto.SalesOrderResponse, error) {
	order, err := s.editable(ctx, id)
	if err != nil {
		return nil, err
	}
	item := buildItem(req)
	item.SalesOrderID = order.ID
	if err := s.repo.AddItem(ctx, &item); err != nil {
		return nil, err
	}
	order.Items = append(order.Items, item)
	return salesOrderToResponse(order), nil
}

func (s *salesOrderService) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*dto.SalesOrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "sales order")
	}
	if !CanTransitionOrder(order.Status, status) {
		return nil, fmt.Errorf("cannot move sales order from %s to %s: %w", order.Status, status, ErrInvalidState)
	}
	if status == model.OrderConfirmed && len(order.Items) == 0 {
		return nil, fmt.Errorf("sales order has no items: %w", ErrInvalidState)
	}
	if err := s.repo.UpdateStatus(ctx, nil, id, status); err != nil {
		return nil, err
	}
	order.Status = status
	return salesOrderToResponse(order), nil
}

// editable loads an order whose header and items may still change.
func (s *salesOrderService) editable(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "sales order")
	}
	if order.Status != model.OrderDraft && order.Status != model.OrderConfirmed {
		return nil, fmt.Errorf("sales order is %s: %w", order.Status, ErrInvalidState)
	}
	return order, nil
}

// buildItem maps a request line to a model, filling knitting parameters the
// user left empty from the free-text description.
func buildItem(req dto.SalesOrderItemRequest) model.SalesOrderItem {
	item := model.SalesOrderItem{
		ItemName:      strings.TrimSpace(req.ItemName),
		Description:   req.Description,
		QuantityKg:    req.QuantityKg,
		Rate:          req.Rate,
		Unit:          req.Unit,
		StitchLength:  req.StitchLength,
		Count:         req.Count,
		WeightPerRoll: req.WeightPerRoll,
		FabricType:    strings.TrimSpace(req.FabricType),
	}
	if item.Unit == "" {
		item.Unit = "kg"
	}
	fillFromDescription(&item)
	return item
}

func fillFromDescription(item *model.SalesOrderItem) {
	if strings.TrimSpace(item.Description) == "" {
		return
	}
	parsed := textile.ParseDescription(item.Description)
	if item.StitchLength.IsZero() && parsed.StitchLength > 0 {
		item.StitchLength = decimal.NewFromFloat(parsed.StitchLength)
	}
	if item.Count.IsZero() && parsed.Count > 0 {
		item.Count = decimal.NewFromFloat(parsed.Count)
	}
	if item.WeightPerRoll.IsZero() && parsed.WeightPerRoll > 0 {
		item.WeightPerRoll = decimal.NewFromFloat(parsed.WeightPerRoll)
	}
	if item.FabricType == "" {
		item.FabricType = parsed.FabricType
	}
	if item.QuantityKg.IsZero() {
		if q := textile.ExtractActualQuantity(item.Description); q > 0 {
			item.QuantityKg = decimal.NewFromFloat(q)
		}
	}
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", *s, ErrInvalidInput)
	}
	return &t, nil
}

func salesOrderToResponse(o *model.SalesOrder) *dto.SalesOrderResponse {
	items := make([]dto.SalesOrderItemResponse, len(o.Items))
	totalKg := decimal.Zero
	totalAmount := decimal.Zero
	for i, it := range o.Items {
		amount := it.QuantityKg.Mul(it.Rate).Round(2)
		totalKg = totalKg.Add(it.QuantityKg)
		totalAmount = totalAmount.Add(amount)
		items[i] = dto.SalesOrderItemResponse{
			ID:            it.ID.String(),
			ItemName:      it.ItemName,
			Description:   it.Description,
			QuantityKg:    it.QuantityKg,
			Rate:          it.Rate,
			Unit:          it.Unit,
			Amount:        amount,
			StitchLength:  it.StitchLength,
			Count:         it.Count,
			WeightPerRoll: it.WeightPerRoll,
			FabricType:    it.FabricType,
		}
	}
	var delivery *string
	if o.DeliveryDate != nil {
		d := o.DeliveryDate.Format(dateLayout)
		delivery = &d
	}
	return &dto.SalesOrderResponse{
		ID:            o.ID.String(),
		VoucherNumber: o.VoucherNumber,
		PartyName:     o.PartyName,
		OrderDate:     o.OrderDate.Format(dateLayout),
		DeliveryDate:  delivery,
		Status:        o.Status,
		Remarks:       o.Remarks,
		Items:         items,
		TotalKg:       totalKg,
		TotalAmount:   totalAmount,
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
	}
}
