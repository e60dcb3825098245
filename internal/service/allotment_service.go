package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"avyyan/internal/dto"
	"avyyan/internal/model"
	"avyyan/internal/repository"
	"avyyan/internal/textile"
	"avyyan/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var allotmentTransitions = map[string]string{
	model.AllotmentPlanned: model.AllotmentRunning,
	model.AllotmentRunning: model.AllotmentDone,
}

type AllotmentService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateAllotmentRequest) (*dto.AllotmentResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.AllotmentResponse, error)
	ListBySalesOrder(ctx context.Context, salesOrderID uuid.UUID) ([]dto.AllotmentResponse, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*dto.AllotmentResponse, error)
	SheetPath(ctx context.Context, id uuid.UUID) (string, error)
}

type allotmentService struct {
	repo          repository.AllotmentRepository
	orders        repository.SalesOrderRepository
	notifications NotificationService
	dispatcher    JobDispatcher
	now           func() time.Time
}

func NewAllotmentService(
	repo repository.AllotmentRepository,
	orders repository.SalesOrderRepository,
	notifications NotificationService,
	dispatcher JobDispatcher,
) AllotmentService {
	return &allotmentService{
		repo:          repo,
		orders:        orders,
		notifications: notifications,
		dispatcher:    dispatcher,
		now:           time.Now,
	}
}

// ── Create ──────────────────────────────────────────────────────────────────
//   1. Resolve the order item; the order must be confirmed or in production
//   2. Default count / stitch length from the item
//   3. Compute counter and roll plan
//   4. BEGIN TX: next AL number, insert, move a confirmed order to in_production
//   5. (async) queue the PDF sheet, notify the order owner

func (s *allotmentService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateAllotmentRequest) (*dto.AllotmentResponse, error) {
	itemID, err := uuid.Parse(req.SalesOrderItemID)
	if err != nil {
		return nil, fmt.Errorf("sales_order_item_id: %w", ErrInvalidInput)
	}
	item, err := s.orders.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, lookupErr(err, "sales order item")
	}
	order, err := s.orders.FindByID(ctx, item.SalesOrderID)
	if err != nil {
		return nil, lookupErr(err, "sales order")
	}
	if order.Status != model.OrderConfirmed && order.Status != model.OrderInProduction {
		return nil, fmt.Errorf("sales order %s is %s: %w", order.VoucherNumber, order.Status, ErrInvalidState)
	}

	count := req.Count
	if count.IsZero() {
		count = item.Count
	}
	stitchLength := req.StitchLength
	if stitchLength.IsZero() {
		stitchLength = item.StitchLength
	}
	if count.IsZero() || stitchLength.IsZero() {
		return nil, fmt.Errorf("count and stitch_length are required when the item has none: %w", ErrInvalidInput)
	}

	rollPerKg := req.RollPerKg.InexactFloat64()
	counter := textile.Counter(textile.CounterInput{
		Count:        count.InexactFloat64(),
		RollPerKg:    rollPerKg,
		Needle:       float64(req.Needle),
		Feeder:       float64(req.Feeder),
		StitchLength: stitchLength.InexactFloat64(),
	})
	rolls := textile.DecomposeRolls(req.ActualQuantity.InexactFloat64(), rollPerKg)

	a := &model.ProductionAllotment{
		SalesOrderID:     order.ID,
		SalesOrderItemID: item.ID,
		MachineName:      strings.TrimSpace(req.MachineName),
		Needle:           req.Needle,
		Feeder:           req.Feeder,
		Diameter:         req.Diameter,
		Gauge:            req.Gauge,
		Count:            count,
		StitchLength:     stitchLength,
		RollPerKg:        req.RollPerKg,
		ActualQuantity:   req.ActualQuantity,
		Counter:          counter,
		TotalWholeRolls:  rolls.WholeRolls(),
		FractionalRoll:   decimal.NewFromFloat(rolls.FractionalRoll).Round(4),
		FractionalWeight: decimal.NewFromFloat(rolls.FractionalWeight).Round(3),
		Status:           model.AllotmentPlanned,
		CreatedBy:        userID,
	}

	period := s.now().Format("0601")
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		seq, err := s.repo.NextSequence(ctx, tx, period)
		if err != nil {
			return err
		}
		a.AllotID = fmt.Sprintf("AL%s%04d", period, seq)
		if err := s.repo.Create(ctx, tx, a); err != nil {
			return writeErr(err, "allotment")
		}
		if order.Status == model.OrderConfirmed {
			return s.orders.UpdateStatus(ctx, tx, order.ID, model.OrderInProduction)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueAllotmentSheet(ctx, worker.AllotmentSheetPayload{AllotmentID: a.ID}); err != nil {
			log.Error().Err(err).Str("allot_id", a.AllotID).Msg("allotments: failed to queue sheet")
		}
	}
	if s.notifications != nil && order.CreatedBy != userID {
		if _, err := s.notifications.Notify(ctx, NotifyInput{
			UserID:  order.CreatedBy,
			Title:   fmt.Sprintf("Allotment %s created", a.AllotID),
			Message: fmt.Sprintf("%s on %s: %s kg, %d rolls, counter %s", item.ItemName, a.MachineName, a.ActualQuantity.String(), a.TotalWholeRolls, a.Counter),
			Kind:    model.KindAllotment,
		}); err != nil {
			log.Warn().Err(err).Str("allot_id", a.AllotID).Msg("allotments: notify order owner failed")
		}
	}

	return allotmentToResponse(a), nil
}

func (s *allotmentService) Get(ctx context.Context, id uuid.UUID) (*dto.AllotmentResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "allotment")
	}
	return allotmentToResponse(a), nil
}

func (s *allotmentService) ListBySalesOrder(ctx context.Context, salesOrderID uuid.UUID) ([]dto.AllotmentResponse, error) {
	list, err := s.repo.ListBySalesOrder(ctx, salesOrderID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AllotmentResponse, len(list))
	for i := range list {
		resp[i] = *allotmentToResponse(&list[i])
	}
	return resp, nil
}

func (s *allotmentService) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*dto.AllotmentResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "allotment")
	}
	if allotmentTransitions[a.Status] != status {
		return nil, fmt.Errorf("cannot move allotment from %s to %s: %w", a.Status, status, ErrInvalidState)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	a.Status = status
	return allotmentToResponse(a), nil
}

// SheetPath returns the generated PDF of an allotment.
func (s *allotmentService) SheetPath(ctx context.Context, id uuid.UUID) (string, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", lookupErr(err, "allotment")
	}
	if a.SheetPath == nil || *a.SheetPath == "" {
		return "", fmt.Errorf("sheet for %s is not generated yet: %w", a.AllotID, ErrNotFound)
	}
	return *a.SheetPath, nil
}

func allotmentToResponse(a *model.ProductionAllotment) *dto.AllotmentResponse {
	return &dto.AllotmentResponse{
		ID:               a.ID.String(),
		AllotID:          a.AllotID,
		SalesOrderID:     a.SalesOrderID.String(),
		SalesOrderItemID: a.SalesOrderItemID.String(),
		MachineName:      a.MachineName,
		Needle:           a.Needle,
		Feeder:           a.Feeder,
		Diameter:         a.Diameter,
		Gauge:            a.Gauge,
		Count:            a.Count,
		StitchLength:     a.StitchLength,
		RollPerKg:        a.RollPerKg,
		ActualQuantity:   a.ActualQuantity,
		Counter:          a.Counter,
		TotalWholeRolls:  a.TotalWholeRolls,
		FractionalRoll:   a.FractionalRoll,
		FractionalWeight: a.FractionalWeight,
		Status:           a.Status,
		SheetReady:       a.SheetPath != nil && *a.SheetPath != "",
		CreatedAt:        a.CreatedAt.Format(time.RFC3339),
	}
}
