package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"avyyan/internal/dto"
	"avyyan/internal/model"
	"avyyan/internal/repository"
	"avyyan/internal/textile"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InspectionService interface {
	Record(ctx context.Context, inspectorID uuid.UUID, req dto.RecordInspectionRequest) (*dto.InspectionResponse, error)
	ListByAllotment(ctx context.Context, allotmentID uuid.UUID) ([]dto.InspectionResponse, error)
	Summary(ctx context.Context, allotmentID uuid.UUID) (*dto.InspectionSummary, error)
}

type inspectionService struct {
	repo          repository.InspectionRepository
	allotments    repository.AllotmentRepository
	orders        repository.SalesOrderRepository
	notifications NotificationService
	now           func() time.Time
}

func NewInspectionService(
	repo repository.InspectionRepository,
	allotments repository.AllotmentRepository,
	orders repository.SalesOrderRepository,
	notifications NotificationService,
) InspectionService {
	return &inspectionService{
		repo:          repo,
		allotments:    allotments,
		orders:        orders,
		notifications: notifications,
		now:           time.Now,
	}
}

// expectedRolls is the number of rolls an allotment must have inspected
// before it counts as complete. A lone partial roll counts as one.
func expectedRolls(a *model.ProductionAllotment) int {
	if a.TotalWholeRolls > 0 {
		return a.TotalWholeRolls
	}
	if a.FractionalRoll.IsPositive() {
		return 1
	}
	return 0
}

// maxRollNumber allows one extra roll number for the partial roll.
func maxRollNumber(a *model.ProductionAllotment) int {
	if a.TotalWholeRolls > 0 && a.FractionalRoll.IsPositive() {
		return a.TotalWholeRolls + 1
	}
	return expectedRolls(a)
}

func (s *inspectionService) Record(ctx context.Context, inspectorID uuid.UUID, req dto.RecordInspectionRequest) (*dto.InspectionResponse, error) {
	allotmentID, err := uuid.Parse(req.AllotmentID)
	if err != nil {
		return nil, fmt.Errorf("allotment_id: %w", ErrInvalidInput)
	}
	a, err := s.allotments.FindByID(ctx, allotmentID)
	if err != nil {
		return nil, lookupErr(err, "allotment")
	}
	if a.Status == model.AllotmentDone {
		return nil, fmt.Errorf("allotment %s is already done: %w", a.AllotID, ErrInvalidState)
	}
	if limit := maxRollNumber(a); req.RollNumber > limit {
		return nil, fmt.Errorf("roll %d exceeds the %d roll(s) of %s: %w", req.RollNumber, limit, a.AllotID, ErrInvalidInput)
	}
	if _, err := s.repo.FindByRoll(ctx, a.ID, req.RollNumber); err == nil {
		return nil, fmt.Errorf("roll %d of %s already inspected: %w", req.RollNumber, a.AllotID, ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	points := textile.PointsPer100(req.DefectPoints, req.AreaSqm.InexactFloat64())
	grade := textile.Grade(points)
	status := model.InspectionRejected
	if textile.Acceptable(grade) {
		status = model.InspectionPassed
	}

	insp := &model.Inspection{
		AllotmentID:  a.ID,
		RollNumber:   req.RollNumber,
		InspectorID:  inspectorID,
		WeightKg:     req.WeightKg,
		AreaSqm:      req.AreaSqm,
		DefectPoints: req.DefectPoints,
		PointsPer100: decimal.NewFromFloat(points).Round(2),
		Grade:        grade,
		Status:       status,
		Remarks:      req.Remarks,
		InspectedAt:  s.now(),
	}
	if err := s.repo.Create(ctx, insp); err != nil {
		return nil, writeErr(err, "inspection")
	}

	if a.Status == model.AllotmentPlanned {
		if err := s.allotments.UpdateStatus(ctx, a.ID, model.AllotmentRunning); err != nil {
			return nil, err
		}
		a.Status = model.AllotmentRunning
	}
	if err := s.completeIfInspected(ctx, a); err != nil {
		log.Error().Err(err).Str("allot_id", a.AllotID).Msg("inspections: completion check failed")
	}

	resp := inspectionToResponse(insp)
	return &resp, nil
}

// completeIfInspected marks the allotment done once every expected roll has
// an inspection and tells the order owner.
func (s *inspectionService) completeIfInspected(ctx context.Context, a *model.ProductionAllotment) error {
	list, err := s.repo.ListByAllotment(ctx, a.ID)
	if err != nil {
		return err
	}
	sum := summarize(a, list)
	if !sum.Complete {
		return nil
	}
	if err := s.allotments.UpdateStatus(ctx, a.ID, model.AllotmentDone); err != nil {
		return err
	}
	a.Status = model.AllotmentDone
	log.Info().Str("allot_id", a.AllotID).Int("passed", sum.Passed).Int("rejected", sum.Rejected).Msg("inspections: allotment complete")

	if s.notifications == nil {
		return nil
	}
	order, err := s.orders.FindByID(ctx, a.SalesOrderID)
	if err != nil {
		return err
	}
	_, err = s.notifications.Notify(ctx, NotifyInput{
		UserID: order.CreatedBy,
		Title:  fmt.Sprintf("Allotment %s inspected", a.AllotID),
		Message: fmt.Sprintf("Order %s: %d roll(s) inspected, %d passed, %d rejected, %s kg.",
			order.VoucherNumber, sum.RollsInspected, sum.Passed, sum.Rejected, sum.TotalWeightKg.String()),
		Kind:  model.KindInspection,
		Email: true,
	})
	return err
}

func (s *inspectionService) ListByAllotment(ctx context.Context, allotmentID uuid.UUID) ([]dto.InspectionResponse, error) {
	list, err := s.repo.ListByAllotment(ctx, allotmentID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.InspectionResponse, len(list))
	for i := range list {
		resp[i] = inspectionToResponse(&list[i])
	}
	return resp, nil
}

func (s *inspectionService) Summary(ctx context.Context, allotmentID uuid.UUID) (*dto.InspectionSummary, error) {
	a, err := s.allotments.FindByID(ctx, allotmentID)
	if err != nil {
		return nil, lookupErr(err, "allotment")
	}
	list, err := s.repo.ListByAllotment(ctx, allotmentID)
	if err != nil {
		return nil, err
	}
	sum := summarize(a, list)
	return &sum, nil
}

func summarize(a *model.ProductionAllotment, list []model.Inspection) dto.InspectionSummary {
	expected := expectedRolls(a)
	sum := dto.InspectionSummary{
		AllotmentID:    a.ID.String(),
		ExpectedRolls:  expected,
		RollsInspected: len(list),
		TotalWeightKg:  decimal.Zero,
	}
	covered := 0
	for _, in := range list {
		if in.Status == model.InspectionPassed {
			sum.Passed++
		} else {
			sum.Rejected++
		}
		sum.TotalWeightKg = sum.TotalWeightKg.Add(in.WeightKg)
		if in.RollNumber <= expected {
			covered++
		}
	}
	sum.Complete = expected > 0 && covered >= expected
	return sum
}

func inspectionToResponse(i *model.Inspection) dto.InspectionResponse {
	return dto.InspectionResponse{
		ID:           i.ID.String(),
		AllotmentID:  i.AllotmentID.String(),
		RollNumber:   i.RollNumber,
		InspectorID:  i.InspectorID.String(),
		WeightKg:     i.WeightKg,
		AreaSqm:      i.AreaSqm,
		DefectPoints: i.DefectPoints,
		PointsPer100: i.PointsPer100,
		Grade:        i.Grade,
		Status:       i.Status,
		Remarks:      i.Remarks,
		InspectedAt:  i.InspectedAt.Format(time.RFC3339),
	}
}
