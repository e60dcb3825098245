package repository

import (
	"context"

	"avyyan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InspectionRepository interface {
	Create(ctx context.Context, i *model.Inspection) error
	FindByRoll(ctx context.Context, allotmentID uuid.UUID, rollNumber int) (*model.Inspection, error)
	ListByAllotment(ctx context.Context, allotmentID uuid.UUID) ([]model.Inspection, error)
}

type inspectionRepo struct{ db *gorm.DB }

func NewInspectionRepository(db *gorm.DB) InspectionRepository { return &inspectionRepo{db: db} }

func (r *inspectionRepo) Create(ctx context.Context, i *model.Inspection) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *inspectionRepo) FindByRoll(ctx context.Context, allotmentID uuid.UUID, rollNumber int) (*model.Inspection, error) {
	var i model.Inspection
	err := r.db.WithContext(ctx).
		Where("allotment_id = ? AND roll_number = ?", allotmentID, rollNumber).
		First(&i).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *inspectionRepo) ListByAllotment(ctx context.Context, allotmentID uuid.UUID) ([]model.Inspection, error) {
	var list []model.Inspection
	err := r.db.WithContext(ctx).Where("allotment_id = ?", allotmentID).Order("roll_number").Find(&list).Error
	return list, err
}
