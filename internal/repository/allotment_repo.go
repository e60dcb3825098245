package repository

import (
	"context"

	"avyyan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AllotmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, a *model.ProductionAllotment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductionAllotment, error)
	ListBySalesOrder(ctx context.Context, salesOrderID uuid.UUID) ([]model.ProductionAllotment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	SetSheetPath(ctx context.Context, id uuid.UUID, path string) error
	NextSequence(ctx context.Context, tx *gorm.DB, period string) (int, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type allotmentRepo struct{ db *gorm.DB }

func NewAllotmentRepository(db *gorm.DB) AllotmentRepository { return &allotmentRepo{db: db} }

func (r *allotmentRepo) DB() *gorm.DB { return r.db }

func (r *allotmentRepo) Create(ctx context.Context, tx *gorm.DB, a *model.ProductionAllotment) error {
	return conn(r.db, tx).WithContext(ctx).Create(a).Error
}

func (r *allotmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductionAllotment, error) {
	var a model.ProductionAllotment
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *allotmentRepo) ListBySalesOrder(ctx context.Context, salesOrderID uuid.UUID) ([]model.ProductionAllotment, error) {
	var list []model.ProductionAllotment
	err := r.db.WithContext(ctx).Where("sales_order_id = ?", salesOrderID).Order("created_at").Find(&list).Error
	return list, err
}

func (r *allotmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.ProductionAllotment{}).Where("id = ?", id).Update("status", status).Error
}

func (r *allotmentRepo) SetSheetPath(ctx context.Context, id uuid.UUID, path string) error {
	return r.db.WithContext(ctx).Model(&model.ProductionAllotment{}).Where("id = ?", id).Update("sheet_path", path).Error
}

// NextSequence atomically increments the counter for period (yymm).
func (r *allotmentRepo) NextSequence(ctx context.Context, tx *gorm.DB, period string) (int, error) {
	var next int
	err := conn(r.db, tx).WithContext(ctx).Raw(`
		INSERT INTO allotment_sequences (period, last_value) VALUES (?, 1)
		ON CONFLICT (period) DO UPDATE SET last_value = allotment_sequences.last_value + 1
		RETURNING last_value`, period).Scan(&next).Error
	return next, err
}
