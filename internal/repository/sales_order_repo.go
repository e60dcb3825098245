package repository

import (
	"context"

	"avyyan/internal/dto"
	"avyyan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SalesOrderRepository interface {
	Create(ctx context.Context, o *model.SalesOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error)
	FindByVoucher(ctx context.Context, voucher string) (*model.SalesOrder, error)
	FindItemByID(ctx context.Context, id uuid.UUID) (*model.SalesOrderItem, error)
	List(ctx context.Context, filter dto.SalesOrderFilter) ([]model.SalesOrder, int64, error)
	UpdateHeader(ctx context.Context, o *model.SalesOrder) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error
	AddItem(ctx context.Context, item *model.SalesOrderItem) error
}

type salesOrderRepo struct{ db *gorm.DB }

func NewSalesOrderRepository(db *gorm.DB) SalesOrderRepository { return &salesOrderRepo{db: db} }

// Create inserts the order together with its items.
func (r *salesOrderRepo) Create(ctx context.Context, o *model.SalesOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *salesOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error) {
	var o model.SalesOrder
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *salesOrderRepo) FindByVoucher(ctx context.Context, voucher string) (*model.SalesOrder, error) {
	var o model.SalesOrder
	if err := r.db.WithContext(ctx).Where("voucher_number = ?", voucher).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *salesOrderRepo) FindItemByID(ctx context.Context, id uuid.UUID) (*model.SalesOrderItem, error) {
	var it model.SalesOrderItem
	if err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *salesOrderRepo) List(ctx context.Context, filter dto.SalesOrderFilter) ([]model.SalesOrder, int64, error) {
	var orders []model.SalesOrder
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.SalesOrder{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Party != "" {
		q = q.Where("party_name ILIKE ?", "%"+filter.Party+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").
		Order("order_date DESC, created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&orders).Error

	return orders, total, err
}

func (r *salesOrderRepo) UpdateHeader(ctx context.Context, o *model.SalesOrder) error {
	return r.db.WithContext(ctx).Omit("Items").Save(o).Error
}

func (r *salesOrderRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	return conn(r.db, tx).WithContext(ctx).Model(&model.SalesOrder{}).Where("id = ?", id).Update("status", status).Error
}

func (r *salesOrderRepo) AddItem(ctx context.Context, item *model.SalesOrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}
