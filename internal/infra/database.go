package infra

import (
	"fmt"

	"avyyan/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx and brings the schema up
// to date.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table, then applies the patches
// AutoMigrate cannot express. Safe to run repeatedly.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.SalesOrder{},
		&model.SalesOrderItem{},
		&model.ProductionAllotment{},
		&model.AllotmentSequence{},
		&model.Inspection{},
		&model.Notification{},
		&model.ChatMessage{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL (partial and composite indexes).
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"partial index for the email retry cron", `
CREATE INDEX IF NOT EXISTS idx_notifications_pending_retry
    ON notifications (next_retry_at)
    WHERE email_status = 'pending' AND next_retry_at IS NOT NULL`},
		{"unread notifications per user", `
CREATE INDEX IF NOT EXISTS idx_notifications_unread
    ON notifications (user_id)
    WHERE read_at IS NULL`},
		{"chat conversation lookup", `
CREATE INDEX IF NOT EXISTS idx_chat_messages_pair
    ON chat_messages (sender_id, recipient_id, created_at DESC)`},
		{"sales order status check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_sales_orders_status') THEN
    ALTER TABLE sales_orders ADD CONSTRAINT chk_sales_orders_status
      CHECK (status IN ('draft', 'confirmed', 'in_production', 'completed', 'cancelled'));
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
