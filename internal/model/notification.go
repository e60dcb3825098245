package model

import (
	"time"

	"github.com/google/uuid"
)

// Email delivery states of a notification.
const (
	EmailNone    = "none"
	EmailPending = "pending"
	EmailSent    = "sent"
	EmailFailed  = "failed"
)

// Notification kinds.
const (
	KindInfo       = "info"
	KindAllotment  = "allotment"
	KindInspection = "inspection"
	KindChat       = "chat"
)

// Notification is an in-app message, optionally mirrored by email.
type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Title       string    `gorm:"not null"`
	Message     string    `gorm:"type:text;not null"`
	Kind        string    `gorm:"type:varchar(20);not null;default:'info'"`
	ReadAt      *time.Time
	EmailStatus string `gorm:"type:varchar(20);not null;default:'none'"`
	// Retry fields used by the retry cron to re-attempt failed emails
	RetryCount  int `gorm:"not null;default:0"`
	NextRetryAt *time.Time
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
