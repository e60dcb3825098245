package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is a direct message between two users.
type ChatMessage struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SenderID    uuid.UUID `gorm:"type:uuid;index;not null"`
	RecipientID uuid.UUID `gorm:"type:uuid;index;not null"`
	Body        string    `gorm:"type:text;not null"`
	ReadAt      *time.Time
	CreatedAt   time.Time
}
