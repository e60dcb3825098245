package repository

import (
	"context"
	"time"

	"avyyan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PeerUnread is the unread count of messages received from one peer.
type PeerUnread struct {
	PeerID uuid.UUID
	Unread int64
}

type ChatRepository interface {
	Create(ctx context.Context, m *model.ChatMessage) error
	Conversation(ctx context.Context, a, b uuid.UUID, page, limit int) ([]model.ChatMessage, error)
	// LatestPerPeer returns the newest message of each conversation userID takes part in.
	LatestPerPeer(ctx context.Context, userID uuid.UUID) ([]model.ChatMessage, error)
	UnreadByPeer(ctx context.Context, userID uuid.UUID) ([]PeerUnread, error)
	MarkConversationRead(ctx context.Context, recipientID, senderID uuid.UUID, at time.Time) (int64, error)
}

type chatRepo struct{ db *gorm.DB }

func NewChatRepository(db *gorm.DB) ChatRepository { return &chatRepo{db: db} }

func (r *chatRepo) Create(ctx context.Context, m *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// Conversation pages backwards from the newest message; each page is returned
// oldest first.
func (r *chatRepo) Conversation(ctx context.Context, a, b uuid.UUID, page, limit int) ([]model.ChatMessage, error) {
	var list []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return list, nil
}

func (r *chatRepo) LatestPerPeer(ctx context.Context, userID uuid.UUID) ([]model.ChatMessage, error) {
	var list []model.ChatMessage
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (peer) id, sender_id, recipient_id, body, read_at, created_at
		FROM (
			SELECT *, CASE WHEN sender_id = @user THEN recipient_id ELSE sender_id END AS peer
			FROM chat_messages
			WHERE sender_id = @user OR recipient_id = @user
		) m
		ORDER BY peer, created_at DESC`, map[string]any{"user": userID}).
		Scan(&list).Error
	return list, err
}

func (r *chatRepo) UnreadByPeer(ctx context.Context, userID uuid.UUID) ([]PeerUnread, error) {
	var rows []PeerUnread
	err := r.db.WithContext(ctx).Model(&model.ChatMessage{}).
		Select("sender_id AS peer_id, COUNT(*) AS unread").
		Where("recipient_id = ? AND read_at IS NULL", userID).
		Group("sender_id").
		Scan(&rows).Error
	return rows, err
}

func (r *chatRepo) MarkConversationRead(ctx context.Context, recipientID, senderID uuid.UUID, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.ChatMessage{}).
		Where("recipient_id = ? AND sender_id = ? AND read_at IS NULL", recipientID, senderID).
		Update("read_at", at)
	return res.RowsAffected, res.Error
}
