package service

import (
	"context"
	"fmt"
	"time"

	"avyyan/internal/dto"
	"avyyan/internal/model"
	"avyyan/internal/repository"
	"avyyan/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NotifyInput describes one notification to create.
type NotifyInput struct {
	UserID  uuid.UUID
	Title   string
	Message string
	Kind    string
	// Email mirrors the notification to the user's email address, if any.
	Email bool
}

type NotificationService interface {
	Notify(ctx context.Context, in NotifyInput) (*model.Notification, error)
	List(ctx context.Context, userID uuid.UUID, filter dto.NotificationFilter) (*dto.NotificationListResponse, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo       repository.NotificationRepository
	users      repository.UserRepository
	dispatcher JobDispatcher
	now        func() time.Time
}

func NewNotificationService(repo repository.NotificationRepository, users repository.UserRepository, dispatcher JobDispatcher) NotificationService {
	return &notificationService{repo: repo, users: users, dispatcher: dispatcher, now: time.Now}
}

// Notify persists the notification and, when requested and the user has an
// email address, queues the email copy. A failed enqueue leaves the email
// pending with a retry time so the retry cron picks it up.
func (s *notificationService) Notify(ctx context.Context, in NotifyInput) (*model.Notification, error) {
	kind := in.Kind
	if kind == "" {
		kind = model.KindInfo
	}
	n := &model.Notification{
		UserID:      in.UserID,
		Title:       in.Title,
		Message:     in.Message,
		Kind:        kind,
		EmailStatus: model.EmailNone,
	}

	wantsEmail := false
	if in.Email {
		user, err := s.users.FindByID(ctx, in.UserID)
		if err != nil {
			return nil, lookupErr(err, "user")
		}
		wantsEmail = user.Email != nil && *user.Email != ""
	}
	if wantsEmail {
		n.EmailStatus = model.EmailPending
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	if wantsEmail && s.dispatcher != nil {
		if err := s.dispatcher.EnqueueNotificationEmail(ctx, worker.NotificationEmailPayload{NotificationID: n.ID}); err != nil {
			log.Warn().Err(err).Str("notification_id", n.ID.String()).Msg("notifications: enqueue email failed, deferring to retry cron")
			next := s.now()
			msg := err.Error()
			n.NextRetryAt = &next
			n.LastError = &msg
			if err := s.repo.Update(ctx, n); err != nil {
				log.Error().Err(err).Str("notification_id", n.ID.String()).Msg("notifications: schedule retry failed")
			}
		}
	}
	return n, nil
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, filter dto.NotificationFilter) (*dto.NotificationListResponse, error) {
	page, limit := pageOrDefault(filter.Page, filter.Limit, 30)
	list, err := s.repo.ListForUser(ctx, userID, filter.UnreadOnly, page, limit)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	data := make([]dto.NotificationResponse, len(list))
	for i := range list {
		data[i] = notificationToResponse(&list[i])
	}
	return &dto.NotificationListResponse{Data: data, Unread: unread, Page: page, Limit: limit}, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead is idempotent for notifications the user owns.
func (s *notificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return lookupErr(err, "notification")
	}
	if n.UserID != userID {
		return fmt.Errorf("notification %w", ErrNotFound)
	}
	if n.ReadAt != nil {
		return nil
	}
	_, err = s.repo.MarkRead(ctx, userID, id, s.now())
	return err
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID, s.now())
}

func notificationToResponse(n *model.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID.String(),
		Title:     n.Title,
		Message:   n.Message,
		Kind:      n.Kind,
		Read:      n.ReadAt != nil,
		ReadAt:    formatTimePtr(n.ReadAt),
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}

// pageOrDefault normalises pagination coming from callers that bypassed binding.
func pageOrDefault(page, limit, defLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defLimit
	}
	return page, limit
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
