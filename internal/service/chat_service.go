package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"avyyan/internal/dto"
	"avyyan/internal/model"
	"avyyan/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const chatPreviewLen = 80

type ChatService interface {
	Send(ctx context.Context, senderID uuid.UUID, req dto.SendMessageRequest) (*dto.ChatMessageResponse, error)
	Conversation(ctx context.Context, userID, peerID uuid.UUID, filter dto.ConversationFilter) ([]dto.ChatMessageResponse, error)
	Conversations(ctx context.Context, userID uuid.UUID) ([]dto.ConversationSummary, error)
	MarkRead(ctx context.Context, userID, peerID uuid.UUID) (int64, error)
}

type chatService struct {
	repo          repository.ChatRepository
	users         repository.UserRepository
	notifications NotificationService
	now           func() time.Time
}

func NewChatService(repo repository.ChatRepository, users repository.UserRepository, notifications NotificationService) ChatService {
	return &chatService{repo: repo, users: users, notifications: notifications, now: time.Now}
}

func (s *chatService) Send(ctx context.Context, senderID uuid.UUID, req dto.SendMessageRequest) (*dto.ChatMessageResponse, error) {
	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("recipient_id: %w", ErrInvalidInput)
	}
	if recipientID == senderID {
		return nil, fmt.Errorf("cannot message yourself: %w", ErrInvalidInput)
	}
	recipient, err := s.users.FindByID(ctx, recipientID)
	if err != nil {
		return nil, lookupErr(err, "recipient")
	}
	if !recipient.Active {
		return nil, fmt.Errorf("recipient is inactive: %w", ErrInvalidState)
	}
	sender, err := s.users.FindByID(ctx, senderID)
	if err != nil {
		return nil, lookupErr(err, "sender")
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, fmt.Errorf("empty message: %w", ErrInvalidInput)
	}
	msg := &model.ChatMessage{SenderID: senderID, RecipientID: recipientID, Body: body}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	if _, err := s.notifications.Notify(ctx, NotifyInput{
		UserID:  recipientID,
		Title:   "New message from " + sender.FullName,
		Message: preview(body),
		Kind:    model.KindChat,
	}); err != nil {
		log.Warn().Err(err).Str("message_id", msg.ID.String()).Msg("chat: notify recipient failed")
	}

	resp := chatToResponse(msg)
	return &resp, nil
}

func (s *chatService) Conversation(ctx context.Context, userID, peerID uuid.UUID, filter dto.ConversationFilter) ([]dto.ChatMessageResponse, error) {
	page, limit := pageOrDefault(filter.Page, filter.Limit, 50)
	list, err := s.repo.Conversation(ctx, userID, peerID, page, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ChatMessageResponse, len(list))
	for i := range list {
		resp[i] = chatToResponse(&list[i])
	}
	return resp, nil
}

// Conversations lists one summary per peer, most recent conversation first.
func (s *chatService) Conversations(ctx context.Context, userID uuid.UUID) ([]dto.ConversationSummary, error) {
	latest, err := s.repo.LatestPerPeer(ctx, userID)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.UnreadByPeer(ctx, userID)
	if err != nil {
		return nil, err
	}
	unreadBy := make(map[uuid.UUID]int64, len(unread))
	for _, u := range unread {
		unreadBy[u.PeerID] = u.Unread
	}

	peerIDs := make([]uuid.UUID, len(latest))
	for i, m := range latest {
		peerIDs[i] = peerOf(m, userID)
	}
	names := make(map[uuid.UUID]string, len(peerIDs))
	if len(peerIDs) > 0 {
		peers, err := s.users.FindByIDs(ctx, peerIDs)
		if err != nil {
			return nil, err
		}
		for _, p := range peers {
			names[p.ID] = p.FullName
		}
	}

	sort.SliceStable(latest, func(i, j int) bool { return latest[i].CreatedAt.After(latest[j].CreatedAt) })
	out := make([]dto.ConversationSummary, len(latest))
	for i := range latest {
		peer := peerOf(latest[i], userID)
		out[i] = dto.ConversationSummary{
			PeerID:      peer.String(),
			PeerName:    names[peer],
			LastMessage: chatToResponse(&latest[i]),
			Unread:      unreadBy[peer],
		}
	}
	return out, nil
}

func (s *chatService) MarkRead(ctx context.Context, userID, peerID uuid.UUID) (int64, error) {
	return s.repo.MarkConversationRead(ctx, userID, peerID, s.now())
}

func peerOf(m model.ChatMessage, userID uuid.UUID) uuid.UUID {
	if m.SenderID == userID {
		return m.RecipientID
	}
	return m.SenderID
}

func preview(body string) string {
	r := []rune(body)
	if len(r) <= chatPreviewLen {
		return body
	}
	return string(r[:chatPreviewLen]) + "…"
}

func chatToResponse(m *model.ChatMessage) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		ID:          m.ID.String(),
		SenderID:    m.SenderID.String(),
		RecipientID: m.RecipientID.String(),
		Body:        m.Body,
		ReadAt:      formatTimePtr(m.ReadAt),
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
}
