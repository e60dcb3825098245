package dto

type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required,uuid"`
	Body        string `json:"body"         validate:"required,min=1,max=4000"`
}

// ConversationFilter is bound from the query string of GET /v1/chat/:peer_id.
type ConversationFilter struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=200"`
}

type ChatMessageResponse struct {
	ID          string  `json:"id"`
	SenderID    string  `json:"sender_id"`
	RecipientID string  `json:"recipient_id"`
	Body        string  `json:"body"`
	ReadAt      *string `json:"read_at"`
	CreatedAt   string  `json:"created_at"`
}

type ConversationSummary struct {
	PeerID      string              `json:"peer_id"`
	PeerName    string              `json:"peer_name"`
	LastMessage ChatMessageResponse `json:"last_message"`
	Unread      int64               `json:"unread"`
}
