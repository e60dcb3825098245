package dto

// NotificationFilter is bound from the query string of GET /v1/notifications.
type NotificationFilter struct {
	UnreadOnly bool `form:"unread"`
	Page       int  `form:"page,default=1"   validate:"min=1"`
	Limit      int  `form:"limit,default=30" validate:"min=1,max=100"`
}

type NotificationResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	Kind      string  `json:"kind"`
	Read      bool    `json:"read"`
	ReadAt    *string `json:"read_at"`
	CreatedAt string  `json:"created_at"`
}

type NotificationListResponse struct {
	Data   []NotificationResponse `json:"data"`
	Unread int64                  `json:"unread"`
	Page   int                    `json:"page"`
	Limit  int                    `json:"limit"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
