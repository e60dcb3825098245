package handler

import (
	"net/http"

	"avyyan/internal/dto"
	"avyyan/internal/service"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct{ svc service.ChatService }

func NewChatHandler(svc service.ChatService) *ChatHandler { return &ChatHandler{svc: svc} }

// Send godoc
// @Summary      Send a direct message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SendMessageRequest true "Message"
// @Success      201  {object} dto.ChatMessageResponse
// @Failure      404  {object} apierror.APIError "Unknown recipient"
// @Router       /v1/chat/messages [post]
func (h *ChatHandler) Send(c *gin.Context) {
	var req dto.SendMessageRequest
	if !bindAndValidate(c, &req) {
		return
	}
	senderID, ok := currentUser(c)
	if !ok {
		return
	}
	resp, err := h.svc.Send(c.Request.Context(), senderID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Conversations lists one summary per peer, most recent first.
func (h *ChatHandler) Conversations(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	resp, err := h.svc.Conversations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Conversation godoc
// @Summary      Messages exchanged with a peer, oldest first
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        peer_id path  string true  "Peer user ID"
// @Param        page    query int    false "Page (default 1)"
// @Param        limit   query int    false "Page size (default 50)"
// @Success      200     {array} dto.ChatMessageResponse
// @Router       /v1/chat/conversations/{peer_id} [get]
func (h *ChatHandler) Conversation(c *gin.Context) {
	peerID, ok := paramID(c, "peer_id")
	if !ok {
		return
	}
	var filter dto.ConversationFilter
	if !bindQuery(c, &filter) {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	resp, err := h.svc.Conversation(c.Request.Context(), userID, peerID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	peerID, ok := paramID(c, "peer_id")
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	n, err := h.svc.MarkRead(c.Request.Context(), userID, peerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}
