package chat

import (
	"github.com/gin-gonic/gin"

	"github.com/detailops/booking-api/internal/service/chat"
	"github.com/detailops/booking-api/pkg/errors"
	"github.com/detailops/booking-api/pkg/httputil"
)

type Handler struct {
	service *chat.Service
}

func NewHandler(service *chat.Service) *Handler {
	return &Handler{service: service}
}

type createSessionRequest struct {
	BusinessID string `json:"business_id" binding:"required"`
}

type sessionResponse struct {
	SessionID  string `json:"session_id"`
	BusinessID string `json:"business_id"`
}

func (h *Handler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation("business_id is required", err))
		return
	}

	sess := h.service.CreateSession(req.BusinessID)
	httputil.RespondWithCreated(c, sessionResponse{
		SessionID:  sess.ID,
		BusinessID: sess.BusinessID,
	})
}

type postMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *Handler) PostMessage(c *gin.Context) {
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation("message is required", err))
		return
	}

	result, err := h.service.ProcessTurn(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) GetContext(c *gin.Context) {
	bc, err := h.service.Context(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, bc)
}

func (h *Handler) GetTranscript(c *gin.Context) {
	sess, err := h.service.GetSession(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, sess.Transcript())
}

func (h *Handler) ResetContext(c *gin.Context) {
	sess, err := h.service.GetSession(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	sess.ResetContext()
	httputil.RespondWithSuccess(c, nil)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/chat/sessions")
	{
		sessions.POST("", h.CreateSession)
		sessions.POST("/:id/messages", h.PostMessage)
		sessions.GET("/:id/context", h.GetContext)
		sessions.GET("/:id/transcript", h.GetTranscript)
		sessions.DELETE("/:id/context", h.ResetContext)
	}
}
