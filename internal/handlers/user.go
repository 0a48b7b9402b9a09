package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feastly/feastly-backend/internal/pagination"
	"github.com/feastly/feastly-backend/internal/requestdata"
	"github.com/feastly/feastly-backend/internal/services"
)

type UserHandler struct {
	userService         services.UserService
	subscriptionService services.SubscriptionService
}

func NewUserHandler(userService services.UserService, subscriptionService services.SubscriptionService) *UserHandler {
	return &UserHandler{userService: userService, subscriptionService: subscriptionService}
}

func (h *UserHandler) List(c *gin.Context) {
	viewerID := requestdata.UserID(c.Request.Context())
	params := pagination.Parse(c.Query("page"), c.Query("limit"))
	views, total, err := h.userService.List(c.Request.Context(), viewerID, params.Offset(), params.Limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, pagination.Envelope{Count: total, Results: views})
}

func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_id", errInvalidID)
		return
	}
	viewerID := requestdata.UserID(c.Request.Context())
	view, err := h.userService.Get(c.Request.Context(), viewerID, userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, view)
}

func (h *UserHandler) GetMe(c *gin.Context) {
	viewerID := requestdata.UserID(c.Request.Context())
	view, err := h.userService.GetMe(c.Request.Context(), viewerID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, view)
}

type avatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	var req avatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	viewerID := requestdata.UserID(c.Request.Context())
	relPath, err := h.userService.SetAvatar(c.Request.Context(), viewerID, req.Avatar)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"avatar": relPath})
}

func (h *UserHandler) ClearAvatar(c *gin.Context) {
	viewerID := requestdata.UserID(c.Request.Context())
	if err := h.userService.ClearAvatar(c.Request.Context(), viewerID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondNoContent(c)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_id", errInvalidID)
		return
	}
	viewerID := requestdata.UserID(c.Request.Context())
	view, err := h.subscriptionService.Subscribe(c.Request.Context(), viewerID, authorID, parseRecipesLimit(c))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, view)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_id", errInvalidID)
		return
	}
	viewerID := requestdata.UserID(c.Request.Context())
	if err := h.subscriptionService.Unsubscribe(c.Request.Context(), viewerID, authorID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondNoContent(c)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	viewerID := requestdata.UserID(c.Request.Context())
	params := pagination.Parse(c.Query("page"), c.Query("limit"))
	views, total, err := h.subscriptionService.ListSubscriptions(
		c.Request.Context(), viewerID, params.Offset(), params.Limit, parseRecipesLimit(c))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, pagination.Envelope{Count: total, Results: views})
}
