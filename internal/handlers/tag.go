package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feastly/feastly-backend/internal/services"
)

type TagHandler struct {
	tagService services.TagService
}

func NewTagHandler(tagService services.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.tagService.List(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, tags)
}

func (h *TagHandler) Get(c *gin.Context) {
	tagID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_id", errInvalidID)
		return
	}
	tag, err := h.tagService.Get(c.Request.Context(), tagID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, tag)
}
