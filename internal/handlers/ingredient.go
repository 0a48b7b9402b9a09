package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feastly/feastly-backend/internal/services"
)

type IngredientHandler struct {
	ingredientService services.IngredientService
}

func NewIngredientHandler(ingredientService services.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService}
}

func (h *IngredientHandler) List(c *gin.Context) {
	ingredients, err := h.ingredientService.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, ingredients)
}

func (h *IngredientHandler) Get(c *gin.Context) {
	ingredientID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_id", errInvalidID)
		return
	}
	ingredient, err := h.ingredientService.Get(c.Request.Context(), ingredientID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, ingredient)
}
