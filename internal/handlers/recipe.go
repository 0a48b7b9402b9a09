package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/feastly/feastly-backend/internal/pagination"
	"github.com/feastly/feastly-backend/internal/requestdata"
	"github.com/feastly/feastly-backend/internal/services"
)

type RecipeHandler struct {
	recipeService       services.RecipeService
	favoriteService     services.FavoriteService
	shoppingCartService services.ShoppingCartService
}

func NewRecipeHandler(
	recipeService services.RecipeService,
	favoriteService services.FavoriteService,
	shoppingCartService services.ShoppingCartService,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:       recipeService,
		favoriteService:     favoriteService,
		shoppingCartService: shoppingCartService,
	}
}

func (h *RecipeHandler) List(c *gin.Context) {
	viewerID := requestdata.UserID(c.Request.Context())
	params := pagination.Parse(c.Query("page"), c.Query("limit"))

	filter := services.RecipeListFilter{
		TagSlugs:         tagSlugsFromQuery(c),
		IsFavorited:      parseBoolQuery(c, "is_favorited"),
		IsInShoppingCart: parseBoolQuery(c, "is_in_shopping_cart"),
	}
	if raw := c.Query("author"); raw != "" {
		authorID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_author", errInvalidID)
			return
		}
		filter.AuthorID = uint(authorID)
	}

	views, total, err := h.recipeService.List(c.Request.Context(), viewerID, filter, params.Offset(), params.Limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, pagination.Envelope{Count: total, Results: views})
}

// tagSlugsFromQuery accepts both repeated tags parameters and a single
// comma-joined value.
func tagSlugsFromQuery(c *gin.Context) []string {
	var slugs []string
	for _, raw := range c.QueryArray("tags") {
		for _, slug := range strings.Split(raw, ",") {
			slug = strings.TrimSpace(slug)
			if slug != "" {
				slugs = append(slugs, slug)
			}
		}
	}
	return slugs
}

func (h *RecipeHandler) Get(c *gin.Context) {
	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_id", errInvalidID)
		return
	}
	viewerID := requestdata.UserID(c.Request.Context())
	view, err := h.recipeService.Get(c.Request.Context(), viewerID, recipeID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, view)
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var input services.CreateRecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	viewerID := requestdata.UserID(c.Request.Context())
	view, err := h.recipeService.Create(c.Request.Context(), viewerID, input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, view)
}

func (h *RecipeHandler) Update(c *gin.Context) {
	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_id", errInvalidID)
		return
	}
	var input services.UpdateRecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	viewerID := requestdata.UserID(c.Request.Context())
	view, err := h.recipeService.Update(c.Request.Context(), viewerID, recipeID, input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, view)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_id", errInvalidID)
		return
	}
	viewerID := requestdata.UserID(c.Request.Context())
	if err := h.recipeService.Delete(c.Request.Context(), viewerID, recipeID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondNoContent(c)
}

func (h *RecipeHandler) GetLink(c *gin.Context) {
	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_id", errInvalidID)
		return
	}
	link, err := h.recipeService.GetLink(c.Request.Context(), recipeID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"short-link": link})
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_id", errInvalidID)
		return
	}
	viewerID := requestdata.UserID(c.Request.Context())
	view, err := h.favoriteService.Add(c.Request.Context(), viewerID, recipeID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, view)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_id", errInvalidID)
		return
	}
	viewerID := requestdata.UserID(c.Request.Context())
	if err := h.favoriteService.Remove(c.Request.Context(), viewerID, recipeID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondNoContent(c)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_id", errInvalidID)
		return
	}
	viewerID := requestdata.UserID(c.Request.Context())
	view, err := h.shoppingCartService.Add(c.Request.Context(), viewerID, recipeID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, view)
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_id", errInvalidID)
		return
	}
	viewerID := requestdata.UserID(c.Request.Context())
	if err := h.shoppingCartService.Remove(c.Request.Context(), viewerID, recipeID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondNoContent(c)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	viewerID := requestdata.UserID(c.Request.Context())
	body, err := h.shoppingCartService.RenderShoppingList(c.Request.Context(), viewerID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="shopping_cart.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}
