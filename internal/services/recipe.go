package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/feastly/feastly-backend/internal/logger"
	"github.com/feastly/feastly-backend/internal/repos"
	"github.com/feastly/feastly-backend/internal/types"
)

// IngredientAmount is one (ingredient id, amount) pair of a recipe
// write request.
type IngredientAmount struct {
	ID     uint `json:"id" binding:"required"`
	Amount int  `json:"amount" binding:"required,min=1"`
}

type CreateRecipeInput struct {
	Ingredients []IngredientAmount `json:"ingredients" binding:"required,dive"`
	Tags        []uint             `json:"tags"`
	Image       string             `json:"image" binding:"required"`
	Name        string             `json:"name" binding:"required"`
	Text        string             `json:"text" binding:"required"`
	CookingTime int                `json:"cooking_time" binding:"required,min=1"`
}

// UpdateRecipeInput distinguishes absent fields from empty ones:
// a nil Ingredients slice leaves the ingredient set untouched, a nil
// Tags pointer leaves tags untouched while an empty list clears them.
type UpdateRecipeInput struct {
	Ingredients []IngredientAmount `json:"ingredients"`
	Tags        *[]uint            `json:"tags"`
	Image       *string            `json:"image"`
	Name        *string            `json:"name"`
	Text        *string            `json:"text"`
	CookingTime *int               `json:"cooking_time"`
}

// RecipeListFilter is the query surface of the recipe listing. The
// membership filters only take effect for an authenticated viewer and
// are no-ops otherwise.
type RecipeListFilter struct {
	TagSlugs         []string
	AuthorID         uint
	IsFavorited      *bool
	IsInShoppingCart *bool
}

type RecipeService interface {
	List(ctx context.Context, viewerID uint, filter RecipeListFilter, offset, limit int) ([]RecipeView, int64, error)
	Get(ctx context.Context, viewerID, recipeID uint) (*RecipeView, error)
	Create(ctx context.Context, authorID uint, input CreateRecipeInput) (*RecipeView, error)
	Update(ctx context.Context, actorID, recipeID uint, input UpdateRecipeInput) (*RecipeView, error)
	Delete(ctx context.Context, actorID, recipeID uint) error
	GetLink(ctx context.Context, recipeID uint) (string, error)
}

type recipeService struct {
	db               *gorm.DB
	log              *logger.Logger
	recipeRepo       repos.RecipeRepo
	ingredientRepo   repos.IngredientRepo
	tagRepo          repos.TagRepo
	riRepo           repos.RecipeIngredientRepo
	favoriteRepo     repos.FavoriteRepo
	shoppingCartRepo repos.ShoppingCartRepo
	subscriptionRepo repos.SubscriptionRepo
	mediaService     MediaService
	baseURL          string
}

func NewRecipeService(
	db *gorm.DB,
	log *logger.Logger,
	recipeRepo repos.RecipeRepo,
	ingredientRepo repos.IngredientRepo,
	tagRepo repos.TagRepo,
	riRepo repos.RecipeIngredientRepo,
	favoriteRepo repos.FavoriteRepo,
	shoppingCartRepo repos.ShoppingCartRepo,
	subscriptionRepo repos.SubscriptionRepo,
	mediaService MediaService,
	baseURL string,
) RecipeService {
	return &recipeService{
		db:               db,
		log:              log.With("service", "RecipeService"),
		recipeRepo:       recipeRepo,
		ingredientRepo:   ingredientRepo,
		tagRepo:          tagRepo,
		riRepo:           riRepo,
		favoriteRepo:     favoriteRepo,
		shoppingCartRepo: shoppingCartRepo,
		subscriptionRepo: subscriptionRepo,
		mediaService:     mediaService,
		baseURL:          baseURL,
	}
}

func (rs *recipeService) List(ctx context.Context, viewerID uint, filter RecipeListFilter, offset, limit int) ([]RecipeView, int64, error) {
	repoFilter := repos.RecipeFilter{
		TagSlugs: filter.TagSlugs,
		AuthorID: filter.AuthorID,
	}
	if viewerID != 0 {
		repoFilter.FavoritedBy = viewerID
		repoFilter.Favorited = filter.IsFavorited
		repoFilter.InCartOf = viewerID
		repoFilter.InCart = filter.IsInShoppingCart
	}
	recipes, total, err := rs.recipeRepo.List(ctx, nil, repoFilter, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	views, err := rs.buildViews(ctx, viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (rs *recipeService) Get(ctx context.Context, viewerID, recipeID uint) (*RecipeView, error) {
	recipe, err := rs.recipeRepo.GetByIDLoaded(ctx, nil, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if recipe == nil {
		return nil, notFoundError("recipe")
	}
	views, err := rs.buildViews(ctx, viewerID, []*types.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// buildViews derives the viewer-dependent flags for a whole page of
// recipes with three membership queries, then maps each row to its
// read view. For an absent viewer every flag is false and no query
// runs.
func (rs *recipeService) buildViews(ctx context.Context, viewerID uint, recipes []*types.Recipe) ([]RecipeView, error) {
	views := make([]RecipeView, 0, len(recipes))
	if len(recipes) == 0 {
		return views, nil
	}

	favoriteSet := map[uint]struct{}{}
	cartSet := map[uint]struct{}{}
	subscribedSet := map[uint]struct{}{}
	if viewerID != 0 {
		recipeIDs := make([]uint, 0, len(recipes))
		authorIDs := make([]uint, 0, len(recipes))
		for _, r := range recipes {
			recipeIDs = append(recipeIDs, r.ID)
			authorIDs = append(authorIDs, r.AuthorID)
		}
		favIDs, err := rs.favoriteRepo.FilterRecipeIDs(ctx, nil, viewerID, recipeIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to derive favorite flags: %w", err)
		}
		cartIDs, err := rs.shoppingCartRepo.FilterRecipeIDs(ctx, nil, viewerID, recipeIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to derive shopping cart flags: %w", err)
		}
		subIDs, err := rs.subscriptionRepo.FilterAuthorIDs(ctx, nil, viewerID, authorIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to derive subscription flags: %w", err)
		}
		favoriteSet = idSet(favIDs)
		cartSet = idSet(cartIDs)
		subscribedSet = idSet(subIDs)
	}

	for _, r := range recipes {
		_, favorited := favoriteSet[r.ID]
		_, inCart := cartSet[r.ID]
		_, subscribed := subscribedSet[r.AuthorID]
		views = append(views, mapRecipeView(r, subscribed, favorited, inCart))
	}
	return views, nil
}

func (rs *recipeService) Create(ctx context.Context, authorID uint, input CreateRecipeInput) (*RecipeView, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if err := rs.validateIngredients(ctx, input.Ingredients); err != nil {
		return nil, err
	}
	tags, err := rs.validateTags(ctx, input.Tags)
	if err != nil {
		return nil, err
	}
	imagePath, err := rs.mediaService.SaveDataURI(input.Image, "recipes")
	if err != nil {
		return nil, err
	}

	recipe := &types.Recipe{
		AuthorID:    authorID,
		Name:        input.Name,
		Image:       imagePath,
		Text:        input.Text,
		CookingTime: input.CookingTime,
	}
	if err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, cErr := rs.recipeRepo.Create(ctx, tx, recipe); cErr != nil {
			return fmt.Errorf("failed to create recipe: %w", cErr)
		}
		if len(tags) > 0 {
			if tErr := rs.recipeRepo.ReplaceTags(ctx, tx, recipe, tags); tErr != nil {
				return fmt.Errorf("failed to set recipe tags: %w", tErr)
			}
		}
		return rs.insertIngredients(ctx, tx, recipe.ID, input.Ingredients)
	}); err != nil {
		if dErr := rs.mediaService.Delete(imagePath); dErr != nil {
			rs.log.Warn("Failed to remove image of rolled back recipe", "error", dErr, "path", imagePath)
		}
		return nil, err
	}
	return rs.Get(ctx, authorID, recipe.ID)
}

func (rs *recipeService) Update(ctx context.Context, actorID, recipeID uint, input UpdateRecipeInput) (*RecipeView, error) {
	recipe, err := rs.recipeRepo.GetByID(ctx, nil, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if recipe == nil {
		return nil, notFoundError("recipe")
	}
	if recipe.AuthorID != actorID {
		return nil, fmt.Errorf("%w: only the author may modify a recipe", ErrForbidden)
	}

	if input.CookingTime != nil && *input.CookingTime < 1 {
		return nil, validationError("cooking time must be at least 1")
	}
	if input.Ingredients != nil {
		if err := rs.validateIngredients(ctx, input.Ingredients); err != nil {
			return nil, err
		}
	}
	var tags []*types.Tag
	if input.Tags != nil {
		tags, err = rs.validateTags(ctx, *input.Tags)
		if err != nil {
			return nil, err
		}
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Text != nil {
		fields["text"] = *input.Text
	}
	if input.CookingTime != nil {
		fields["cooking_time"] = *input.CookingTime
	}
	oldImage := ""
	if input.Image != nil {
		imagePath, iErr := rs.mediaService.SaveDataURI(*input.Image, "recipes")
		if iErr != nil {
			return nil, iErr
		}
		fields["image"] = imagePath
		oldImage = recipe.Image
	}

	if err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if uErr := rs.recipeRepo.UpdateFields(ctx, tx, recipeID, fields); uErr != nil {
			return fmt.Errorf("failed to update recipe: %w", uErr)
		}
		if input.Tags != nil {
			if tErr := rs.recipeRepo.ReplaceTags(ctx, tx, recipe, tags); tErr != nil {
				return fmt.Errorf("failed to replace recipe tags: %w", tErr)
			}
		}
		if input.Ingredients != nil {
			if dErr := rs.riRepo.DeleteByRecipeID(ctx, tx, recipeID); dErr != nil {
				return fmt.Errorf("failed to clear recipe ingredients: %w", dErr)
			}
			return rs.insertIngredients(ctx, tx, recipeID, input.Ingredients)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if oldImage != "" {
		if dErr := rs.mediaService.Delete(oldImage); dErr != nil {
			rs.log.Warn("Failed to remove replaced recipe image", "error", dErr, "path", oldImage)
		}
	}
	return rs.Get(ctx, actorID, recipeID)
}

func (rs *recipeService) Delete(ctx context.Context, actorID, recipeID uint) error {
	recipe, err := rs.recipeRepo.GetByID(ctx, nil, recipeID)
	if err != nil {
		return fmt.Errorf("failed to load recipe: %w", err)
	}
	if recipe == nil {
		return notFoundError("recipe")
	}
	if recipe.AuthorID != actorID {
		return fmt.Errorf("%w: only the author may delete a recipe", ErrForbidden)
	}
	if err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if dErr := rs.riRepo.DeleteByRecipeID(ctx, tx, recipeID); dErr != nil {
			return fmt.Errorf("failed to delete recipe ingredients: %w", dErr)
		}
		return rs.recipeRepo.Delete(ctx, tx, recipeID)
	}); err != nil {
		return err
	}
	if recipe.Image != "" {
		if dErr := rs.mediaService.Delete(recipe.Image); dErr != nil {
			rs.log.Warn("Failed to remove deleted recipe image", "error", dErr, "path", recipe.Image)
		}
	}
	return nil
}

func (rs *recipeService) GetLink(ctx context.Context, recipeID uint) (string, error) {
	recipe, err := rs.recipeRepo.GetByID(ctx, nil, recipeID)
	if err != nil {
		return "", fmt.Errorf("failed to load recipe: %w", err)
	}
	if recipe == nil {
		return "", notFoundError("recipe")
	}
	return fmt.Sprintf("%s/api/recipes/%d", rs.baseURL, recipe.ID), nil
}

// validateIngredients rejects empty lists, duplicate ingredient ids and
// references to ingredients that do not exist, all before any mutation.
func (rs *recipeService) validateIngredients(ctx context.Context, items []IngredientAmount) error {
	if len(items) == 0 {
		return validationError("at least one ingredient is required")
	}
	seen := make(map[uint]struct{}, len(items))
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if item.Amount < 1 {
			return validationError("ingredient amount must be at least 1")
		}
		if _, dup := seen[item.ID]; dup {
			return validationError("ingredients must not repeat")
		}
		seen[item.ID] = struct{}{}
		ids = append(ids, item.ID)
	}
	count, err := rs.ingredientRepo.CountByIDs(ctx, nil, ids)
	if err != nil {
		return fmt.Errorf("failed to check ingredient ids: %w", err)
	}
	if count != int64(len(ids)) {
		return validationError("unknown ingredient id")
	}
	return nil
}

func (rs *recipeService) validateTags(ctx context.Context, tagIDs []uint) ([]*types.Tag, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}
	seen := make(map[uint]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		if _, dup := seen[id]; dup {
			return nil, validationError("tags must not repeat")
		}
		seen[id] = struct{}{}
	}
	tags, err := rs.tagRepo.GetByIDs(ctx, nil, tagIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	if len(tags) != len(tagIDs) {
		return nil, validationError("unknown tag id")
	}
	return tags, nil
}

func (rs *recipeService) insertIngredients(ctx context.Context, tx *gorm.DB, recipeID uint, items []IngredientAmount) error {
	rows := make([]*types.RecipeIngredient, 0, len(items))
	for _, item := range items {
		rows = append(rows, &types.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	if err := rs.riRepo.BulkCreate(ctx, tx, rows); err != nil {
		return fmt.Errorf("failed to insert recipe ingredients: %w", err)
	}
	return nil
}
