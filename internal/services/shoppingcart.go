package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/feastly/feastly-backend/internal/logger"
	"github.com/feastly/feastly-backend/internal/repos"
)

const shoppingListHeader = "Список покупок:"
const shoppingListEmpty = "Корзина пуста!"

type ShoppingCartService interface {
	Add(ctx context.Context, userID, recipeID uint) (*RecipeShortView, error)
	Remove(ctx context.Context, userID, recipeID uint) error
	RenderShoppingList(ctx context.Context, userID uint) (string, error)
}

type shoppingCartService struct {
	db         *gorm.DB
	log        *logger.Logger
	recipeRepo repos.RecipeRepo
	cartRepo   repos.ShoppingCartRepo
	riRepo     repos.RecipeIngredientRepo
}

func NewShoppingCartService(
	db *gorm.DB,
	log *logger.Logger,
	recipeRepo repos.RecipeRepo,
	cartRepo repos.ShoppingCartRepo,
	riRepo repos.RecipeIngredientRepo,
) ShoppingCartService {
	return &shoppingCartService{
		db:         db,
		log:        log.With("service", "ShoppingCartService"),
		recipeRepo: recipeRepo,
		cartRepo:   cartRepo,
		riRepo:     riRepo,
	}
}

func (ss *shoppingCartService) Add(ctx context.Context, userID, recipeID uint) (*RecipeShortView, error) {
	recipe, err := ss.recipeRepo.GetByID(ctx, nil, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if recipe == nil {
		return nil, notFoundError("recipe")
	}
	exists, err := ss.cartRepo.Exists(ctx, nil, userID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check shopping cart: %w", err)
	}
	if exists {
		return nil, conflictError("recipe is already in the shopping cart")
	}
	if err := ss.cartRepo.Create(ctx, nil, userID, recipeID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictError("recipe is already in the shopping cart")
		}
		return nil, fmt.Errorf("failed to add to shopping cart: %w", err)
	}
	view := mapRecipeShortView(recipe)
	return &view, nil
}

func (ss *shoppingCartService) Remove(ctx context.Context, userID, recipeID uint) error {
	recipe, err := ss.recipeRepo.GetByID(ctx, nil, recipeID)
	if err != nil {
		return fmt.Errorf("failed to load recipe: %w", err)
	}
	if recipe == nil {
		return notFoundError("recipe")
	}
	deleted, err := ss.cartRepo.Delete(ctx, nil, userID, recipeID)
	if err != nil {
		return fmt.Errorf("failed to delete shopping cart entry: %w", err)
	}
	if !deleted {
		return conflictError("recipe was not in the shopping cart")
	}
	return nil
}

// RenderShoppingList aggregates the user's cart into the plain-text
// attachment body. An empty cart renders an explicit line instead of
// an empty list.
func (ss *shoppingCartService) RenderShoppingList(ctx context.Context, userID uint) (string, error) {
	items, err := ss.riRepo.AggregateCart(ctx, nil, userID)
	if err != nil {
		return "", fmt.Errorf("failed to aggregate shopping cart: %w", err)
	}
	lines := []string{shoppingListHeader, strings.Repeat("=", 40)}
	if len(items) == 0 {
		lines = append(lines, shoppingListEmpty)
	} else {
		for _, item := range items {
			lines = append(lines, fmt.Sprintf("• %s: %d %s", item.Name, item.Total, item.MeasurementUnit))
		}
	}
	return strings.Join(lines, "\n"), nil
}
