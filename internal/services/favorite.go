package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/feastly/feastly-backend/internal/logger"
	"github.com/feastly/feastly-backend/internal/repos"
)

type FavoriteService interface {
	Add(ctx context.Context, userID, recipeID uint) (*RecipeShortView, error)
	Remove(ctx context.Context, userID, recipeID uint) error
}

type favoriteService struct {
	db           *gorm.DB
	log          *logger.Logger
	recipeRepo   repos.RecipeRepo
	favoriteRepo repos.FavoriteRepo
}

func NewFavoriteService(db *gorm.DB, log *logger.Logger, recipeRepo repos.RecipeRepo, favoriteRepo repos.FavoriteRepo) FavoriteService {
	return &favoriteService{
		db:           db,
		log:          log.With("service", "FavoriteService"),
		recipeRepo:   recipeRepo,
		favoriteRepo: favoriteRepo,
	}
}

// Add creates the favorite edge if absent. A duplicate add surfaces a
// conflict, never a silent success; the unique index backstops races
// between concurrent adds.
func (fs *favoriteService) Add(ctx context.Context, userID, recipeID uint) (*RecipeShortView, error) {
	recipe, err := fs.recipeRepo.GetByID(ctx, nil, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if recipe == nil {
		return nil, notFoundError("recipe")
	}
	exists, err := fs.favoriteRepo.Exists(ctx, nil, userID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check favorite: %w", err)
	}
	if exists {
		return nil, conflictError("recipe is already favorited")
	}
	if err := fs.favoriteRepo.Create(ctx, nil, userID, recipeID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictError("recipe is already favorited")
		}
		return nil, fmt.Errorf("failed to create favorite: %w", err)
	}
	view := mapRecipeShortView(recipe)
	return &view, nil
}

// Remove deletes the favorite edge if present; removing an absent edge
// is a conflict.
func (fs *favoriteService) Remove(ctx context.Context, userID, recipeID uint) error {
	recipe, err := fs.recipeRepo.GetByID(ctx, nil, recipeID)
	if err != nil {
		return fmt.Errorf("failed to load recipe: %w", err)
	}
	if recipe == nil {
		return notFoundError("recipe")
	}
	deleted, err := fs.favoriteRepo.Delete(ctx, nil, userID, recipeID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	if !deleted {
		return conflictError("recipe was not favorited")
	}
	return nil
}
