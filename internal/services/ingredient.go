package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/feastly/feastly-backend/internal/logger"
	"github.com/feastly/feastly-backend/internal/repos"
	"github.com/feastly/feastly-backend/internal/types"
)

type IngredientService interface {
	List(ctx context.Context, namePrefix string) ([]*types.Ingredient, error)
	Get(ctx context.Context, ingredientID uint) (*types.Ingredient, error)
}

type ingredientService struct {
	db             *gorm.DB
	log            *logger.Logger
	ingredientRepo repos.IngredientRepo
}

func NewIngredientService(db *gorm.DB, log *logger.Logger, ingredientRepo repos.IngredientRepo) IngredientService {
	return &ingredientService{
		db:             db,
		log:            log.With("service", "IngredientService"),
		ingredientRepo: ingredientRepo,
	}
}

func (is *ingredientService) List(ctx context.Context, namePrefix string) ([]*types.Ingredient, error) {
	ingredients, err := is.ingredientRepo.List(ctx, nil, namePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

func (is *ingredientService) Get(ctx context.Context, ingredientID uint) (*types.Ingredient, error) {
	ingredient, err := is.ingredientRepo.GetByID(ctx, nil, ingredientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredient: %w", err)
	}
	if ingredient == nil {
		return nil, notFoundError("ingredient")
	}
	return ingredient, nil
}
