package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/feastly/feastly-backend/internal/logger"
	"github.com/feastly/feastly-backend/internal/types"
)

// CartItem is one aggregated row of a user's shopping list: the summed
// amount of a single ingredient across every recipe in the cart.
type CartItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Total           int64  `json:"total"`
}

type RecipeIngredientRepo interface {
	BulkCreate(ctx context.Context, tx *gorm.DB, rows []*types.RecipeIngredient) error
	DeleteByRecipeID(ctx context.Context, tx *gorm.DB, recipeID uint) error
	AggregateCart(ctx context.Context, tx *gorm.DB, userID uint) ([]CartItem, error)
}

type recipeIngredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeIngredientRepo(db *gorm.DB, baseLog *logger.Logger) RecipeIngredientRepo {
	return &recipeIngredientRepo{db: db, log: baseLog.With("repo", "RecipeIngredientRepo")}
}

func (rr *recipeIngredientRepo) BulkCreate(ctx context.Context, tx *gorm.DB, rows []*types.RecipeIngredient) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}

func (rr *recipeIngredientRepo) DeleteByRecipeID(ctx context.Context, tx *gorm.DB, recipeID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Delete(&types.RecipeIngredient{}).Error
}

// AggregateCart collects every ingredient row reachable through the
// user's shopping cart, grouped by (name, unit) with summed amounts,
// ordered alphabetically. Insertion order of cart entries never affects
// the result.
func (rr *recipeIngredientRepo) AggregateCart(ctx context.Context, tx *gorm.DB, userID uint) ([]CartItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var items []CartItem
	err := transaction.WithContext(ctx).
		Table(`"recipe_ingredient" ri`).
		Select("i.name AS name, i.measurement_unit AS measurement_unit, SUM(ri.amount) AS total").
		Joins(`JOIN "ingredient" i ON i.id = ri.ingredient_id`).
		Joins(`JOIN "shopping_cart_entry" sc ON sc.recipe_id = ri.recipe_id`).
		Where("sc.user_id = ?", userID).
		Group("i.name, i.measurement_unit").
		Order("i.name ASC, i.measurement_unit ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
