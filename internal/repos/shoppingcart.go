package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/feastly/feastly-backend/internal/logger"
	"github.com/feastly/feastly-backend/internal/types"
)

type ShoppingCartRepo interface {
	Exists(ctx context.Context, tx *gorm.DB, userID, recipeID uint) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, userID, recipeID uint) error
	Delete(ctx context.Context, tx *gorm.DB, userID, recipeID uint) (bool, error)
	FilterRecipeIDs(ctx context.Context, tx *gorm.DB, userID uint, recipeIDs []uint) ([]uint, error)
}

type shoppingCartRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShoppingCartRepo(db *gorm.DB, baseLog *logger.Logger) ShoppingCartRepo {
	return &shoppingCartRepo{db: db, log: baseLog.With("repo", "ShoppingCartRepo")}
}

func (sr *shoppingCartRepo) Exists(ctx context.Context, tx *gorm.DB, userID, recipeID uint) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ShoppingCartEntry{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (sr *shoppingCartRepo) Create(ctx context.Context, tx *gorm.DB, userID, recipeID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Create(&types.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}).Error
}

func (sr *shoppingCartRepo) Delete(ctx context.Context, tx *gorm.DB, userID, recipeID uint) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	res := transaction.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&types.ShoppingCartEntry{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (sr *shoppingCartRepo) FilterRecipeIDs(ctx context.Context, tx *gorm.DB, userID uint, recipeIDs []uint) ([]uint, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var ids []uint
	if len(recipeIDs) == 0 {
		return ids, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.ShoppingCartEntry{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
