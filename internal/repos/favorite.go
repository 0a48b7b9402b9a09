package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/feastly/feastly-backend/internal/logger"
	"github.com/feastly/feastly-backend/internal/types"
)

type FavoriteRepo interface {
	Exists(ctx context.Context, tx *gorm.DB, userID, recipeID uint) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, userID, recipeID uint) error
	Delete(ctx context.Context, tx *gorm.DB, userID, recipeID uint) (bool, error)
	FilterRecipeIDs(ctx context.Context, tx *gorm.DB, userID uint, recipeIDs []uint) ([]uint, error)
}

type favoriteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFavoriteRepo(db *gorm.DB, baseLog *logger.Logger) FavoriteRepo {
	return &favoriteRepo{db: db, log: baseLog.With("repo", "FavoriteRepo")}
}

func (fr *favoriteRepo) Exists(ctx context.Context, tx *gorm.DB, userID, recipeID uint) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (fr *favoriteRepo) Create(ctx context.Context, tx *gorm.DB, userID, recipeID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	return transaction.WithContext(ctx).
		Create(&types.Favorite{UserID: userID, RecipeID: recipeID}).Error
}

func (fr *favoriteRepo) Delete(ctx context.Context, tx *gorm.DB, userID, recipeID uint) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	res := transaction.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&types.Favorite{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FilterRecipeIDs returns the subset of recipeIDs the user has
// favorited. Used to derive the per-recipe flag for a whole listing
// with one query instead of one existence probe per row.
func (fr *favoriteRepo) FilterRecipeIDs(ctx context.Context, tx *gorm.DB, userID uint, recipeIDs []uint) ([]uint, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var ids []uint
	if len(recipeIDs) == 0 {
		return ids, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
