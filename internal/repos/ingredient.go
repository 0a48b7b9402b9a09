package repos

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/feastly/feastly-backend/internal/logger"
	"github.com/feastly/feastly-backend/internal/types"
)

type IngredientRepo interface {
	List(ctx context.Context, tx *gorm.DB, namePrefix string) ([]*types.Ingredient, error)
	GetByID(ctx context.Context, tx *gorm.DB, ingredientID uint) (*types.Ingredient, error)
	CountByIDs(ctx context.Context, tx *gorm.DB, ingredientIDs []uint) (int64, error)
}

type ingredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	return &ingredientRepo{db: db, log: baseLog.With("repo", "IngredientRepo")}
}

// List returns ingredients whose name starts with namePrefix,
// case-insensitively. An empty prefix returns every ingredient.
func (ir *ingredientRepo) List(ctx context.Context, tx *gorm.DB, namePrefix string) ([]*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	q := transaction.WithContext(ctx).Model(&types.Ingredient{}).Order("name ASC")
	if namePrefix != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, strings.ToLower(escapeLike(namePrefix))+"%")
	}
	var ingredients []*types.Ingredient
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (ir *ingredientRepo) GetByID(ctx context.Context, tx *gorm.DB, ingredientID uint) (*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var ingredient types.Ingredient
	if err := transaction.WithContext(ctx).First(&ingredient, ingredientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ingredient, nil
}

func (ir *ingredientRepo) CountByIDs(ctx context.Context, tx *gorm.DB, ingredientIDs []uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	if len(ingredientIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Ingredient{}).
		Where("id IN ?", ingredientIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
