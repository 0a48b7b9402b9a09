package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/feastly/feastly-backend/internal/logger"
	"github.com/feastly/feastly-backend/internal/types"
)

// RecipeFilter narrows a recipe listing. TagSlugs are OR-combined.
// FavoritedBy / InCartOf carry the viewer id for the membership filters
// and are only set for authenticated viewers; the Favorited / InCart
// values then select rows inside or outside the membership set.
type RecipeFilter struct {
	TagSlugs    []string
	AuthorID    uint
	FavoritedBy uint
	Favorited   *bool
	InCartOf    uint
	InCart      *bool
}

type RecipeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, recipe *types.Recipe) (*types.Recipe, error)
	GetByID(ctx context.Context, tx *gorm.DB, recipeID uint) (*types.Recipe, error)
	GetByIDLoaded(ctx context.Context, tx *gorm.DB, recipeID uint) (*types.Recipe, error)
	List(ctx context.Context, tx *gorm.DB, filter RecipeFilter, offset, limit int) ([]*types.Recipe, int64, error)
	ListByAuthor(ctx context.Context, tx *gorm.DB, authorID uint, limit int) ([]*types.Recipe, error)
	CountByAuthor(ctx context.Context, tx *gorm.DB, authorID uint) (int64, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, recipeID uint, fields map[string]interface{}) error
	ReplaceTags(ctx context.Context, tx *gorm.DB, recipe *types.Recipe, tags []*types.Tag) error
	Delete(ctx context.Context, tx *gorm.DB, recipeID uint) error
}

type recipeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
	return &recipeRepo{db: db, log: baseLog.With("repo", "RecipeRepo")}
}

func (rr *recipeRepo) Create(ctx context.Context, tx *gorm.DB, recipe *types.Recipe) (*types.Recipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if err := transaction.WithContext(ctx).Omit("Tags", "RecipeIngredients").Create(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

func (rr *recipeRepo) GetByID(ctx context.Context, tx *gorm.DB, recipeID uint) (*types.Recipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var recipe types.Recipe
	if err := transaction.WithContext(ctx).First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &recipe, nil
}

// GetByIDLoaded fetches a recipe with its author, tags and ingredient
// rows preloaded, ready for the full read view.
func (rr *recipeRepo) GetByIDLoaded(ctx context.Context, tx *gorm.DB, recipeID uint) (*types.Recipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var recipe types.Recipe
	if err := transaction.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("RecipeIngredients.Ingredient").
		First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &recipe, nil
}

func (rr *recipeRepo) List(ctx context.Context, tx *gorm.DB, filter RecipeFilter, offset, limit int) ([]*types.Recipe, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	base := transaction.WithContext(ctx).Model(&types.Recipe{})
	base = applyRecipeFilter(base, filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Distinct("recipe.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []*types.Recipe
	q := base.Session(&gorm.Session{}).
		Distinct("recipe.*").
		Preload("Author").
		Preload("Tags").
		Preload("RecipeIngredients.Ingredient").
		Order("recipe.id DESC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

func applyRecipeFilter(q *gorm.DB, filter RecipeFilter) *gorm.DB {
	if len(filter.TagSlugs) > 0 {
		q = q.Joins(`JOIN "recipe_tag" rt ON rt.recipe_id = recipe.id`).
			Joins(`JOIN "tag" t ON t.id = rt.tag_id`).
			Where("t.slug IN ?", filter.TagSlugs)
	}
	if filter.AuthorID != 0 {
		q = q.Where("recipe.author_id = ?", filter.AuthorID)
	}
	if filter.FavoritedBy != 0 && filter.Favorited != nil {
		sub := `EXISTS (SELECT 1 FROM "favorite" f WHERE f.user_id = ? AND f.recipe_id = recipe.id)`
		if *filter.Favorited {
			q = q.Where(sub, filter.FavoritedBy)
		} else {
			q = q.Where("NOT "+sub, filter.FavoritedBy)
		}
	}
	if filter.InCartOf != 0 && filter.InCart != nil {
		sub := `EXISTS (SELECT 1 FROM "shopping_cart_entry" sc WHERE sc.user_id = ? AND sc.recipe_id = recipe.id)`
		if *filter.InCart {
			q = q.Where(sub, filter.InCartOf)
		} else {
			q = q.Where("NOT "+sub, filter.InCartOf)
		}
	}
	return q
}

func (rr *recipeRepo) ListByAuthor(ctx context.Context, tx *gorm.DB, authorID uint, limit int) ([]*types.Recipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	q := transaction.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recipes []*types.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (rr *recipeRepo) CountByAuthor(ctx context.Context, tx *gorm.DB, authorID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (rr *recipeRepo) UpdateFields(ctx context.Context, tx *gorm.DB, recipeID uint, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Recipe{}).
		Where("id = ?", recipeID).
		Updates(fields).Error
}

func (rr *recipeRepo) ReplaceTags(ctx context.Context, tx *gorm.DB, recipe *types.Recipe, tags []*types.Tag) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	assoc := transaction.WithContext(ctx).Model(recipe).Association("Tags")
	if len(tags) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(tags)
}

func (rr *recipeRepo) Delete(ctx context.Context, tx *gorm.DB, recipeID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).Select("Tags").Delete(&types.Recipe{ID: recipeID}).Error
}
