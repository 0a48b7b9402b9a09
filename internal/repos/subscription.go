package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/feastly/feastly-backend/internal/logger"
	"github.com/feastly/feastly-backend/internal/types"
)

type SubscriptionRepo interface {
	Exists(ctx context.Context, tx *gorm.DB, userID, authorID uint) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, userID, authorID uint) error
	Delete(ctx context.Context, tx *gorm.DB, userID, authorID uint) (bool, error)
	FilterAuthorIDs(ctx context.Context, tx *gorm.DB, userID uint, authorIDs []uint) ([]uint, error)
	ListAuthors(ctx context.Context, tx *gorm.DB, userID uint, offset, limit int) ([]*types.User, int64, error)
}

type subscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return &subscriptionRepo{db: db, log: baseLog.With("repo", "SubscriptionRepo")}
}

func (sr *subscriptionRepo) Exists(ctx context.Context, tx *gorm.DB, userID, authorID uint) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (sr *subscriptionRepo) Create(ctx context.Context, tx *gorm.DB, userID, authorID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Create(&types.Subscription{UserID: userID, AuthorID: authorID}).Error
}

func (sr *subscriptionRepo) Delete(ctx context.Context, tx *gorm.DB, userID, authorID uint) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	res := transaction.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&types.Subscription{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (sr *subscriptionRepo) FilterAuthorIDs(ctx context.Context, tx *gorm.DB, userID uint, authorIDs []uint) ([]uint, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var ids []uint
	if len(authorIDs) == 0 {
		return ids, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListAuthors pages through the authors the user follows, ordered by id.
func (sr *subscriptionRepo) ListAuthors(ctx context.Context, tx *gorm.DB, userID uint, offset, limit int) ([]*types.User, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	base := transaction.WithContext(ctx).
		Model(&types.User{}).
		Joins(`JOIN "subscription" s ON s.author_id = "user".id`).
		Where("s.user_id = ?", userID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authors []*types.User
	q := base.Session(&gorm.Session{}).Order(`"user".id ASC`).Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&authors).Error; err != nil {
		return nil, 0, err
	}
	return authors, total, nil
}
