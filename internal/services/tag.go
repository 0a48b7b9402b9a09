package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/feastly/feastly-backend/internal/logger"
	"github.com/feastly/feastly-backend/internal/repos"
	"github.com/feastly/feastly-backend/internal/types"
)

type TagService interface {
	List(ctx context.Context) ([]*types.Tag, error)
	Get(ctx context.Context, tagID uint) (*types.Tag, error)
}

type tagService struct {
	db      *gorm.DB
	log     *logger.Logger
	tagRepo repos.TagRepo
}

func NewTagService(db *gorm.DB, log *logger.Logger, tagRepo repos.TagRepo) TagService {
	return &tagService{db: db, log: log.With("service", "TagService"), tagRepo: tagRepo}
}

func (ts *tagService) List(ctx context.Context) ([]*types.Tag, error) {
	tags, err := ts.tagRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (ts *tagService) Get(ctx context.Context, tagID uint) (*types.Tag, error) {
	tag, err := ts.tagRepo.GetByID(ctx, nil, tagID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tag: %w", err)
	}
	if tag == nil {
		return nil, notFoundError("tag")
	}
	return tag, nil
}
