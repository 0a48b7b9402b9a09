package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/feastly/feastly-backend/internal/logger"
	"github.com/feastly/feastly-backend/internal/repos"
	"github.com/feastly/feastly-backend/internal/types"
)

type SubscriptionService interface {
	Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*AuthorWithRecipesView, error)
	Unsubscribe(ctx context.Context, userID, authorID uint) error
	ListSubscriptions(ctx context.Context, userID uint, offset, limit, recipesLimit int) ([]AuthorWithRecipesView, int64, error)
}

type subscriptionService struct {
	db               *gorm.DB
	log              *logger.Logger
	userRepo         repos.UserRepo
	recipeRepo       repos.RecipeRepo
	subscriptionRepo repos.SubscriptionRepo
}

func NewSubscriptionService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	recipeRepo repos.RecipeRepo,
	subscriptionRepo repos.SubscriptionRepo,
) SubscriptionService {
	return &subscriptionService{
		db:               db,
		log:              log.With("service", "SubscriptionService"),
		userRepo:         userRepo,
		recipeRepo:       recipeRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

// Subscribe creates the follower edge. Self-subscription is rejected
// before the existence check; the unique index and the database check
// constraint backstop both rules under concurrent writes.
func (ss *subscriptionService) Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*AuthorWithRecipesView, error) {
	if userID == authorID {
		return nil, validationError("cannot subscribe to yourself")
	}
	author, err := ss.userRepo.GetByID(ctx, nil, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load author: %w", err)
	}
	if author == nil {
		return nil, notFoundError("user")
	}
	exists, err := ss.subscriptionRepo.Exists(ctx, nil, userID, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check subscription: %w", err)
	}
	if exists {
		return nil, conflictError("already subscribed to this user")
	}
	if err := ss.subscriptionRepo.Create(ctx, nil, userID, authorID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictError("already subscribed to this user")
		}
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return ss.buildAuthorView(ctx, author, true, recipesLimit)
}

func (ss *subscriptionService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	author, err := ss.userRepo.GetByID(ctx, nil, authorID)
	if err != nil {
		return fmt.Errorf("failed to load author: %w", err)
	}
	if author == nil {
		return notFoundError("user")
	}
	deleted, err := ss.subscriptionRepo.Delete(ctx, nil, userID, authorID)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	if !deleted {
		return conflictError("not subscribed to this user")
	}
	return nil
}

func (ss *subscriptionService) ListSubscriptions(ctx context.Context, userID uint, offset, limit, recipesLimit int) ([]AuthorWithRecipesView, int64, error) {
	authors, total, err := ss.subscriptionRepo.ListAuthors(ctx, nil, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	views := make([]AuthorWithRecipesView, 0, len(authors))
	for _, author := range authors {
		view, vErr := ss.buildAuthorView(ctx, author, true, recipesLimit)
		if vErr != nil {
			return nil, 0, vErr
		}
		views = append(views, *view)
	}
	return views, total, nil
}

// buildAuthorView assembles the author-with-recipes shape. The recipe
// count always reflects the true current count; recipesLimit <= 0
// means no truncation.
func (ss *subscriptionService) buildAuthorView(ctx context.Context, author *types.User, isSubscribed bool, recipesLimit int) (*AuthorWithRecipesView, error) {
	count, err := ss.recipeRepo.CountByAuthor(ctx, nil, author.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count author recipes: %w", err)
	}
	recipes, err := ss.recipeRepo.ListByAuthor(ctx, nil, author.ID, recipesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list author recipes: %w", err)
	}
	shorts := make([]RecipeShortView, 0, len(recipes))
	for _, r := range recipes {
		shorts = append(shorts, mapRecipeShortView(r))
	}
	return &AuthorWithRecipesView{
		UserView:     mapUserView(author, isSubscribed),
		RecipesCount: count,
		Recipes:      shorts,
	}, nil
}
