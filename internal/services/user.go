package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/feastly/feastly-backend/internal/logger"
	"github.com/feastly/feastly-backend/internal/repos"
)

type UserService interface {
	Get(ctx context.Context, viewerID, userID uint) (*UserView, error)
	GetMe(ctx context.Context, viewerID uint) (*UserView, error)
	List(ctx context.Context, viewerID uint, offset, limit int) ([]UserView, int64, error)
	SetAvatar(ctx context.Context, userID uint, avatarDataURI string) (string, error)
	ClearAvatar(ctx context.Context, userID uint) error
}

type userService struct {
	db               *gorm.DB
	log              *logger.Logger
	userRepo         repos.UserRepo
	subscriptionRepo repos.SubscriptionRepo
	mediaService     MediaService
}

func NewUserService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	subscriptionRepo repos.SubscriptionRepo,
	mediaService MediaService,
) UserService {
	return &userService{
		db:               db,
		log:              log.With("service", "UserService"),
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		mediaService:     mediaService,
	}
}

func (us *userService) Get(ctx context.Context, viewerID, userID uint) (*UserView, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, notFoundError("user")
	}
	subscribed, err := us.isSubscribed(ctx, viewerID, userID)
	if err != nil {
		return nil, err
	}
	view := mapUserView(user, subscribed)
	return &view, nil
}

func (us *userService) GetMe(ctx context.Context, viewerID uint) (*UserView, error) {
	return us.Get(ctx, viewerID, viewerID)
}

func (us *userService) List(ctx context.Context, viewerID uint, offset, limit int) ([]UserView, int64, error) {
	users, total, err := us.userRepo.List(ctx, nil, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	subscribedSet := map[uint]struct{}{}
	if viewerID != 0 && len(users) > 0 {
		ids := make([]uint, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		subscribedIDs, sErr := us.subscriptionRepo.FilterAuthorIDs(ctx, nil, viewerID, ids)
		if sErr != nil {
			return nil, 0, fmt.Errorf("failed to derive subscription flags: %w", sErr)
		}
		subscribedSet = idSet(subscribedIDs)
	}
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		_, subscribed := subscribedSet[u.ID]
		views = append(views, mapUserView(u, subscribed))
	}
	return views, total, nil
}

// isSubscribed is false for an absent viewer and for the viewer's own
// profile; no query runs in either case.
func (us *userService) isSubscribed(ctx context.Context, viewerID, authorID uint) (bool, error) {
	if viewerID == 0 || viewerID == authorID {
		return false, nil
	}
	subscribed, err := us.subscriptionRepo.Exists(ctx, nil, viewerID, authorID)
	if err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return subscribed, nil
}

func (us *userService) SetAvatar(ctx context.Context, userID uint, avatarDataURI string) (string, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return "", notFoundError("user")
	}
	relPath, err := us.mediaService.SaveDataURI(avatarDataURI, "users")
	if err != nil {
		return "", err
	}
	if err := us.userRepo.UpdateAvatar(ctx, nil, userID, relPath); err != nil {
		return "", fmt.Errorf("failed to update avatar: %w", err)
	}
	if user.Avatar != "" {
		if dErr := us.mediaService.Delete(user.Avatar); dErr != nil {
			us.log.Warn("Failed to remove previous avatar file", "error", dErr, "path", user.Avatar)
		}
	}
	return relPath, nil
}

func (us *userService) ClearAvatar(ctx context.Context, userID uint) error {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return notFoundError("user")
	}
	if err := us.userRepo.UpdateAvatar(ctx, nil, userID, ""); err != nil {
		return fmt.Errorf("failed to clear avatar: %w", err)
	}
	if user.Avatar != "" {
		if dErr := us.mediaService.Delete(user.Avatar); dErr != nil {
			us.log.Warn("Failed to remove avatar file", "error", dErr, "path", user.Avatar)
		}
	}
	return nil
}
