package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/cache"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/policy"
	"taskboard/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService is the admin-only user roster.
type UserService interface {
	ListUsers(ctx context.Context, caller Caller) ([]model.User, error)
	GetUser(ctx context.Context, caller Caller, id uint) (*model.User, error)
	AddUser(ctx context.Context, caller Caller, username, password string, role model.Role) (*model.User, error)
	UpdateUser(ctx context.Context, caller Caller, id uint, username string, role model.Role) (*model.User, error)
	DeleteUser(ctx context.Context, caller Caller, id uint) error
}

type userService struct {
	repo   repository.UserRepository
	cache  *cache.Client
	logger *slog.Logger
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client, logger *slog.Logger) UserService {
	return &userService{repo: repo, cache: cache, logger: logger}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) ListUsers(ctx context.Context, caller Caller) ([]model.User, error) {
	if err := caller.authorize(policy.ActionListUsers, policy.Target{}); err != nil {
		return nil, err
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, caller Caller, id uint) (*model.User, error) {
	if err := caller.authorize(policy.ActionEditUser, policy.Target{}); err != nil {
		return nil, err
	}

	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateUserErr(err)
	}
	s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) AddUser(ctx context.Context, caller Caller, username, password string, role model.Role) (*model.User, error) {
	if err := caller.authorize(policy.ActionAddUser, policy.Target{}); err != nil {
		return nil, err
	}
	user, err := createUser(ctx, s.repo, username, password, role)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user added", slog.String("by", caller.username()), slog.String("username", user.Username))
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, caller Caller, id uint, username string, role model.Role) (*model.User, error) {
	if err := caller.authorize(policy.ActionEditUser, policy.Target{}); err != nil {
		return nil, err
	}

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.ErrUsernameRequired
	}
	role, err := normalizeRole(role)
	if err != nil {
		return nil, err
	}

	var updated *model.User
	err = s.repo.WithTransaction(ctx, func(ctx context.Context, tx repository.UserRepository) error {
		current, err := tx.FindByID(ctx, id)
		if err != nil {
			return translateUserErr(err)
		}
		if current.Username != username {
			taken, err := tx.ExistsByUsername(ctx, username)
			if err != nil {
				return fmt.Errorf("check username: %w", err)
			}
			if taken {
				return apperrors.ErrDuplicateUsername
			}
		}
		if err := tx.Update(ctx, id, username, role); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrDuplicateUsername
			}
			return fmt.Errorf("update user: %w", err)
		}
		updated, err = tx.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	s.logger.Info("user updated", slog.String("by", caller.username()), slog.Uint64("user_id", uint64(id)))
	return updated, nil
}

// DeleteUser removes a user. Tasks assigned to them are kept.
func (s *userService) DeleteUser(ctx context.Context, caller Caller, id uint) error {
	if err := caller.authorize(policy.ActionDeleteUser, policy.Target{}); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translateUserErr(err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	s.logger.Info("user deleted", slog.String("by", caller.username()), slog.Uint64("user_id", uint64(id)))
	return nil
}

func translateUserErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrUserNotFound
	}
	return fmt.Errorf("user store: %w", err)
}
