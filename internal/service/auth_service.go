package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"taskboard/internal/auth"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// Session is the result of a successful login.
type Session struct {
	Token    string
	TokenID  string
	Identity *auth.Identity
}

// AuthService handles registration and the session lifecycle.
type AuthService interface {
	Register(ctx context.Context, username, password string, role model.Role) (*model.User, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	Resolve(ctx context.Context, token string) (*auth.Identity, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	userRepo   repository.UserRepository
	sessions   *auth.SessionService
	tokenStore auth.TokenStoreInterface
	logger     *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, sessions *auth.SessionService, tokenStore auth.TokenStoreInterface, logger *slog.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		sessions:   sessions,
		tokenStore: tokenStore,
		logger:     logger,
	}
}

// Register creates a new user with a hashed password. Registration is open;
// no identity is required.
func (s *authService) Register(ctx context.Context, username, password string, role model.Role) (*model.User, error) {
	user, err := createUser(ctx, s.userRepo, username, password, role)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", slog.String("username", user.Username), slog.String("role", string(user.Role)))
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *authService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find user: %w", err)
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	identity := auth.IdentityFromUser(user)
	tokenID, token, err := s.sessions.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	s.logger.Info("user logged in", slog.String("username", user.Username))
	return &Session{Token: token, TokenID: tokenID, Identity: identity}, nil
}

// Resolve rebuilds the identity behind a session token. Revoked or malformed
// tokens resolve to auth.ErrInvalidSession.
func (s *authService) Resolve(ctx context.Context, token string) (*auth.Identity, error) {
	claims, err := s.sessions.Parse(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.tokenStore.IsRevoked(ctx, claims.ID)
	if err != nil || revoked {
		return nil, auth.ErrInvalidSession
	}
	return claims.Identity(), nil
}

// Logout revokes the session token. Unparseable tokens are ignored; there is
// nothing to revoke.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.sessions.Parse(token)
	if err != nil {
		return nil
	}
	if err := s.tokenStore.Revoke(ctx, claims.ID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	s.logger.Info("user logged out", slog.String("username", claims.Username))
	return nil
}

// createUser validates and inserts a user. Shared by registration and the
// admin roster.
func createUser(ctx context.Context, repo repository.UserRepository, username, password string, role model.Role) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.ErrUsernameRequired
	}
	role, err := normalizeRole(role)
	if err != nil {
		return nil, err
	}

	exists, err := repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check user existence: %w", err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateUsername
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func normalizeRole(role model.Role) (model.Role, error) {
	role = model.Role(strings.ToLower(strings.TrimSpace(string(role))))
	if role == "" {
		return model.RoleUser, nil
	}
	if !role.Valid() {
		return "", apperrors.ErrInvalidRole
	}
	return role, nil
}
