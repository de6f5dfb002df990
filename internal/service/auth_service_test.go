package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskboard/internal/auth"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/logging"
	"taskboard/internal/model"
)

func newTestAuthService(repo *MockUserRepository, store *MockTokenStore) AuthService {
	return NewAuthService(repo, auth.NewSessionService("test-secret"), store, logging.Discard())
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		role          model.Role
		setupMock     func(*MockUserRepository)
		expectedRole  model.Role
		expectedError error
	}{
		{
			name:     "successful registration",
			username: "alice",
			role:     model.RoleUser,
			setupMock: func(m *MockUserRepository) {
				m.On("ExistsByUsername", mock.Anything, "alice").Return(false, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedRole: model.RoleUser,
		},
		{
			name:     "empty role defaults to user",
			username: "bob",
			setupMock: func(m *MockUserRepository) {
				m.On("ExistsByUsername", mock.Anything, "bob").Return(false, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedRole: model.RoleUser,
		},
		{
			name:     "duplicate username",
			username: "alice",
			role:     model.RoleAdmin,
			setupMock: func(m *MockUserRepository) {
				m.On("ExistsByUsername", mock.Anything, "alice").Return(true, nil)
			},
			expectedError: apperrors.ErrDuplicateUsername,
		},
		{
			name:     "unique index race",
			username: "carol",
			role:     model.RoleUser,
			setupMock: func(m *MockUserRepository) {
				m.On("ExistsByUsername", mock.Anything, "carol").Return(false, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrDuplicateUsername,
		},
		{
			name:          "unknown role",
			username:      "dave",
			role:          "owner",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrInvalidRole,
		},
		{
			name:          "blank username",
			username:      "  ",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrUsernameRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := newTestAuthService(mockRepo, new(MockTokenStore))
			user, err := service.Register(context.Background(), tt.username, "password123", tt.role)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.username, user.Username)
				assert.Equal(t, tt.expectedRole, user.Role)
				assert.True(t, auth.CheckPassword(user.PasswordHash, "password123"))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	stored := &model.User{ID: 4, Username: "alice", PasswordHash: hash, Role: model.RoleUser}

	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			username: "alice",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(stored, nil)
			},
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "nope",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := newTestAuthService(mockRepo, new(MockTokenStore))
			session, err := service.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, session)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, session.Token)
				assert.NotEmpty(t, session.TokenID)
				assert.Equal(t, &auth.Identity{UserID: 4, Username: "alice", Role: model.RoleUser}, session.Identity)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ResolveAndLogout(t *testing.T) {
	hash, err := auth.HashPassword("pw")
	require.NoError(t, err)

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUsername", mock.Anything, "root").
		Return(&model.User{ID: 1, Username: "root", PasswordHash: hash, Role: model.RoleAdmin}, nil)
	mockStore := new(MockTokenStore)

	service := newTestAuthService(mockRepo, mockStore)
	ctx := context.Background()

	session, err := service.Login(ctx, "root", "pw")
	require.NoError(t, err)

	mockStore.On("IsRevoked", mock.Anything, session.TokenID).Return(false, nil).Once()
	identity, err := service.Resolve(ctx, session.Token)
	require.NoError(t, err)
	assert.True(t, identity.IsAdmin())

	mockStore.On("Revoke", mock.Anything, session.TokenID).Return(nil).Once()
	require.NoError(t, service.Logout(ctx, session.Token))

	mockStore.On("IsRevoked", mock.Anything, session.TokenID).Return(true, nil).Once()
	_, err = service.Resolve(ctx, session.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidSession)

	assert.NoError(t, service.Logout(ctx, "garbage"))
	mockStore.AssertExpectations(t)
}
