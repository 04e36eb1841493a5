package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/yamdb/internal/models"
	"github.com/magabrotheeeer/yamdb/internal/storage"
)

type UserCreatorMock struct {
	mock.Mock
}

func (m *UserCreatorMock) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func TestCreateSuperuser(t *testing.T) {
	tests := []struct {
		name         string
		su           superuser
		setupMock    func(*UserCreatorMock)
		errorMessage string
	}{
		{
			name: "успешное создание",
			su:   superuser{Username: "root", Email: "root@example.com"},
			setupMock: func(m *UserCreatorMock) {
				m.On("CreateUser", mock.Anything, models.User{
					Username: "root", Email: "root@example.com", Role: models.RoleAdmin, IsSuperuser: true,
				}).Return(&models.User{ID: 1, Username: "root", Email: "root@example.com", Role: models.RoleAdmin, IsSuperuser: true}, nil)
			},
		},
		{
			name:         "username me",
			su:           superuser{Username: "me", Email: "me@example.com"},
			setupMock:    func(_ *UserCreatorMock) {},
			errorMessage: "notme",
		},
		{
			name:         "без email",
			su:           superuser{Username: "root"},
			setupMock:    func(_ *UserCreatorMock) {},
			errorMessage: "Email",
		},
		{
			name: "занятый username",
			su:   superuser{Username: "root", Email: "root@example.com"},
			setupMock: func(m *UserCreatorMock) {
				m.On("CreateUser", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("storage.CreateUser: %w", storage.ErrUserExists))
			},
			errorMessage: `username "root" is already taken`,
		},
		{
			name: "занятый email",
			su:   superuser{Username: "root", Email: "root@example.com"},
			setupMock: func(m *UserCreatorMock) {
				m.On("CreateUser", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("storage.CreateUser: %w", storage.ErrEmailExists))
			},
			errorMessage: `email "root@example.com" is already taken`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserCreatorMock)
			tt.setupMock(repo)

			user, err := createSuperuser(context.Background(), repo, tt.su)
			if tt.errorMessage != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMessage)
			} else {
				require.NoError(t, err)
				assert.True(t, user.IsAdmin())
			}
			repo.AssertExpectations(t)
		})
	}
}
