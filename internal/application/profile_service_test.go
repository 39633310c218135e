package application

import (
	"context"
	"testing"

	"github.com/litblc/account-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProfileService_UpdateMyInfo(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the record after the update", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewProfileService(users, zap.NewNop())

		update := domain.ProfileUpdate{ResideCity: "Shanghai", Bio: "hi"}
		stale := &domain.User{ID: 7, UUID: "user-01HYX2"}
		fresh := &domain.User{ID: 7, UUID: "user-01HYX2", ResideCity: "Shanghai", Bio: "hi"}

		users.On("FindByUUID", mock.Anything, "user-01HYX2").Return(stale, nil).Once()
		users.On("UpdateProfile", mock.Anything, int64(7), update).Return(nil)
		users.On("FindByUUID", mock.Anything, "user-01HYX2").Return(fresh, nil).Once()

		got, err := svc.UpdateMyInfo(ctx, "user-01HYX2", update)
		require.NoError(t, err)
		assert.Equal(t, "Shanghai", got.ResideCity)
		users.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewProfileService(users, zap.NewNop())
		users.On("FindByUUID", mock.Anything, "user-nope").Return(nil, domain.ErrUserNotFound)

		_, err := svc.UpdateMyInfo(ctx, "user-nope", domain.ProfileUpdate{})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestProfileService_UpdateMyName(t *testing.T) {
	ctx := context.Background()

	t.Run("first rename flips the flag", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewProfileService(users, zap.NewNop())

		users.On("FindByUUID", mock.Anything, "user-01HYX2").
			Return(&domain.User{ID: 7, UUID: "user-01HYX2", IsRename: domain.RenameAllowed}, nil)
		users.On("UpdateName", mock.Anything, int64(7), "NewName", domain.RenameUsed).Return(nil)

		require.NoError(t, svc.UpdateMyName(ctx, "user-01HYX2", "NewName"))
		users.AssertExpectations(t)
	})

	t.Run("second rename is refused", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewProfileService(users, zap.NewNop())

		users.On("FindByUUID", mock.Anything, "user-01HYX2").
			Return(&domain.User{ID: 7, UUID: "user-01HYX2", IsRename: domain.RenameUsed}, nil)

		err := svc.UpdateMyName(ctx, "user-01HYX2", "Another")
		assert.ErrorIs(t, err, domain.ErrRenameNotAllowed)
		users.AssertNotCalled(t, "UpdateName", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
