//go:build unit

package commands_test

import (
	"context"
	"testing"

	"fitting-scheduler/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and then overwrites the policy", func(t *testing.T) {
		e := newEnv()
		ownerID := uuid.New()
		uc := commands.NewSettingsUseCase(e.uow)

		require.NoError(t, uc.UpdateSettings(ctx, ownerID, commands.UpdateSettingsRequest{
			AppointmentDurationMin: 60,
			AutoConfirm:            true,
		}))
		require.NoError(t, uc.UpdateSettings(ctx, ownerID, commands.UpdateSettingsRequest{
			AppointmentDurationMin: 30,
			AutoConfirm:            false,
		}))

		snap, err := e.uow.Reads().SettingsByOwner(ctx, ownerID)
		require.NoError(t, err)
		assert.Equal(t, 30, snap.AppointmentMinutes)
		assert.False(t, snap.AutoConfirm)
	})

	t.Run("duration out of range", func(t *testing.T) {
		e := newEnv()
		uc := commands.NewSettingsUseCase(e.uow)

		err := uc.UpdateSettings(ctx, uuid.New(), commands.UpdateSettingsRequest{AppointmentDurationMin: 4})
		assert.ErrorIs(t, err, commands.ErrDomainValidation)

		err = uc.UpdateSettings(ctx, uuid.New(), commands.UpdateSettingsRequest{AppointmentDurationMin: 481})
		assert.ErrorIs(t, err, commands.ErrDomainValidation)
	})
}
