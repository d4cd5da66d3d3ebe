//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"fitting-scheduler/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestCreateSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("inherits the owner's policy", func(t *testing.T) {
		e := newEnv()
		ownerID := uuid.New()
		e.seedSettings(ownerID, 45, true)

		uc := commands.NewSlotUseCase(e.uow, e.clock)
		id, err := uc.CreateSlot(ctx, ownerID, commands.CreateSlotRequest{
			StartsAt: e.clock.Now().Add(2 * time.Hour),
		})
		require.NoError(t, err)

		row := e.slotRow(t, id)
		assert.Equal(t, 45, row.DurationMin)
		assert.True(t, row.AutoConfirm)
		assert.False(t, row.IsBooked)
	})

	t.Run("explicit auto confirm overrides the default", func(t *testing.T) {
		e := newEnv()
		ownerID := uuid.New()
		e.seedSettings(ownerID, 45, true)

		uc := commands.NewSlotUseCase(e.uow, e.clock)
		id, err := uc.CreateSlot(ctx, ownerID, commands.CreateSlotRequest{
			StartsAt:    e.clock.Now().Add(2 * time.Hour),
			AutoConfirm: boolPtr(false),
		})
		require.NoError(t, err)
		assert.False(t, e.slotRow(t, id).AutoConfirm)
	})

	t.Run("owner without settings", func(t *testing.T) {
		e := newEnv()
		uc := commands.NewSlotUseCase(e.uow, e.clock)

		_, err := uc.CreateSlot(ctx, uuid.New(), commands.CreateSlotRequest{
			StartsAt: e.clock.Now().Add(2 * time.Hour),
		})
		assert.ErrorIs(t, err, commands.ErrSettingsNotFound)
	})

	t.Run("start in the past", func(t *testing.T) {
		e := newEnv()
		ownerID := uuid.New()
		e.seedSettings(ownerID, 45, true)

		uc := commands.NewSlotUseCase(e.uow, e.clock)
		_, err := uc.CreateSlot(ctx, ownerID, commands.CreateSlotRequest{StartsAt: e.clock.Now()})
		assert.ErrorIs(t, err, commands.ErrDomainValidation)
	})

	t.Run("duplicate start time", func(t *testing.T) {
		e := newEnv()
		ownerID := uuid.New()
		e.seedSettings(ownerID, 45, true)
		startsAt := e.clock.Now().Add(2 * time.Hour)
		e.seedSlot(ownerID, startsAt, 45, true, false)

		uc := commands.NewSlotUseCase(e.uow, e.clock)
		_, err := uc.CreateSlot(ctx, ownerID, commands.CreateSlotRequest{StartsAt: startsAt})
		assert.ErrorIs(t, err, commands.ErrSlotTimeTaken)
	})
}

func TestUpdateSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("moves an unbooked slot", func(t *testing.T) {
		e := newEnv()
		ownerID := uuid.New()
		slotID := e.seedSlot(ownerID, e.clock.Now().Add(2*time.Hour), 45, true, false)
		newStart := e.clock.Now().Add(6 * time.Hour)

		uc := commands.NewSlotUseCase(e.uow, e.clock)
		err := uc.UpdateSlot(ctx, ownerID, slotID, commands.UpdateSlotRequest{
			StartsAt:    newStart,
			AutoConfirm: boolPtr(false),
		})
		require.NoError(t, err)

		row := e.slotRow(t, slotID)
		assert.True(t, row.StartsAt.Equal(newStart))
		assert.False(t, row.AutoConfirm)
	})

	t.Run("booked slot is frozen", func(t *testing.T) {
		e := newEnv()
		ownerID := uuid.New()
		slotID := e.seedSlot(ownerID, e.clock.Now().Add(2*time.Hour), 45, true, true)

		uc := commands.NewSlotUseCase(e.uow, e.clock)
		err := uc.UpdateSlot(ctx, ownerID, slotID, commands.UpdateSlotRequest{
			StartsAt: e.clock.Now().Add(6 * time.Hour),
		})
		assert.ErrorIs(t, err, commands.ErrSlotImmutable)
	})

	t.Run("foreign slot is rejected", func(t *testing.T) {
		e := newEnv()
		slotID := e.seedSlot(uuid.New(), e.clock.Now().Add(2*time.Hour), 45, true, false)

		uc := commands.NewSlotUseCase(e.uow, e.clock)
		err := uc.UpdateSlot(ctx, uuid.New(), slotID, commands.UpdateSlotRequest{
			StartsAt: e.clock.Now().Add(6 * time.Hour),
		})
		assert.ErrorIs(t, err, commands.ErrSlotNotOwned)
	})

	t.Run("moving onto an existing start time", func(t *testing.T) {
		e := newEnv()
		ownerID := uuid.New()
		takenStart := e.clock.Now().Add(4 * time.Hour)
		e.seedSlot(ownerID, takenStart, 45, true, false)
		slotID := e.seedSlot(ownerID, e.clock.Now().Add(2*time.Hour), 45, true, false)

		uc := commands.NewSlotUseCase(e.uow, e.clock)
		err := uc.UpdateSlot(ctx, ownerID, slotID, commands.UpdateSlotRequest{StartsAt: takenStart})
		assert.ErrorIs(t, err, commands.ErrSlotTimeTaken)
	})
}

func TestDeleteSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("removes an unbooked slot", func(t *testing.T) {
		e := newEnv()
		ownerID := uuid.New()
		slotID := e.seedSlot(ownerID, e.clock.Now().Add(2*time.Hour), 45, true, false)

		uc := commands.NewSlotUseCase(e.uow, e.clock)
		require.NoError(t, uc.DeleteSlot(ctx, ownerID, slotID))

		e.store.mu.Lock()
		defer e.store.mu.Unlock()
		assert.NotContains(t, e.store.slots, slotID)
	})

	t.Run("booked slot is kept", func(t *testing.T) {
		e := newEnv()
		ownerID := uuid.New()
		slotID := e.seedSlot(ownerID, e.clock.Now().Add(2*time.Hour), 45, true, true)

		uc := commands.NewSlotUseCase(e.uow, e.clock)
		err := uc.DeleteSlot(ctx, ownerID, slotID)
		assert.ErrorIs(t, err, commands.ErrSlotImmutable)
		assert.True(t, e.slotRow(t, slotID).IsBooked)
	})

	t.Run("unknown slot", func(t *testing.T) {
		e := newEnv()
		uc := commands.NewSlotUseCase(e.uow, e.clock)
		err := uc.DeleteSlot(ctx, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrSlotNotFound)
	})
}
