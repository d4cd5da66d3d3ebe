//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"fitting-scheduler/internal/domain/schedule"
	"fitting-scheduler/internal/notify"
	"fitting-scheduler/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingUseCase(e *env) commands.BookingCommands {
	return commands.NewBookingUseCase(e.uow, e.views, e.dispatcher, e.clock)
}

func TestReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("books a free future slot", func(t *testing.T) {
		e := newEnv()
		ownerID := uuid.New()
		customerID := uuid.New()
		slotID := e.seedSlot(ownerID, e.clock.Now().Add(2*time.Hour), 60, true, false)

		uc := newBookingUseCase(e)
		result, err := uc.Reserve(ctx, customerID, commands.ReserveRequest{SlotID: slotID})
		require.NoError(t, err)
		require.NotNil(t, result.Schedule)

		assert.Equal(t, slotID, result.Schedule.SlotID)
		assert.Equal(t, customerID, result.Schedule.CustomerID)
		assert.Equal(t, schedule.StatusScheduled.String(), result.Schedule.Status)
		assert.Equal(t, json.RawMessage(`[]`), result.Schedule.Products)

		assert.True(t, e.slotRow(t, slotID).IsBooked)
		assert.Equal(t, []string{notify.KindBookingCreated}, e.dispatcher.kinds())
	})

	t.Run("requests approval when the slot is not auto confirmed", func(t *testing.T) {
		e := newEnv()
		slotID := e.seedSlot(uuid.New(), e.clock.Now().Add(2*time.Hour), 60, false, false)

		uc := newBookingUseCase(e)
		_, err := uc.Reserve(ctx, uuid.New(), commands.ReserveRequest{SlotID: slotID})
		require.NoError(t, err)

		assert.Equal(t,
			[]string{notify.KindBookingCreated, notify.KindApprovalRequested},
			e.dispatcher.kinds())
	})

	t.Run("unknown slot", func(t *testing.T) {
		e := newEnv()
		uc := newBookingUseCase(e)

		_, err := uc.Reserve(ctx, uuid.New(), commands.ReserveRequest{SlotID: uuid.New()})
		assert.ErrorIs(t, err, commands.ErrSlotNotFound)
		assert.Empty(t, e.dispatcher.kinds())
	})

	t.Run("slot in the past", func(t *testing.T) {
		e := newEnv()
		slotID := e.seedSlot(uuid.New(), e.clock.Now().Add(2*time.Hour), 60, true, false)
		e.clock.Add(3 * time.Hour)

		uc := newBookingUseCase(e)
		_, err := uc.Reserve(ctx, uuid.New(), commands.ReserveRequest{SlotID: slotID})
		assert.ErrorIs(t, err, commands.ErrSlotInPast)
	})

	t.Run("already booked slot", func(t *testing.T) {
		e := newEnv()
		slotID := e.seedSlot(uuid.New(), e.clock.Now().Add(2*time.Hour), 60, true, true)

		uc := newBookingUseCase(e)
		_, err := uc.Reserve(ctx, uuid.New(), commands.ReserveRequest{SlotID: slotID})
		assert.ErrorIs(t, err, commands.ErrSlotAlreadyBooked)
		assert.Empty(t, e.dispatcher.kinds())
	})

	t.Run("carries the requested products", func(t *testing.T) {
		e := newEnv()
		slotID := e.seedSlot(uuid.New(), e.clock.Now().Add(2*time.Hour), 60, true, false)

		uc := newBookingUseCase(e)
		products := json.RawMessage(`[{"sku":"suit-41","qty":1}]`)
		result, err := uc.Reserve(ctx, uuid.New(), commands.ReserveRequest{SlotID: slotID, Products: products})
		require.NoError(t, err)
		assert.Equal(t, products, result.Schedule.Products)
	})
}

func TestReserveConcurrent(t *testing.T) {
	const attempts = 16

	e := newEnv()
	slotID := e.seedSlot(uuid.New(), e.clock.Now().Add(2*time.Hour), 60, true, false)
	uc := newBookingUseCase(e)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		wins   int
		losses int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Reserve(context.Background(), uuid.New(), commands.ReserveRequest{SlotID: slotID})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case assert.ErrorIs(t, err, commands.ErrSlotAlreadyBooked):
				losses++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins, "exactly one concurrent reserve must win")
	assert.Equal(t, attempts-1, losses)
	assert.True(t, e.slotRow(t, slotID).IsBooked)
}
