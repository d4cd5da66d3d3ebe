package commands

import (
	"context"
	"encoding/json"

	"fitting-scheduler/internal/domain/schedule"
	"fitting-scheduler/internal/infra"
	"fitting-scheduler/internal/notify"
	"fitting-scheduler/internal/pkg/clock"
	"fitting-scheduler/internal/pkg/errs"
	"fitting-scheduler/internal/usecase/queries"
	"fitting-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrSlotAlreadyBooked = errs.New("slot already booked")
	ErrSlotInPast        = errs.New("slot start is in the past")
)

type ReserveRequest struct {
	SlotID   uuid.UUID
	Products json.RawMessage
}

type ReserveResult struct {
	Schedule *queries.ScheduleView
}

type BookingCommands interface {
	// Reserve books a slot for the customer. Under concurrent attempts on the
	// same slot exactly one caller wins; the rest get ErrSlotAlreadyBooked.
	Reserve(ctx context.Context, customerID uuid.UUID, req ReserveRequest) (*ReserveResult, error)
}

type bookingUseCaseImpl struct {
	uow          shared.UnitOfWork
	scheduleRepo queries.ScheduleViewRepo
	dispatcher   notify.Dispatcher
	clock        clock.Clock
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	scheduleRepo queries.ScheduleViewRepo,
	dispatcher notify.Dispatcher,
	clk clock.Clock,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:          uow,
		scheduleRepo: scheduleRepo,
		dispatcher:   dispatcher,
		clock:        clk,
	}
}

func (uc *bookingUseCaseImpl) Reserve(ctx context.Context, customerID uuid.UUID, req ReserveRequest) (*ReserveResult, error) {
	products := req.Products
	if len(products) == 0 {
		products = json.RawMessage(`[]`)
	}

	var (
		created     *schedule.Schedule
		slotSnap    *shared.SlotSnapshot
		autoConfirm bool
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := tx.Reads().SlotByID(ctx, req.SlotID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return errs.Mark(derr, ErrSlotNotFound)
			}
			return derr
		}
		if !snap.StartsAt.After(uc.clock.Now()) {
			return ErrSlotInPast
		}

		// Compare-and-set on is_booked settles the race: only the first
		// committed writer sees a row flip.
		acquired, derr := tx.Slots().Acquire(ctx, req.SlotID)
		if derr != nil {
			return derr
		}
		if !acquired {
			return ErrSlotAlreadyBooked
		}

		created = schedule.NewSchedule(req.SlotID, customerID, products)
		if derr := tx.Schedules().Create(ctx, created); derr != nil {
			if infra.IsKind(derr, infra.KindDuplicateKey) {
				return errs.Mark(derr, ErrSlotAlreadyBooked)
			}
			return derr
		}

		slotSnap = snap
		autoConfirm = snap.AutoConfirm
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch(ctx, notify.Event{
		Kind:       notify.KindBookingCreated,
		OccurredAt: uc.clock.Now(),
		Payload: map[string]any{
			"schedule_id": created.ID(),
			"slot_id":     slotSnap.ID,
			"owner_id":    slotSnap.OwnerID,
			"customer_id": customerID,
			"starts_at":   slotSnap.StartsAt,
		},
	})
	if !autoConfirm {
		uc.dispatcher.Dispatch(ctx, notify.Event{
			Kind:       notify.KindApprovalRequested,
			OccurredAt: uc.clock.Now(),
			Payload: map[string]any{
				"schedule_id": created.ID(),
				"owner_id":    slotSnap.OwnerID,
			},
		})
	}

	view, err := uc.scheduleRepo.FindByID(ctx, created.ID())
	if err != nil {
		return nil, err
	}
	return &ReserveResult{Schedule: view}, nil
}
