package commands

import (
	"context"
	"errors"

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
	ErrScheduleNotFound    = errs.New("schedule not found")
	ErrTransitionForbidden = errs.New("actor may not perform this transition")
	ErrInvalidTransition   = errs.New("invalid status transition")
	ErrSlotOwnerMismatch   = errs.New("new slot belongs to a different owner")
)

type ScheduleCommands interface {
	// ChangeStatus drives the booking through its lifecycle. Cancelling
	// releases the slot in the same transaction, so it becomes bookable again
	// the moment the cancellation is visible.
	ChangeStatus(ctx context.Context, actor queries.Actor, scheduleID uuid.UUID, to schedule.Status) error
	// Reschedule atomically moves the booking to another unbooked future slot
	// of the same owner.
	Reschedule(ctx context.Context, actor queries.Actor, scheduleID, newSlotID uuid.UUID) (*queries.ScheduleView, error)
}

type scheduleUseCaseImpl struct {
	uow          shared.UnitOfWork
	scheduleRepo queries.ScheduleViewRepo
	dispatcher   notify.Dispatcher
	clock        clock.Clock
}

func NewScheduleUseCase(
	uow shared.UnitOfWork,
	scheduleRepo queries.ScheduleViewRepo,
	dispatcher notify.Dispatcher,
	clk clock.Clock,
) ScheduleCommands {
	return &scheduleUseCaseImpl{
		uow:          uow,
		scheduleRepo: scheduleRepo,
		dispatcher:   dispatcher,
		clock:        clk,
	}
}

func (uc *scheduleUseCaseImpl) ChangeStatus(ctx context.Context, actor queries.Actor, scheduleID uuid.UUID, to schedule.Status) error {
	var (
		from    schedule.Status
		ownerID uuid.UUID
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, slotSnap, derr := uc.loadSchedule(ctx, tx, scheduleID)
		if derr != nil {
			return derr
		}

		rel := relationshipOf(actor, snap, slotSnap)
		if derr := schedule.Authorize(actor.Role, rel, snap.Status, to); derr != nil {
			return markAuthError(derr)
		}

		if derr := tx.Schedules().UpdateStatus(ctx, scheduleID, to); derr != nil {
			return derr
		}
		if to == schedule.StatusCancelled {
			if derr := tx.Slots().Release(ctx, snap.SlotID); derr != nil {
				return derr
			}
		}

		from = snap.Status
		ownerID = slotSnap.OwnerID
		return nil
	})
	if err != nil {
		return err
	}

	uc.dispatcher.Dispatch(ctx, notify.Event{
		Kind:       notify.KindScheduleStatusChanged,
		OccurredAt: uc.clock.Now(),
		Payload: map[string]any{
			"schedule_id": scheduleID,
			"owner_id":    ownerID,
			"from":        from.String(),
			"to":          to.String(),
		},
	})
	return nil
}

func (uc *scheduleUseCaseImpl) Reschedule(ctx context.Context, actor queries.Actor, scheduleID, newSlotID uuid.UUID) (*queries.ScheduleView, error) {
	var oldSlotID uuid.UUID
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, slotSnap, derr := uc.loadSchedule(ctx, tx, scheduleID)
		if derr != nil {
			return derr
		}

		rel := relationshipOf(actor, snap, slotSnap)
		if derr := schedule.AuthorizeReschedule(actor.Role, rel, snap.Status); derr != nil {
			return markAuthError(derr)
		}

		newSlot, derr := tx.Reads().SlotByID(ctx, newSlotID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return errs.Mark(derr, ErrSlotNotFound)
			}
			return derr
		}
		if newSlot.OwnerID != slotSnap.OwnerID {
			return ErrSlotOwnerMismatch
		}
		if !newSlot.StartsAt.After(uc.clock.Now()) {
			return ErrSlotInPast
		}

		// Acquire new, release old, repoint. All inside one transaction so an
		// observer never sees the booking detached or double-held.
		acquired, derr := tx.Slots().Acquire(ctx, newSlotID)
		if derr != nil {
			return derr
		}
		if !acquired {
			return ErrSlotAlreadyBooked
		}
		if derr := tx.Slots().Release(ctx, snap.SlotID); derr != nil {
			return derr
		}
		if derr := tx.Schedules().MoveToSlot(ctx, scheduleID, newSlotID); derr != nil {
			if infra.IsKind(derr, infra.KindDuplicateKey) {
				return errs.Mark(derr, ErrSlotAlreadyBooked)
			}
			return derr
		}

		oldSlotID = snap.SlotID
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch(ctx, notify.Event{
		Kind:       notify.KindScheduleRescheduled,
		OccurredAt: uc.clock.Now(),
		Payload: map[string]any{
			"schedule_id": scheduleID,
			"old_slot_id": oldSlotID,
			"new_slot_id": newSlotID,
		},
	})

	return uc.scheduleRepo.FindByID(ctx, scheduleID)
}

func (uc *scheduleUseCaseImpl) loadSchedule(ctx context.Context, tx shared.Tx, scheduleID uuid.UUID) (*shared.ScheduleSnapshot, *shared.SlotSnapshot, error) {
	snap, err := tx.Reads().ScheduleByID(ctx, scheduleID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, errs.Mark(err, ErrScheduleNotFound)
		}
		return nil, nil, err
	}
	slotSnap, err := tx.Reads().SlotByID(ctx, snap.SlotID)
	if err != nil {
		return nil, nil, err
	}
	return snap, slotSnap, nil
}

func relationshipOf(actor queries.Actor, snap *shared.ScheduleSnapshot, slotSnap *shared.SlotSnapshot) schedule.Relationship {
	switch actor.ID {
	case snap.CustomerID:
		return schedule.RelationCustomer
	case slotSnap.OwnerID:
		return schedule.RelationOwner
	default:
		return schedule.RelationNone
	}
}

func markAuthError(err error) error {
	switch {
	case errors.Is(err, schedule.ErrForbidden):
		return errs.Mark(err, ErrTransitionForbidden)
	default:
		return errs.Mark(err, ErrInvalidTransition)
	}
}
