package commands

import (
	"context"
	"time"

	"fitting-scheduler/internal/domain/slot"
	"fitting-scheduler/internal/infra"
	"fitting-scheduler/internal/pkg/clock"
	"fitting-scheduler/internal/pkg/errs"
	"fitting-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrSlotNotFound  = errs.New("slot not found")
	ErrSlotNotOwned  = errs.New("slot not owned by actor")
	ErrSlotImmutable = errs.New("slot is booked and cannot be changed")
	ErrSlotTimeTaken = errs.New("slot time already taken")
)

type CreateSlotRequest struct {
	StartsAt time.Time
	// AutoConfirm overrides the owner's default policy when set.
	AutoConfirm *bool
}

type UpdateSlotRequest struct {
	StartsAt    time.Time
	AutoConfirm *bool
}

type SlotCommands interface {
	CreateSlot(ctx context.Context, ownerID uuid.UUID, req CreateSlotRequest) (uuid.UUID, error)
	UpdateSlot(ctx context.Context, ownerID, slotID uuid.UUID, req UpdateSlotRequest) error
	DeleteSlot(ctx context.Context, ownerID, slotID uuid.UUID) error
}

type slotUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewSlotUseCase(uow shared.UnitOfWork, clk clock.Clock) SlotCommands {
	return &slotUseCaseImpl{uow: uow, clock: clk}
}

// CreateSlot adds a single ad-hoc slot outside the weekly template flow.
func (uc *slotUseCaseImpl) CreateSlot(ctx context.Context, ownerID uuid.UUID, req CreateSlotRequest) (uuid.UUID, error) {
	settings, err := uc.uow.Reads().SettingsByOwner(ctx, ownerID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return uuid.Nil, errs.Mark(err, ErrSettingsNotFound)
		}
		return uuid.Nil, err
	}

	autoConfirm := settings.AutoConfirm
	if req.AutoConfirm != nil {
		autoConfirm = *req.AutoConfirm
	}

	s, err := slot.NewSlot(ownerID, req.StartsAt, settings.AppointmentMinutes, autoConfirm, uc.clock.Now())
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		inserted, derr := tx.Slots().Insert(ctx, s)
		if derr != nil {
			return derr
		}
		if !inserted {
			return ErrSlotTimeTaken
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return s.ID(), nil
}

func (uc *slotUseCaseImpl) UpdateSlot(ctx context.Context, ownerID, slotID uuid.UUID, req UpdateSlotRequest) error {
	if !req.StartsAt.After(uc.clock.Now()) {
		return errs.Mark(slot.ErrStartInPast, ErrDomainValidation)
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := uc.ownedMutableSlot(ctx, tx, ownerID, slotID)
		if derr != nil {
			return derr
		}

		autoConfirm := snap.AutoConfirm
		if req.AutoConfirm != nil {
			autoConfirm = *req.AutoConfirm
		}

		updated, derr := tx.Slots().UpdateUnbooked(ctx, slotID, req.StartsAt.UTC(), autoConfirm)
		if derr != nil {
			if infra.IsKind(derr, infra.KindDuplicateKey) {
				return errs.Mark(derr, ErrSlotTimeTaken)
			}
			return derr
		}
		if !updated {
			// Booked between the read and the guarded update.
			return ErrSlotImmutable
		}
		return nil
	})
}

func (uc *slotUseCaseImpl) DeleteSlot(ctx context.Context, ownerID, slotID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, derr := uc.ownedMutableSlot(ctx, tx, ownerID, slotID); derr != nil {
			return derr
		}

		deleted, derr := tx.Slots().DeleteUnbooked(ctx, slotID)
		if derr != nil {
			return derr
		}
		if !deleted {
			return ErrSlotImmutable
		}
		return nil
	})
}

func (uc *slotUseCaseImpl) ownedMutableSlot(ctx context.Context, tx shared.Tx, ownerID, slotID uuid.UUID) (*shared.SlotSnapshot, error) {
	snap, err := tx.Reads().SlotByID(ctx, slotID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrSlotNotFound)
		}
		return nil, err
	}
	if snap.OwnerID != ownerID {
		return nil, ErrSlotNotOwned
	}
	if snap.IsBooked {
		return nil, ErrSlotImmutable
	}
	return snap, nil
}
