package commands

import (
	"context"

	"fitting-scheduler/internal/domain/owner"
	"fitting-scheduler/internal/pkg/errs"
	"fitting-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

// ErrDomainValidation marks input rejected by domain rules, shared by all
// commands in this package.
var ErrDomainValidation = errs.New("domain validation error")

type UpdateSettingsRequest struct {
	AppointmentDurationMin int
	AutoConfirm            bool
}

type SettingsCommands interface {
	UpdateSettings(ctx context.Context, ownerID uuid.UUID, req UpdateSettingsRequest) error
}

type settingsUseCaseImpl struct {
	uow shared.UnitOfWork
}

func NewSettingsUseCase(uow shared.UnitOfWork) SettingsCommands {
	return &settingsUseCaseImpl{uow: uow}
}

// UpdateSettings upserts the owner's booking policy. A duration change only
// affects future materialization runs; existing slots keep the duration they
// were cut with.
func (uc *settingsUseCaseImpl) UpdateSettings(ctx context.Context, ownerID uuid.UUID, req UpdateSettingsRequest) error {
	s, err := owner.NewSettings(ownerID, req.AppointmentDurationMin, req.AutoConfirm)
	if err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Settings().Upsert(ctx, s)
	})
}
