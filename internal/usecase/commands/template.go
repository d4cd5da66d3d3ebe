package commands

import (
	"context"

	"fitting-scheduler/internal/domain/availability"
	"fitting-scheduler/internal/infra"
	"fitting-scheduler/internal/pkg/errs"
	"fitting-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrTemplateNotFound     = errs.New("template not found")
	ErrTemplateNotOwned     = errs.New("template not owned by actor")
	ErrDuplicateTemplateDay = errs.New("template already exists for this day")
)

type UpsertTemplateRequest struct {
	DayOfWeek int
	Enabled   bool
	StartMin  int
	EndMin    int
}

type TemplateCommands interface {
	CreateTemplate(ctx context.Context, ownerID uuid.UUID, req UpsertTemplateRequest) (uuid.UUID, error)
	UpdateTemplate(ctx context.Context, ownerID, templateID uuid.UUID, req UpsertTemplateRequest) error
	DeleteTemplate(ctx context.Context, ownerID, templateID uuid.UUID) error
}

type templateUseCaseImpl struct {
	uow shared.UnitOfWork
}

func NewTemplateUseCase(uow shared.UnitOfWork) TemplateCommands {
	return &templateUseCaseImpl{uow: uow}
}

func (uc *templateUseCaseImpl) CreateTemplate(ctx context.Context, ownerID uuid.UUID, req UpsertTemplateRequest) (uuid.UUID, error) {
	tpl, err := availability.NewTemplate(ownerID, req.DayOfWeek, req.Enabled, req.StartMin, req.EndMin)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	var createdID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, derr := tx.Templates().Create(ctx, tpl)
		if derr != nil {
			return derr
		}
		createdID = id
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, errs.Mark(err, ErrDuplicateTemplateDay)
		}
		return uuid.Nil, err
	}
	return createdID, nil
}

func (uc *templateUseCaseImpl) UpdateTemplate(ctx context.Context, ownerID, templateID uuid.UUID, req UpsertTemplateRequest) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, derr := tx.Reads().TemplateByID(ctx, templateID)
		if derr != nil {
			return derr
		}
		if current.OwnerID() != ownerID {
			return ErrTemplateNotOwned
		}

		tpl, derr := availability.NewTemplate(ownerID, req.DayOfWeek, req.Enabled, req.StartMin, req.EndMin)
		if derr != nil {
			return errs.Mark(derr, ErrDomainValidation)
		}
		updated := availability.ReconstructTemplate(
			templateID, ownerID, int(tpl.DayOfWeek()), tpl.Enabled(), tpl.StartMinute(), tpl.EndMinute(),
			current.CreatedAt(), current.UpdatedAt(),
		)
		return tx.Templates().Update(ctx, updated)
	})
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return errs.Mark(err, ErrTemplateNotFound)
		case infra.IsKind(err, infra.KindDuplicateKey):
			return errs.Mark(err, ErrDuplicateTemplateDay)
		}
		return err
	}
	return nil
}

func (uc *templateUseCaseImpl) DeleteTemplate(ctx context.Context, ownerID, templateID uuid.UUID) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, derr := tx.Reads().TemplateByID(ctx, templateID)
		if derr != nil {
			return derr
		}
		if current.OwnerID() != ownerID {
			return ErrTemplateNotOwned
		}
		return tx.Templates().SoftDelete(ctx, templateID)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrTemplateNotFound)
		}
		return err
	}
	return nil
}
