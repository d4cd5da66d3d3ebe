package commands

import (
	"context"
	"log/slog"
	"time"

	"fitting-scheduler/internal/domain/slot"
	"fitting-scheduler/internal/infra"
	"fitting-scheduler/internal/pkg/clock"
	"fitting-scheduler/internal/pkg/errs"
	"fitting-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrSettingsNotFound = errs.New("owner settings not found")

type MaterializeResult struct {
	CreatedCount int
	FailedDays   []string
}

type MaterializeCommands interface {
	// Materialize expands the owner's enabled templates over [from, to] into
	// concrete slots. Re-running over an overlapping range is a no-op for
	// instants that already exist.
	Materialize(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (*MaterializeResult, error)
	// MaterializeHorizon runs Materialize for every configured owner from
	// today through today+days. Used by the periodic worker.
	MaterializeHorizon(ctx context.Context, days int) error
}

// OwnerDirectory lists the owners eligible for periodic materialization.
type OwnerDirectory interface {
	ListOwnerIDs(ctx context.Context) ([]uuid.UUID, error)
}

type materializeUseCaseImpl struct {
	uow    shared.UnitOfWork
	owners OwnerDirectory
	clock  clock.Clock
}

func NewMaterializeUseCase(uow shared.UnitOfWork, owners OwnerDirectory, clk clock.Clock) MaterializeCommands {
	return &materializeUseCaseImpl{uow: uow, owners: owners, clock: clk}
}

func (uc *materializeUseCaseImpl) Materialize(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (*MaterializeResult, error) {
	settings, err := uc.uow.Reads().SettingsByOwner(ctx, ownerID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrSettingsNotFound)
		}
		return nil, err
	}

	templates, err := uc.uow.Reads().ActiveTemplates(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	candidates, err := slot.ExpandRange(templates, from, to, settings.AppointmentMinutes, now)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	// One transaction per calendar day: a failure materializing one day must
	// not roll back or block the others.
	result := &MaterializeResult{}
	for day, dayCandidates := range groupByDay(candidates) {
		created, derr := uc.materializeDay(ctx, ownerID, dayCandidates, settings.AutoConfirm, now)
		if derr != nil {
			slog.Warn("failed to materialize day, skipping",
				"owner_id", ownerID,
				"day", day,
				"error", derr.Error())
			result.FailedDays = append(result.FailedDays, day)
			continue
		}
		result.CreatedCount += created
	}
	return result, nil
}

func (uc *materializeUseCaseImpl) materializeDay(ctx context.Context, ownerID uuid.UUID, candidates []slot.Candidate, autoConfirm bool, now time.Time) (int, error) {
	var created int
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created = 0
		for _, c := range candidates {
			s, derr := slot.NewSlot(ownerID, c.StartsAt, c.DurationMin, autoConfirm, now)
			if derr != nil {
				return derr
			}
			inserted, derr := tx.Slots().Insert(ctx, s)
			if derr != nil {
				return derr
			}
			if inserted {
				created++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (uc *materializeUseCaseImpl) MaterializeHorizon(ctx context.Context, days int) error {
	ownerIDs, err := uc.owners.ListOwnerIDs(ctx)
	if err != nil {
		return err
	}

	from := uc.clock.Now()
	to := from.AddDate(0, 0, days)
	for _, ownerID := range ownerIDs {
		result, merr := uc.Materialize(ctx, ownerID, from, to)
		if merr != nil {
			slog.Warn("horizon materialization failed for owner",
				"owner_id", ownerID,
				"error", merr.Error())
			continue
		}
		if result.CreatedCount > 0 || len(result.FailedDays) > 0 {
			slog.Info("horizon materialization finished for owner",
				"owner_id", ownerID,
				"created", result.CreatedCount,
				"failed_days", len(result.FailedDays))
		}
	}
	return nil
}

func groupByDay(candidates []slot.Candidate) map[string][]slot.Candidate {
	byDay := make(map[string][]slot.Candidate)
	for _, c := range candidates {
		day := c.StartsAt.Format(time.DateOnly)
		byDay[day] = append(byDay[day], c)
	}
	return byDay
}
