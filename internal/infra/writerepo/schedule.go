package writerepo

import (
	"context"

	"fitting-scheduler/internal/domain/schedule"
	"fitting-scheduler/internal/infra"
	"fitting-scheduler/internal/infra/db"
	"fitting-scheduler/internal/infra/psql"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type ScheduleRepository struct {
	db db.Executor
}

func NewScheduleRepository(ex db.Executor) *ScheduleRepository {
	return &ScheduleRepository{db: ex}
}

// Create inserts a new booking row. The partial unique index on
// (slot_id) WHERE status <> 'CANCELLED' is the storage-level backstop for
// the one-active-schedule-per-slot invariant; the slot CAS should already
// have serialized writers before we get here.
func (r *ScheduleRepository) Create(ctx context.Context, s *schedule.Schedule) error {
	query, args, err := psql.Insert("fitting_schedules").
		Columns("id", "slot_id", "customer_id", "status", "products").
		Values(s.ID(), s.SlotID(), s.CustomerID(), s.Status().String(), []byte(s.Products())).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build schedule insert", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("slot already has an active schedule", err, infra.KindDuplicateKey)
		}
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("slot not found", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create schedule", err)
	}
	return nil
}

func (r *ScheduleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status schedule.Status) error {
	query, args, err := psql.Update("fitting_schedules").
		Set("status", status.String()).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build schedule status update", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update schedule status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("schedule not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ScheduleRepository) MoveToSlot(ctx context.Context, id, newSlotID uuid.UUID) error {
	query, args, err := psql.Update("fitting_schedules").
		Set("slot_id", newSlotID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build schedule move", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("new slot already has an active schedule", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to move schedule", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("schedule not found", nil, infra.KindNotFound)
	}
	return nil
}
