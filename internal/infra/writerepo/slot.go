package writerepo

import (
	"context"
	"time"

	"fitting-scheduler/internal/domain/slot"
	"fitting-scheduler/internal/infra"
	"fitting-scheduler/internal/infra/db"
	"fitting-scheduler/internal/infra/psql"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type SlotRepository struct {
	db db.Executor
}

func NewSlotRepository(ex db.Executor) *SlotRepository {
	return &SlotRepository{db: ex}
}

// Insert relies on ON CONFLICT DO NOTHING against the (owner_id, starts_at)
// unique constraint. Zero rows affected means the instant was already
// materialized (booked or not) and must be left alone.
func (r *SlotRepository) Insert(ctx context.Context, s *slot.Slot) (bool, error) {
	query, args, err := psql.Insert("fitting_slots").
		Columns("id", "owner_id", "starts_at", "duration_min", "is_booked", "is_auto_confirm").
		Values(s.ID(), s.OwnerID(), s.StartsAt(), s.DurationMin(), s.IsBooked(), s.AutoConfirm()).
		Suffix("ON CONFLICT (owner_id, starts_at) DO NOTHING").
		ToSql()
	if err != nil {
		return false, infra.WrapRepoErr("failed to build slot insert", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, infra.WrapRepoErr("failed to insert slot", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Acquire is the compare-and-set half of a reservation: only one concurrent
// writer can observe is_booked = false and flip it.
func (r *SlotRepository) Acquire(ctx context.Context, id uuid.UUID) (bool, error) {
	query, args, err := psql.Update("fitting_slots").
		Set("is_booked", true).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "is_booked": false}).
		ToSql()
	if err != nil {
		return false, infra.WrapRepoErr("failed to build slot acquire", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, infra.WrapRepoErr("failed to acquire slot", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *SlotRepository) Release(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Update("fitting_slots").
		Set("is_booked", false).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build slot release", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to release slot", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *SlotRepository) UpdateUnbooked(ctx context.Context, id uuid.UUID, startsAt time.Time, autoConfirm bool) (bool, error) {
	query, args, err := psql.Update("fitting_slots").
		Set("starts_at", startsAt).
		Set("is_auto_confirm", autoConfirm).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "is_booked": false}).
		ToSql()
	if err != nil {
		return false, infra.WrapRepoErr("failed to build slot update", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return false, infra.WrapRepoErr("slot time already taken", err, infra.KindDuplicateKey)
		}
		return false, infra.WrapRepoErr("failed to update slot", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *SlotRepository) DeleteUnbooked(ctx context.Context, id uuid.UUID) (bool, error) {
	query, args, err := psql.Delete("fitting_slots").
		Where(squirrel.Eq{"id": id, "is_booked": false}).
		ToSql()
	if err != nil {
		return false, infra.WrapRepoErr("failed to build slot delete", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, infra.WrapRepoErr("failed to delete slot", err)
	}
	return tag.RowsAffected() == 1, nil
}
