package readstore

import (
	"context"
	"time"

	"fitting-scheduler/internal/infra"
	"fitting-scheduler/internal/infra/db"
	"fitting-scheduler/internal/infra/psql"
	"fitting-scheduler/internal/usecase/queries"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var slotColumns = []string{
	"id", "owner_id", "starts_at", "duration_min", "is_booked", "is_auto_confirm", "created_at",
}

type SlotReadStore struct {
	db db.Executor
}

func NewSlotReadStore(ex db.Executor) *SlotReadStore {
	return &SlotReadStore{db: ex}
}

func (r *SlotReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.SlotView, error) {
	query, args, err := psql.Select(slotColumns...).
		From("fitting_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build slot query", err)
	}

	v, err := scanSlot(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find slot by ID", err)
	}
	return v, nil
}

func (r *SlotReadStore) FindByFilter(ctx context.Context, filter queries.SlotFilter) ([]*queries.SlotView, error) {
	b := psql.Select(slotColumns...).
		From("fitting_slots").
		Where(squirrel.Eq{"owner_id": filter.OwnerID}).
		OrderBy("starts_at ASC")
	if !filter.From.IsZero() {
		b = b.Where(squirrel.GtOrEq{"starts_at": filter.From})
	}
	if !filter.To.IsZero() {
		b = b.Where(squirrel.Lt{"starts_at": filter.To})
	}
	if filter.OnlyAvailable {
		b = b.Where(squirrel.Eq{"is_booked": false})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build slot list query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list slots", err)
	}
	defer rows.Close()

	var result []*queries.SlotView
	for rows.Next() {
		v, err := scanSlot(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan slot row", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate slot rows", err)
	}
	return result, nil
}

func scanSlot(row rowScanner) (*queries.SlotView, error) {
	var v queries.SlotView
	if err := row.Scan(
		&v.ID, &v.OwnerID, &v.StartsAt, &v.DurationMin, &v.IsBooked, &v.AutoConfirm, &v.CreatedAt,
	); err != nil {
		return nil, err
	}
	v.EndsAt = v.StartsAt.Add(time.Duration(v.DurationMin) * time.Minute)
	return &v, nil
}
