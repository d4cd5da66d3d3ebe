package readstore

import (
	"context"

	"fitting-scheduler/internal/infra"
	"fitting-scheduler/internal/infra/db"
	"fitting-scheduler/internal/infra/psql"
	"fitting-scheduler/internal/usecase/queries"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type ScheduleReadStore struct {
	db db.Executor
}

func NewScheduleReadStore(ex db.Executor) *ScheduleReadStore {
	return &ScheduleReadStore{db: ex}
}

func (r *ScheduleReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ScheduleView, error) {
	query, args, err := psql.Select(
		"s.id", "s.slot_id", "sl.owner_id", "s.customer_id",
		"sl.starts_at", "sl.duration_min", "s.status", "s.products",
		"s.created_at", "s.updated_at",
	).
		From("fitting_schedules s").
		Join("fitting_slots sl ON sl.id = s.slot_id").
		Where(squirrel.Eq{"s.id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build schedule query", err)
	}

	var v queries.ScheduleView
	row := r.db.QueryRow(ctx, query, args...)
	if err := row.Scan(
		&v.ID, &v.SlotID, &v.OwnerID, &v.CustomerID,
		&v.StartsAt, &v.DurationMin, &v.Status, &v.Products,
		&v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("schedule not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find schedule by ID", err)
	}
	return &v, nil
}

func (r *ScheduleReadStore) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*queries.ScheduleListItem, error) {
	return r.list(ctx, squirrel.Eq{"s.customer_id": customerID})
}

func (r *ScheduleReadStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*queries.ScheduleListItem, error) {
	return r.list(ctx, squirrel.Eq{"sl.owner_id": ownerID})
}

func (r *ScheduleReadStore) list(ctx context.Context, cond squirrel.Eq) ([]*queries.ScheduleListItem, error) {
	query, args, err := psql.Select(
		"s.id", "s.slot_id", "sl.owner_id", "s.customer_id", "sl.starts_at", "s.status", "s.created_at",
	).
		From("fitting_schedules s").
		Join("fitting_slots sl ON sl.id = s.slot_id").
		Where(cond).
		OrderBy("sl.starts_at DESC", "s.id ASC").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build schedule list query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list schedules", err)
	}
	defer rows.Close()

	var result []*queries.ScheduleListItem
	for rows.Next() {
		var v queries.ScheduleListItem
		if err := rows.Scan(&v.ID, &v.SlotID, &v.OwnerID, &v.CustomerID, &v.StartsAt, &v.Status, &v.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan schedule row", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate schedule rows", err)
	}
	return result, nil
}
