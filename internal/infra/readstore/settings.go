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

type SettingsReadStore struct {
	db db.Executor
}

func NewSettingsReadStore(ex db.Executor) *SettingsReadStore {
	return &SettingsReadStore{db: ex}
}

func (r *SettingsReadStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*queries.SettingsView, error) {
	query, args, err := psql.Select(
		"owner_id", "appointment_duration_min", "auto_confirm", "created_at", "updated_at",
	).
		From("owner_settings").
		Where(squirrel.Eq{"owner_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build settings query", err)
	}

	var v queries.SettingsView
	row := r.db.QueryRow(ctx, query, args...)
	if err := row.Scan(&v.OwnerID, &v.AppointmentDurationMin, &v.AutoConfirm, &v.CreatedAt, &v.UpdatedAt); err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("owner settings not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find owner settings", err)
	}
	return &v, nil
}

// ListOwnerIDs returns every owner with settings, which is the set the
// periodic materializer walks.
func (r *SettingsReadStore) ListOwnerIDs(ctx context.Context) ([]uuid.UUID, error) {
	query, args, err := psql.Select("owner_id").
		From("owner_settings").
		OrderBy("owner_id ASC").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build owner list query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list owners", err)
	}
	defer rows.Close()

	var result []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan owner row", err)
		}
		result = append(result, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate owner rows", err)
	}
	return result, nil
}
