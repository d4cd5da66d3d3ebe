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

var templateColumns = []string{
	"id", "owner_id", "day_of_week", "is_enabled", "start_min", "end_min", "created_at", "updated_at",
}

type TemplateReadStore struct {
	db db.Executor
}

func NewTemplateReadStore(ex db.Executor) *TemplateReadStore {
	return &TemplateReadStore{db: ex}
}

func (r *TemplateReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.TemplateView, error) {
	query, args, err := psql.Select(templateColumns...).
		From("weekly_templates").
		Where(squirrel.Eq{"id": id}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build template query", err)
	}

	v, err := scanTemplate(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("template not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find template by ID", err)
	}
	return v, nil
}

func (r *TemplateReadStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*queries.TemplateView, error) {
	query, args, err := psql.Select(templateColumns...).
		From("weekly_templates").
		Where(squirrel.Eq{"owner_id": ownerID}).
		Where("deleted_at IS NULL").
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build template list query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list templates", err)
	}
	defer rows.Close()

	var result []*queries.TemplateView
	for rows.Next() {
		v, err := scanTemplate(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan template row", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate template rows", err)
	}
	return result, nil
}

// FindEnabledByOwner returns the templates that participate in slot
// materialization: enabled and not soft-deleted.
func (r *TemplateReadStore) FindEnabledByOwner(ctx context.Context, ownerID uuid.UUID) ([]*queries.TemplateView, error) {
	query, args, err := psql.Select(templateColumns...).
		From("weekly_templates").
		Where(squirrel.Eq{"owner_id": ownerID, "is_enabled": true}).
		Where("deleted_at IS NULL").
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build enabled template query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list enabled templates", err)
	}
	defer rows.Close()

	var result []*queries.TemplateView
	for rows.Next() {
		v, err := scanTemplate(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan template row", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate template rows", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*queries.TemplateView, error) {
	var v queries.TemplateView
	if err := row.Scan(
		&v.ID, &v.OwnerID, &v.DayOfWeek, &v.Enabled, &v.StartMin, &v.EndMin, &v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}
