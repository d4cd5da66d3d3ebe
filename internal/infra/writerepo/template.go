package writerepo

import (
	"context"

	"fitting-scheduler/internal/domain/availability"
	"fitting-scheduler/internal/infra"
	"fitting-scheduler/internal/infra/db"
	"fitting-scheduler/internal/infra/psql"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type TemplateRepository struct {
	db db.Executor
}

func NewTemplateRepository(ex db.Executor) *TemplateRepository {
	return &TemplateRepository{db: ex}
}

func (r *TemplateRepository) Create(ctx context.Context, t *availability.Template) (uuid.UUID, error) {
	query, args, err := psql.Insert("weekly_templates").
		Columns("id", "owner_id", "day_of_week", "is_enabled", "start_min", "end_min").
		Values(t.ID(), t.OwnerID(), int(t.DayOfWeek()), t.Enabled(), t.StartMinute(), t.EndMinute()).
		ToSql()
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to build template insert", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("template already exists for this day", err, infra.KindDuplicateKey)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create template", err)
	}
	return t.ID(), nil
}

func (r *TemplateRepository) Update(ctx context.Context, t *availability.Template) error {
	query, args, err := psql.Update("weekly_templates").
		Set("day_of_week", int(t.DayOfWeek())).
		Set("is_enabled", t.Enabled()).
		Set("start_min", t.StartMinute()).
		Set("end_min", t.EndMinute()).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": t.ID()}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build template update", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("template already exists for this day", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to update template", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("template not found", nil, infra.KindNotFound)
	}
	return nil
}

// SoftDelete tombstones the template; reads filter on deleted_at explicitly.
func (r *TemplateRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Update("weekly_templates").
		Set("deleted_at", squirrel.Expr("now()")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build template soft delete", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to soft delete template", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("template not found", nil, infra.KindNotFound)
	}
	return nil
}
