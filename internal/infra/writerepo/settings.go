package writerepo

import (
	"context"

	"fitting-scheduler/internal/domain/owner"
	"fitting-scheduler/internal/infra"
	"fitting-scheduler/internal/infra/db"
	"fitting-scheduler/internal/infra/psql"
)

type SettingsRepository struct {
	db db.Executor
}

func NewSettingsRepository(ex db.Executor) *SettingsRepository {
	return &SettingsRepository{db: ex}
}

func (r *SettingsRepository) Upsert(ctx context.Context, s *owner.Settings) error {
	query, args, err := psql.Insert("owner_settings").
		Columns("owner_id", "appointment_duration_min", "auto_confirm").
		Values(s.OwnerID(), s.AppointmentMinutes(), s.AutoConfirm()).
		Suffix(`ON CONFLICT (owner_id) DO UPDATE
			SET appointment_duration_min = EXCLUDED.appointment_duration_min,
			    auto_confirm = EXCLUDED.auto_confirm,
			    updated_at = now()`).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build settings upsert", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to upsert owner settings", err)
	}
	return nil
}
