package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"fitting-scheduler/internal/domain/availability"
	"fitting-scheduler/internal/domain/schedule"
	"fitting-scheduler/internal/infra/db"
	"fitting-scheduler/internal/infra/readstore"
	"fitting-scheduler/internal/infra/writerepo"
	"fitting-scheduler/internal/pkg/errs"
	"fitting-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes; the
// slot compare-and-set does not need a stronger isolation level.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

func (u *PostgresUoW) Reads() shared.CommandReads {
	return &commandReads{db: u.pool}
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{db: pgxTx}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Fallback to a simple calculation if crypto/rand fails
		return 0
	}
	// Safe conversion: mask high bit to ensure positive int64
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	db db.Executor

	// Lazy-initialized repositories
	settingsRepo shared.SettingsRepository
	templateRepo shared.TemplateRepository
	slotRepo     shared.SlotRepository
	scheduleRepo shared.ScheduleRepository
	reads        shared.CommandReads
}

func (t *pgTx) Settings() shared.SettingsRepository {
	if t.settingsRepo == nil {
		t.settingsRepo = writerepo.NewSettingsRepository(t.db)
	}
	return t.settingsRepo
}

func (t *pgTx) Templates() shared.TemplateRepository {
	if t.templateRepo == nil {
		t.templateRepo = writerepo.NewTemplateRepository(t.db)
	}
	return t.templateRepo
}

func (t *pgTx) Slots() shared.SlotRepository {
	if t.slotRepo == nil {
		t.slotRepo = writerepo.NewSlotRepository(t.db)
	}
	return t.slotRepo
}

func (t *pgTx) Schedules() shared.ScheduleRepository {
	if t.scheduleRepo == nil {
		t.scheduleRepo = writerepo.NewScheduleRepository(t.db)
	}
	return t.scheduleRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.reads == nil {
		t.reads = &commandReads{db: t.db}
	}
	return t.reads
}

type commandReads struct {
	db db.Executor

	// Lazy-initialized readstores
	settingsStore *readstore.SettingsReadStore
	templateStore *readstore.TemplateReadStore
	slotStore     *readstore.SlotReadStore
	scheduleStore *readstore.ScheduleReadStore
}

func (r *commandReads) SettingsByOwner(ctx context.Context, ownerID uuid.UUID) (*shared.SettingsSnapshot, error) {
	if r.settingsStore == nil {
		r.settingsStore = readstore.NewSettingsReadStore(r.db)
	}

	view, err := r.settingsStore.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return &shared.SettingsSnapshot{
		OwnerID:            view.OwnerID,
		AppointmentMinutes: view.AppointmentDurationMin,
		AutoConfirm:        view.AutoConfirm,
	}, nil
}

func (r *commandReads) ActiveTemplates(ctx context.Context, ownerID uuid.UUID) ([]*availability.Template, error) {
	if r.templateStore == nil {
		r.templateStore = readstore.NewTemplateReadStore(r.db)
	}

	views, err := r.templateStore.FindEnabledByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	result := make([]*availability.Template, len(views))
	for i, v := range views {
		result[i] = availability.ReconstructTemplate(
			v.ID, v.OwnerID, v.DayOfWeek, v.Enabled, v.StartMin, v.EndMin, v.CreatedAt, v.UpdatedAt,
		)
	}
	return result, nil
}

func (r *commandReads) TemplateByID(ctx context.Context, id uuid.UUID) (*availability.Template, error) {
	if r.templateStore == nil {
		r.templateStore = readstore.NewTemplateReadStore(r.db)
	}

	v, err := r.templateStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return availability.ReconstructTemplate(
		v.ID, v.OwnerID, v.DayOfWeek, v.Enabled, v.StartMin, v.EndMin, v.CreatedAt, v.UpdatedAt,
	), nil
}

func (r *commandReads) SlotByID(ctx context.Context, id uuid.UUID) (*shared.SlotSnapshot, error) {
	if r.slotStore == nil {
		r.slotStore = readstore.NewSlotReadStore(r.db)
	}

	view, err := r.slotStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &shared.SlotSnapshot{
		ID:          view.ID,
		OwnerID:     view.OwnerID,
		StartsAt:    view.StartsAt,
		DurationMin: view.DurationMin,
		IsBooked:    view.IsBooked,
		AutoConfirm: view.AutoConfirm,
	}, nil
}

func (r *commandReads) ScheduleByID(ctx context.Context, id uuid.UUID) (*shared.ScheduleSnapshot, error) {
	if r.scheduleStore == nil {
		r.scheduleStore = readstore.NewScheduleReadStore(r.db)
	}

	view, err := r.scheduleStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &shared.ScheduleSnapshot{
		ID:         view.ID,
		SlotID:     view.SlotID,
		CustomerID: view.CustomerID,
		Status:     schedule.Status(view.Status),
	}, nil
}
