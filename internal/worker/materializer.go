// Package worker hosts background jobs driven by cron schedules.
package worker

import (
	"context"
	"log/slog"
	"time"

	"fitting-scheduler/internal/pkg/config"
	"fitting-scheduler/internal/pkg/errs"
	"fitting-scheduler/internal/usecase/commands"

	"github.com/robfig/cron/v3"
)

const runTimeout = 10 * time.Minute

// Materializer keeps every owner's bookable horizon filled by periodically
// expanding weekly templates into slots. HTTP-triggered materialization and
// this job are idempotent against each other.
type Materializer struct {
	cron *cron.Cron
	cmds commands.MaterializeCommands
	cfg  config.MaterializerConfig
}

func NewMaterializer(cmds commands.MaterializeCommands, cfg config.Config) *Materializer {
	return &Materializer{
		cron: cron.New(),
		cmds: cmds,
		cfg:  cfg.Materializer,
	}
}

func (m *Materializer) Start() error {
	if m.cfg.Schedule == "" {
		slog.Info("periodic materializer disabled")
		return nil
	}

	if _, err := m.cron.AddFunc(m.cfg.Schedule, m.run); err != nil {
		return errs.Wrap(err, "invalid materializer schedule")
	}
	m.cron.Start()
	slog.Info("periodic materializer started",
		"schedule", m.cfg.Schedule,
		"horizon_days", m.cfg.HorizonDays)
	return nil
}

func (m *Materializer) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

func (m *Materializer) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := m.cmds.MaterializeHorizon(ctx, m.cfg.HorizonDays); err != nil {
		slog.Error("periodic materialization run failed", "error", err.Error())
	}
}
