package queries

import (
	"context"

	"github.com/google/uuid"
)

type OwnerQueries interface {
	GetSettings(ctx context.Context, ownerID uuid.UUID) (*SettingsView, error)
	ListTemplates(ctx context.Context, ownerID uuid.UUID) ([]*TemplateView, error)
}

type SettingsViewRepo interface {
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*SettingsView, error)
}

type TemplateViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TemplateView, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*TemplateView, error)
}

type ownerQueriesImpl struct {
	settings  SettingsViewRepo
	templates TemplateViewRepo
}

func NewOwnerQueries(settings SettingsViewRepo, templates TemplateViewRepo) OwnerQueries {
	return &ownerQueriesImpl{settings: settings, templates: templates}
}

func (q *ownerQueriesImpl) GetSettings(ctx context.Context, ownerID uuid.UUID) (*SettingsView, error) {
	return q.settings.FindByOwner(ctx, ownerID)
}

func (q *ownerQueriesImpl) ListTemplates(ctx context.Context, ownerID uuid.UUID) ([]*TemplateView, error) {
	return q.templates.FindByOwner(ctx, ownerID)
}
