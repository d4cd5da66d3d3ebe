package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SlotFilter narrows slot listings. Zero-value time bounds are open ended.
type SlotFilter struct {
	OwnerID       uuid.UUID
	From          time.Time
	To            time.Time
	OnlyAvailable bool
}

type SlotQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SlotView, error)
	List(ctx context.Context, filter SlotFilter) ([]*SlotView, error)
}

type SlotViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SlotView, error)
	FindByFilter(ctx context.Context, filter SlotFilter) ([]*SlotView, error)
}

type slotQueriesImpl struct {
	repo SlotViewRepo
}

func NewSlotQueries(repo SlotViewRepo) SlotQueries {
	return &slotQueriesImpl{repo: repo}
}

func (q *slotQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*SlotView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *slotQueriesImpl) List(ctx context.Context, filter SlotFilter) ([]*SlotView, error) {
	return q.repo.FindByFilter(ctx, filter)
}
