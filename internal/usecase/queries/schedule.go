package queries

import (
	"context"

	"fitting-scheduler/internal/domain/user"

	"github.com/google/uuid"
)

// Actor identifies who is asking on the read side.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

type ScheduleQueries interface {
	GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*ScheduleView, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*ScheduleListItem, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*ScheduleListItem, error)
}

type ScheduleViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ScheduleView, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*ScheduleListItem, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*ScheduleListItem, error)
}

type scheduleQueriesImpl struct {
	repo ScheduleViewRepo
}

func NewScheduleQueries(repo ScheduleViewRepo) ScheduleQueries {
	return &scheduleQueriesImpl{repo: repo}
}

// GetByID hides other people's bookings: a customer sees only their own, an
// owner only those against their slots, an admin everything.
func (q *scheduleQueriesImpl) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*ScheduleView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case user.RoleAdmin:
	case user.RoleOwner:
		if view.OwnerID != actor.ID {
			return nil, ErrAccessDenied
		}
	case user.RoleCustomer:
		if view.CustomerID != actor.ID {
			return nil, ErrAccessDenied
		}
	default:
		return nil, ErrAccessDenied
	}
	return view, nil
}

func (q *scheduleQueriesImpl) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*ScheduleListItem, error) {
	return q.repo.FindByCustomer(ctx, customerID)
}

func (q *scheduleQueriesImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*ScheduleListItem, error) {
	return q.repo.FindByOwner(ctx, ownerID)
}
