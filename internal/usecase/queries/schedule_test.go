//go:build unit

package queries_test

import (
	"context"
	"testing"

	"fitting-scheduler/internal/domain/user"
	"fitting-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScheduleViewRepo struct {
	view *queries.ScheduleView
}

func (s *stubScheduleViewRepo) FindByID(_ context.Context, _ uuid.UUID) (*queries.ScheduleView, error) {
	return s.view, nil
}

func (s *stubScheduleViewRepo) FindByCustomer(_ context.Context, _ uuid.UUID) ([]*queries.ScheduleListItem, error) {
	return nil, nil
}

func (s *stubScheduleViewRepo) FindByOwner(_ context.Context, _ uuid.UUID) ([]*queries.ScheduleListItem, error) {
	return nil, nil
}

func TestScheduleGetByID(t *testing.T) {
	ownerID := uuid.New()
	customerID := uuid.New()
	view := &queries.ScheduleView{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		CustomerID: customerID,
	}
	q := queries.NewScheduleQueries(&stubScheduleViewRepo{view: view})
	ctx := context.Background()

	tests := []struct {
		name  string
		actor queries.Actor
		errIs error
	}{
		{name: "booking customer", actor: queries.Actor{ID: customerID, Role: user.RoleCustomer}},
		{name: "slot owner", actor: queries.Actor{ID: ownerID, Role: user.RoleOwner}},
		{name: "admin", actor: queries.Actor{ID: uuid.New(), Role: user.RoleAdmin}},
		{name: "other customer", actor: queries.Actor{ID: uuid.New(), Role: user.RoleCustomer}, errIs: queries.ErrAccessDenied},
		{name: "other owner", actor: queries.Actor{ID: uuid.New(), Role: user.RoleOwner}, errIs: queries.ErrAccessDenied},
		{name: "unknown role", actor: queries.Actor{ID: customerID, Role: user.Role("guest")}, errIs: queries.ErrAccessDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := q.GetByID(ctx, tt.actor, view.ID)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, view, got)
		})
	}
}
