//go:build unit

package schedule_test

import (
	"testing"

	"fitting-scheduler/internal/domain/schedule"
	"fitting-scheduler/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from schedule.Status
		to   schedule.Status
		want bool
	}{
		{"scheduled to in progress", schedule.StatusScheduled, schedule.StatusInProgress, true},
		{"scheduled to cancelled", schedule.StatusScheduled, schedule.StatusCancelled, true},
		{"scheduled to completed skips in progress", schedule.StatusScheduled, schedule.StatusCompleted, false},
		{"in progress to completed", schedule.StatusInProgress, schedule.StatusCompleted, true},
		{"in progress to cancelled", schedule.StatusInProgress, schedule.StatusCancelled, true},
		{"in progress back to scheduled", schedule.StatusInProgress, schedule.StatusScheduled, false},
		{"completed is terminal", schedule.StatusCompleted, schedule.StatusCancelled, false},
		{"cancelled is terminal", schedule.StatusCancelled, schedule.StatusScheduled, false},
		{"self transition", schedule.StatusScheduled, schedule.StatusScheduled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, schedule.CanTransition(tt.from, tt.to))
		})
	}
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name  string
		role  user.Role
		rel   schedule.Relationship
		from  schedule.Status
		to    schedule.Status
		errIs error
	}{
		{name: "customer cancels own scheduled booking", role: user.RoleCustomer, rel: schedule.RelationCustomer, from: schedule.StatusScheduled, to: schedule.StatusCancelled},
		{name: "customer cannot cancel once in progress", role: user.RoleCustomer, rel: schedule.RelationCustomer, from: schedule.StatusInProgress, to: schedule.StatusCancelled, errIs: schedule.ErrForbidden},
		{name: "customer cannot cancel someone else's booking", role: user.RoleCustomer, rel: schedule.RelationNone, from: schedule.StatusScheduled, to: schedule.StatusCancelled, errIs: schedule.ErrForbidden},
		{name: "customer cannot start the appointment", role: user.RoleCustomer, rel: schedule.RelationCustomer, from: schedule.StatusScheduled, to: schedule.StatusInProgress, errIs: schedule.ErrForbidden},

		{name: "owner starts the appointment", role: user.RoleOwner, rel: schedule.RelationOwner, from: schedule.StatusScheduled, to: schedule.StatusInProgress},
		{name: "owner completes a running appointment", role: user.RoleOwner, rel: schedule.RelationOwner, from: schedule.StatusInProgress, to: schedule.StatusCompleted},
		{name: "owner cancels a running appointment", role: user.RoleOwner, rel: schedule.RelationOwner, from: schedule.StatusInProgress, to: schedule.StatusCancelled},
		{name: "owner cannot complete without starting", role: user.RoleOwner, rel: schedule.RelationOwner, from: schedule.StatusScheduled, to: schedule.StatusCompleted, errIs: schedule.ErrInvalidTransition},
		{name: "unrelated owner is forbidden", role: user.RoleOwner, rel: schedule.RelationNone, from: schedule.StatusScheduled, to: schedule.StatusInProgress, errIs: schedule.ErrForbidden},

		{name: "admin acts without relationship", role: user.RoleAdmin, rel: schedule.RelationNone, from: schedule.StatusScheduled, to: schedule.StatusInProgress},
		{name: "admin cancels in progress", role: user.RoleAdmin, rel: schedule.RelationNone, from: schedule.StatusInProgress, to: schedule.StatusCancelled},
		{name: "admin still bound to the machine", role: user.RoleAdmin, rel: schedule.RelationNone, from: schedule.StatusScheduled, to: schedule.StatusCompleted, errIs: schedule.ErrInvalidTransition},

		{name: "terminal source rejected before policy", role: user.RoleAdmin, rel: schedule.RelationNone, from: schedule.StatusCompleted, to: schedule.StatusCancelled, errIs: schedule.ErrInvalidTransition},
		{name: "unknown target status", role: user.RoleAdmin, rel: schedule.RelationNone, from: schedule.StatusScheduled, to: schedule.Status("PAUSED"), errIs: schedule.ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schedule.Authorize(tt.role, tt.rel, tt.from, tt.to)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthorizeReschedule(t *testing.T) {
	t.Run("mirrors cancellation rights", func(t *testing.T) {
		assert.NoError(t, schedule.AuthorizeReschedule(user.RoleCustomer, schedule.RelationCustomer, schedule.StatusScheduled))
		assert.ErrorIs(t,
			schedule.AuthorizeReschedule(user.RoleCustomer, schedule.RelationCustomer, schedule.StatusInProgress),
			schedule.ErrForbidden)
		assert.NoError(t, schedule.AuthorizeReschedule(user.RoleOwner, schedule.RelationOwner, schedule.StatusInProgress))
		assert.ErrorIs(t,
			schedule.AuthorizeReschedule(user.RoleOwner, schedule.RelationOwner, schedule.StatusCompleted),
			schedule.ErrInvalidTransition)
	})
}

func TestScheduleTransition(t *testing.T) {
	t.Run("bookings start scheduled", func(t *testing.T) {
		s := schedule.NewSchedule(uuid.New(), uuid.New(), nil)
		assert.Equal(t, schedule.StatusScheduled, s.Status())
		assert.True(t, s.IsActive())
	})

	t.Run("terminal statuses freeze the booking", func(t *testing.T) {
		s := schedule.NewSchedule(uuid.New(), uuid.New(), nil)
		assert.NoError(t, s.Transition(schedule.StatusInProgress))
		assert.NoError(t, s.Transition(schedule.StatusCompleted))
		assert.ErrorIs(t, s.Transition(schedule.StatusCancelled), schedule.ErrInvalidTransition)
		assert.ErrorIs(t, s.MoveToSlot(uuid.New()), schedule.ErrInvalidTransition)
	})
}
