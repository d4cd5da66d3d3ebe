package schedule

import (
	"errors"

	"fitting-scheduler/internal/domain/user"
)

var ErrForbidden = errors.New("actor is not allowed to perform this transition")

// Relationship is the actor's relationship to the booking being acted on.
type Relationship string

const (
	RelationCustomer Relationship = "customer" // actor is the booking's customer
	RelationOwner    Relationship = "owner"    // actor owns the booked slot
	RelationNone     Relationship = "none"
	// RelationAny is a wildcard used only in policy rows.
	RelationAny Relationship = "*"
)

type policyRule struct {
	Target Status
	Role   user.Role
	Rel    Relationship
}

// transitionPolicy is the single authorization table for status changes,
// keyed by (target status, actor role, relationship). The value lists the
// source statuses the transition may be driven from. Everything not listed
// is Forbidden; the status machine's own edges are checked before this.
var transitionPolicy = map[policyRule][]Status{
	// A customer may cancel their own booking, and only before it starts.
	{StatusCancelled, user.RoleCustomer, RelationCustomer}: {StatusScheduled},

	// The slot's owner runs the appointment lifecycle.
	{StatusInProgress, user.RoleOwner, RelationOwner}: {StatusScheduled},
	{StatusCompleted, user.RoleOwner, RelationOwner}:  {StatusInProgress},
	{StatusCancelled, user.RoleOwner, RelationOwner}:  {StatusScheduled, StatusInProgress},

	// Admins act with owner-equivalent rights regardless of relationship.
	{StatusInProgress, user.RoleAdmin, RelationAny}: {StatusScheduled},
	{StatusCompleted, user.RoleAdmin, RelationAny}:  {StatusInProgress},
	{StatusCancelled, user.RoleAdmin, RelationAny}:  {StatusScheduled, StatusInProgress},
}

// Authorize checks a proposed transition for an actor. Machine violations
// (terminal source, missing edge) surface as ErrInvalidTransition; actors the
// policy table does not permit get ErrForbidden.
func Authorize(role user.Role, rel Relationship, from, to Status) error {
	if !to.IsValid() {
		return ErrInvalidStatus
	}
	if from.IsTerminal() || !CanTransition(from, to) {
		return ErrInvalidTransition
	}

	sources, ok := transitionPolicy[policyRule{to, role, rel}]
	if !ok {
		sources, ok = transitionPolicy[policyRule{to, role, RelationAny}]
	}
	if !ok {
		return ErrForbidden
	}
	for _, s := range sources {
		if s == from {
			return nil
		}
	}
	return ErrForbidden
}

// AuthorizeReschedule mirrors the cancellation rules: whoever could cancel
// the booking from its current status may move it to another slot.
func AuthorizeReschedule(role user.Role, rel Relationship, from Status) error {
	return Authorize(role, rel, from, StatusCancelled)
}
