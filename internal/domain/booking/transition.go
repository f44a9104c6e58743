package booking

import (
	"time"

	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
)

// Actor is the authenticated user driving a status change.
type Actor struct {
	UserID uint
	Role   models.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

type edge struct {
	from Status
	to   Status
}

// allowed maps each non-admin transition to the roles that may perform it.
var allowed = map[edge][]models.Role{
	{StatusPending, StatusConfirmed}:   {models.RoleTeacher},
	{StatusPending, StatusCancelled}:   {models.RoleStudent, models.RoleTeacher},
	{StatusConfirmed, StatusCancelled}: {models.RoleStudent, models.RoleTeacher},
	{StatusConfirmed, StatusCompleted}: {models.RoleTeacher},
	{StatusConfirmed, StatusNoShow}:    {models.RoleTeacher},
}

// CanTransition validates a status change for the actor. Ownership of the
// booking is checked separately by Authorize.
func CanTransition(actor Actor, from, to Status) error {
	if !to.Valid() {
		return httperr.ErrBusiness("invalid_status")
	}
	if from == to {
		return httperr.ErrBusiness("invalid_transition")
	}
	if actor.IsAdmin() {
		return nil
	}

	roles, ok := allowed[edge{from, to}]
	if !ok {
		return httperr.ErrBusiness("invalid_transition")
	}
	for _, r := range roles {
		if r == actor.Role {
			return nil
		}
	}
	return httperr.ErrBusiness("forbidden_transition")
}

// Authorize checks that a non-admin actor is a party of the booking.
func Authorize(actor Actor, b *models.Booking) error {
	if actor.IsAdmin() {
		return nil
	}
	switch actor.Role {
	case models.RoleStudent:
		if b.StudentID == actor.UserID {
			return nil
		}
	case models.RoleTeacher:
		if b.TeacherID == actor.UserID {
			return nil
		}
	}
	return httperr.ErrBusiness("booking_not_found")
}

// ===============================
// Domain Actions
// ===============================

// Apply moves the booking to status to and stamps the matching timestamp.
func Apply(b *models.Booking, actor Actor, to Status, now time.Time) error {
	if err := Authorize(actor, b); err != nil {
		return err
	}
	if err := CanTransition(actor, Status(b.Status), to); err != nil {
		return err
	}

	b.Status = string(to)
	switch to {
	case StatusConfirmed:
		b.ConfirmedAt = &now
	case StatusCancelled:
		b.CancelledAt = &now
		b.CancelledBy = &actor.UserID
	case StatusCompleted:
		b.CompletedAt = &now
	}
	return nil
}

// Reactivates reports whether moving from -> to puts a freed slot back in use.
func Reactivates(from, to Status) bool {
	return !from.IsActive() && to.IsActive()
}
