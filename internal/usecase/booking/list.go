package booking

import (
	"context"

	domain "github.com/BruksfildServices01/tutor-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

// Execute scopes the filter to the actor: students see their own bookings,
// teachers their own lessons, admins everything.
func (uc *ListBookings) Execute(
	ctx context.Context,
	actor domain.Actor,
	f domain.Filter,
) ([]models.Booking, int64, error) {

	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, httperr.ErrBusiness("invalid_status")
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return nil, 0, httperr.ErrBusiness("invalid_interval")
	}

	switch actor.Role {
	case models.RoleStudent:
		f.StudentID = actor.UserID
		f.TeacherID = 0
	case models.RoleTeacher:
		f.TeacherID = actor.UserID
		f.StudentID = 0
	}

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > maxLimit {
		f.Limit = defaultLimit
	}

	return uc.repo.ListBookings(ctx, f)
}
