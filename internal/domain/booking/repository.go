package booking

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
)

var ErrNotFound = errors.New("record not found")

// Filter narrows booking listings. Zero values mean "any".
type Filter struct {
	TeacherID uint
	StudentID uint
	Status    Status
	From      *time.Time
	To        *time.Time

	Page  int
	Limit int
}

func (f Filter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

type Repository interface {
	TeacherStore
	AvailabilityStore
	BookingStore

	// -------- Teacher --------
	GetTeacherProfile(
		ctx context.Context,
		teacherID uint,
	) (*models.TeacherProfile, error)

	// -------- Booking --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	GetBooking(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	// GetBookingForUpdate row-locks the booking until the transaction ends.
	GetBookingForUpdate(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	ListBookings(
		ctx context.Context,
		f Filter,
	) ([]models.Booking, int64, error)

	// -------- Transaction --------

	// WithTeacherLock runs fn inside one transaction that holds the teacher's
	// advisory lock. All reads and writes through the repository passed to fn
	// share that transaction.
	WithTeacherLock(
		ctx context.Context,
		teacherID uint,
		fn func(tx Repository) error,
	) error
}
