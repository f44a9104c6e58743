package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/BruksfildServices01/tutor-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/tutor-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
	"github.com/BruksfildServices01/tutor-marketplace/internal/notify"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	TeacherID uint
	StudentID uint

	Start time.Time
	End   time.Time
	Notes string
}

// Policy bounds what a student may request. Zero values disable a bound.
type Policy struct {
	MinAdvance  time.Duration
	MaxDuration time.Duration
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	loc      *time.Location
	policy   Policy
	audit    Auditor
	notifier Notifier
	metrics  Observer
	now      func() time.Time
}

func NewCreateBooking(
	repo domain.Repository,
	loc *time.Location,
	policy Policy,
	audit Auditor,
	notifier Notifier,
	metrics Observer,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		loc:      loc,
		policy:   policy,
		audit:    audit,
		notifier: notifier,
		metrics:  metrics,
		now:      time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1. Request shape
	// --------------------------------------------------
	if !in.Start.Before(in.End) {
		return nil, httperr.ErrBusiness("invalid_interval")
	}
	if uc.policy.MaxDuration > 0 && in.End.Sub(in.Start) > uc.policy.MaxDuration {
		return nil, httperr.ErrBusiness("duration_too_long")
	}
	if in.Start.Before(uc.now().Add(uc.policy.MinAdvance)) {
		return nil, httperr.ErrBusiness("too_soon")
	}
	if in.StudentID == in.TeacherID {
		return nil, httperr.ErrBusiness("cannot_book_self")
	}

	// --------------------------------------------------
	// 2. Check + insert under the teacher lock
	// --------------------------------------------------
	var created *models.Booking

	err := uc.repo.WithTeacherLock(ctx, in.TeacherID, func(tx domain.Repository) error {
		res, err := domain.NewResolver(tx, tx, tx, uc.loc).
			CheckAvailability(ctx, in.TeacherID, in.Start, in.End)
		if err != nil {
			uc.metrics.ObserveAvailability("error")
			return err
		}
		uc.metrics.ObserveAvailability(res.String())
		if !res.OK() {
			return ReasonError(res.Reason)
		}

		price, currency, err := quote(ctx, tx, in)
		if err != nil {
			return err
		}

		b := &models.Booking{
			TeacherID:     in.TeacherID,
			StudentID:     in.StudentID,
			StartTime:     in.Start,
			EndTime:       in.End,
			Status:        string(domain.InitialStatus()),
			PaymentStatus: string(domain.PaymentUnpaid),
			Price:         price,
			Currency:      currency,
			Notes:         in.Notes,
		}

		if err := tx.CreateBooking(ctx, b); err != nil {
			if httperr.IsExclusionConflict(err) {
				return ReasonError(domain.ReasonSlotTaken)
			}
			return fmt.Errorf("insert booking: %w", err)
		}

		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Side effects
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.StudentID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &created.ID,
		Metadata: map[string]any{
			"teacher_id": in.TeacherID,
			"start":      in.Start,
			"end":        in.End,
		},
	})

	full, err := uc.repo.GetBooking(ctx, created.ID)
	if err != nil {
		return created, nil
	}

	uc.notifier.Notify(notify.Event{
		Type:           notify.BookingRequested,
		RecipientID:    full.TeacherID,
		RecipientEmail: full.Teacher.Email,
		RecipientName:  full.Teacher.Name,
		BookingID:      full.ID,
		Data: map[string]string{
			"student": full.Student.Name,
			"start":   full.StartTime.In(uc.loc).Format(time.RFC3339),
			"end":     full.EndTime.In(uc.loc).Format(time.RFC3339),
		},
	})

	return full, nil
}

// quote prices the lesson from the teacher's hourly rate. A teacher without a
// profile yet is booked at zero.
func quote(ctx context.Context, repo domain.Repository, in CreateBookingInput) (float64, string, error) {
	profile, err := repo.GetTeacherProfile(ctx, in.TeacherID)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, "", nil
	}
	if err != nil {
		return 0, "", fmt.Errorf("load teacher profile: %w", err)
	}

	hours := in.End.Sub(in.Start).Hours()
	return math.Round(profile.HourlyRate*hours*100) / 100, profile.Currency, nil
}
