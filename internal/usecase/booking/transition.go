package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/tutor-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/tutor-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
	"github.com/BruksfildServices01/tutor-marketplace/internal/notify"
)

type TransitionBookingInput struct {
	BookingID uint
	Actor     domain.Actor
	To        domain.Status
}

type TransitionBooking struct {
	repo     domain.Repository
	audit    Auditor
	notifier Notifier
	now      func() time.Time
}

func NewTransitionBooking(
	repo domain.Repository,
	audit Auditor,
	notifier Notifier,
) *TransitionBooking {
	return &TransitionBooking{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		now:      time.Now,
	}
}

var transitionEvents = map[domain.Status]notify.EventType{
	domain.StatusPending:   notify.BookingReopened,
	domain.StatusConfirmed: notify.BookingConfirmed,
	domain.StatusCancelled: notify.BookingCancelled,
	domain.StatusCompleted: notify.BookingCompleted,
	domain.StatusNoShow:    notify.BookingNoShow,
}

func (uc *TransitionBooking) Execute(
	ctx context.Context,
	in TransitionBookingInput,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, in.BookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("booking_not_found")
		}
		return nil, err
	}

	from := domain.Status(b.Status)

	if err := domain.Authorize(in.Actor, b); err != nil {
		return nil, err
	}
	if err := domain.CanTransition(in.Actor, from, in.To); err != nil {
		return nil, err
	}

	if domain.Reactivates(from, in.To) {
		err = uc.reactivate(ctx, b, in)
	} else {
		err = uc.apply(ctx, b, in)
	}
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.Actor.UserID,
		Action:   "booking_" + string(in.To),
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"from": from, "to": in.To},
	})
	uc.notifyParties(b, in.Actor, in.To)

	return b, nil
}

func (uc *TransitionBooking) apply(ctx context.Context, b *models.Booking, in TransitionBookingInput) error {
	if err := domain.Apply(b, in.Actor, in.To, uc.now()); err != nil {
		return err
	}
	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	return nil
}

// reactivate puts a freed booking back into an active status. The slot may
// have been taken meanwhile, so overlap is re-checked under the teacher lock.
func (uc *TransitionBooking) reactivate(ctx context.Context, b *models.Booking, in TransitionBookingInput) error {
	return uc.repo.WithTeacherLock(ctx, b.TeacherID, func(tx domain.Repository) error {
		locked, err := tx.GetBookingForUpdate(ctx, b.ID)
		if err != nil {
			return err
		}
		if locked.Status != b.Status {
			return httperr.ErrBusiness("invalid_transition")
		}

		active, err := tx.ListActiveBookings(ctx, b.TeacherID, domain.ActiveStatuses())
		if err != nil {
			return fmt.Errorf("list active bookings: %w", err)
		}
		for _, other := range active {
			if other.BookingID != b.ID && other.Overlaps(b.StartTime, b.EndTime) {
				return ReasonError(domain.ReasonSlotTaken)
			}
		}

		if err := domain.Apply(b, in.Actor, in.To, uc.now()); err != nil {
			return err
		}
		if err := tx.UpdateBooking(ctx, b); err != nil {
			if httperr.IsExclusionConflict(err) {
				return ReasonError(domain.ReasonSlotTaken)
			}
			return fmt.Errorf("update booking: %w", err)
		}
		return nil
	})
}

// notifyParties tells the other side of the booking; an admin action reaches
// both.
func (uc *TransitionBooking) notifyParties(b *models.Booking, actor domain.Actor, to domain.Status) {
	evType, ok := transitionEvents[to]
	if !ok {
		return
	}

	var recipients []models.User
	switch {
	case actor.IsAdmin():
		recipients = []models.User{b.Student, b.Teacher}
	case actor.UserID == b.StudentID:
		recipients = []models.User{b.Teacher}
	default:
		recipients = []models.User{b.Student}
	}

	for _, u := range recipients {
		if u.ID == 0 {
			continue
		}
		uc.notifier.Notify(notify.Event{
			Type:           evType,
			RecipientID:    u.ID,
			RecipientEmail: u.Email,
			RecipientName:  u.Name,
			BookingID:      b.ID,
			Data:           map[string]string{"status": string(to)},
		})
	}
}
