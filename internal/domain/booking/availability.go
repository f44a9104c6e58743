package booking

import (
	"context"
	"fmt"
	"time"
)

// Window is one recurring weekly slot of a teacher.
type Window struct {
	TeacherID   uint
	DayOfWeek   int // 0=Sunday .. 6=Saturday
	Start       TimeOfDay
	End         TimeOfDay
	IsAvailable bool
}

// Contains reports whether [start, end) lies inside the window anchored to
// the date of start in loc. Exact boundary matches are contained.
func (w Window) Contains(start, end time.Time, loc *time.Location) bool {
	ws := w.Start.On(start, loc)
	we := w.End.On(start, loc)
	return !start.Before(ws) && !end.After(we)
}

// Interval is the occupied span of an existing booking.
type Interval struct {
	BookingID uint
	Start     time.Time
	End       time.Time
}

// Overlaps uses half-open semantics: touching endpoints do not overlap.
func (i Interval) Overlaps(start, end time.Time) bool {
	return start.Before(i.End) && end.After(i.Start)
}

type TeacherStore interface {
	TeacherExists(ctx context.Context, teacherID uint) (bool, error)
}

type AvailabilityStore interface {
	ListWindows(ctx context.Context, teacherID uint, dayOfWeek int) ([]Window, error)
}

type BookingStore interface {
	ListActiveBookings(ctx context.Context, teacherID uint, statuses []Status) ([]Interval, error)
}

// ===============================
// Result
// ===============================

type Reason string

const (
	ReasonNotFound              Reason = "teacher_not_found"
	ReasonNoAvailabilityThisDay Reason = "no_availability_this_day"
	ReasonOutsideAvailability   Reason = "outside_availability"
	ReasonSlotTaken             Reason = "slot_taken"
)

// Result is either OK (empty Reason) or exactly one rejection reason.
type Result struct {
	Reason Reason
}

func (r Result) OK() bool {
	return r.Reason == ""
}

func (r Result) String() string {
	if r.OK() {
		return "ok"
	}
	return string(r.Reason)
}

func reject(reason Reason) Result {
	return Result{Reason: reason}
}

// ===============================
// Resolver
// ===============================

type Resolver struct {
	teachers TeacherStore
	windows  AvailabilityStore
	bookings BookingStore
	loc      *time.Location
}

// NewResolver builds a resolver that interprets weekdays and window times in
// loc (the server location). A nil loc means time.Local.
func NewResolver(
	teachers TeacherStore,
	windows AvailabilityStore,
	bookings BookingStore,
	loc *time.Location,
) *Resolver {
	if loc == nil {
		loc = time.Local
	}
	return &Resolver{
		teachers: teachers,
		windows:  windows,
		bookings: bookings,
		loc:      loc,
	}
}

func (r *Resolver) Location() *time.Location {
	return r.loc
}

// CheckAvailability decides whether the teacher is free for exactly
// [start, end). The caller guarantees start < end. A non-nil error is always
// an infrastructure failure; domain rejections come back in the Result.
func (r *Resolver) CheckAvailability(
	ctx context.Context,
	teacherID uint,
	start time.Time,
	end time.Time,
) (Result, error) {

	exists, err := r.teachers.TeacherExists(ctx, teacherID)
	if err != nil {
		return Result{}, fmt.Errorf("lookup teacher %d: %w", teacherID, err)
	}
	if !exists {
		return reject(ReasonNotFound), nil
	}

	weekday := int(start.In(r.loc).Weekday())

	windows, err := r.windows.ListWindows(ctx, teacherID, weekday)
	if err != nil {
		return Result{}, fmt.Errorf("list windows for teacher %d: %w", teacherID, err)
	}
	if len(windows) == 0 {
		return reject(ReasonNoAvailabilityThisDay), nil
	}

	contained := false
	for _, w := range windows {
		if w.IsAvailable && w.Contains(start, end, r.loc) {
			contained = true
			break
		}
	}
	if !contained {
		return reject(ReasonOutsideAvailability), nil
	}

	active, err := r.bookings.ListActiveBookings(ctx, teacherID, ActiveStatuses())
	if err != nil {
		return Result{}, fmt.Errorf("list bookings for teacher %d: %w", teacherID, err)
	}
	for _, b := range active {
		if b.Overlaps(start, end) {
			return reject(ReasonSlotTaken), nil
		}
	}

	return Result{}, nil
}
