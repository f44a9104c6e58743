package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teacherID uint = 7

type storedBooking struct {
	status   Status
	interval Interval
}

type memStore struct {
	teachers map[uint]bool
	windows  []Window
	bookings []storedBooking

	teacherErr error
	windowErr  error
	bookingErr error

	windowCalls  int
	bookingCalls int
}

func (m *memStore) TeacherExists(ctx context.Context, id uint) (bool, error) {
	if m.teacherErr != nil {
		return false, m.teacherErr
	}
	return m.teachers[id], nil
}

func (m *memStore) ListWindows(ctx context.Context, id uint, dayOfWeek int) ([]Window, error) {
	m.windowCalls++
	if m.windowErr != nil {
		return nil, m.windowErr
	}
	var out []Window
	for _, w := range m.windows {
		if w.TeacherID == id && w.DayOfWeek == dayOfWeek {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *memStore) ListActiveBookings(ctx context.Context, id uint, statuses []Status) ([]Interval, error) {
	m.bookingCalls++
	if m.bookingErr != nil {
		return nil, m.bookingErr
	}
	var out []Interval
	for _, b := range m.bookings {
		for _, s := range statuses {
			if b.status == s {
				out = append(out, b.interval)
			}
		}
	}
	return out, nil
}

func newStore() *memStore {
	return &memStore{
		teachers: map[uint]bool{teacherID: true},
		windows: []Window{
			{TeacherID: teacherID, DayOfWeek: 1, Start: MustTimeOfDay("09:00"), End: MustTimeOfDay("17:00"), IsAvailable: true},
		},
	}
}

func (m *memStore) resolver() *Resolver {
	return NewResolver(m, m, m, time.UTC)
}

// 2026-10-12 is a Monday, 2026-10-13 a Tuesday.
func monday(hour, minute int) time.Time {
	return time.Date(2026, 10, 12, hour, minute, 0, 0, time.UTC)
}

func tuesday(hour, minute int) time.Time {
	return time.Date(2026, 10, 13, hour, minute, 0, 0, time.UTC)
}

func booked(status Status, start, end time.Time) storedBooking {
	return storedBooking{status: status, interval: Interval{BookingID: 1, Start: start, End: end}}
}

func check(t *testing.T, s *memStore, start, end time.Time) Result {
	t.Helper()
	res, err := s.resolver().CheckAvailability(context.Background(), teacherID, start, end)
	require.NoError(t, err)
	return res
}

func TestCheckAvailability_InsideWindowIsOK(t *testing.T) {
	res := check(t, newStore(), monday(10, 0), monday(11, 0))
	assert.True(t, res.OK())
	assert.Equal(t, "ok", res.String())
}

func TestCheckAvailability_BeforeWindowStart(t *testing.T) {
	res := check(t, newStore(), monday(8, 0), monday(9, 0))
	assert.Equal(t, ReasonOutsideAvailability, res.Reason)
}

func TestCheckAvailability_ExactlyFillsWindow(t *testing.T) {
	res := check(t, newStore(), monday(9, 0), monday(17, 0))
	assert.True(t, res.OK())
}

func TestCheckAvailability_PastWindowEnd(t *testing.T) {
	res := check(t, newStore(), monday(16, 30), monday(17, 30))
	assert.Equal(t, ReasonOutsideAvailability, res.Reason)
}

func TestCheckAvailability_NoWindowsThatDay(t *testing.T) {
	s := newStore()
	res := check(t, s, tuesday(10, 0), tuesday(11, 0))
	assert.Equal(t, ReasonNoAvailabilityThisDay, res.Reason)
	assert.Zero(t, s.bookingCalls)
}

func TestCheckAvailability_UnknownTeacher(t *testing.T) {
	s := newStore()
	res, err := s.resolver().CheckAvailability(context.Background(), 99, monday(10, 0), monday(11, 0))
	require.NoError(t, err)
	assert.Equal(t, ReasonNotFound, res.Reason)
	assert.Zero(t, s.windowCalls)
}

func TestCheckAvailability_UnavailableWindowNeverContains(t *testing.T) {
	s := newStore()
	s.windows = []Window{
		{TeacherID: teacherID, DayOfWeek: 1, Start: MustTimeOfDay("09:00"), End: MustTimeOfDay("17:00"), IsAvailable: false},
	}
	res := check(t, s, monday(10, 0), monday(11, 0))
	assert.Equal(t, ReasonOutsideAvailability, res.Reason)
}

func TestCheckAvailability_StraddlingAdjacentWindowsIsRejected(t *testing.T) {
	s := newStore()
	s.windows = []Window{
		{TeacherID: teacherID, DayOfWeek: 1, Start: MustTimeOfDay("09:00"), End: MustTimeOfDay("12:00"), IsAvailable: true},
		{TeacherID: teacherID, DayOfWeek: 1, Start: MustTimeOfDay("12:00"), End: MustTimeOfDay("15:00"), IsAvailable: true},
	}

	assert.Equal(t, ReasonOutsideAvailability, check(t, s, monday(11, 30), monday(12, 30)).Reason)
	assert.True(t, check(t, s, monday(12, 0), monday(13, 0)).OK())
	assert.True(t, check(t, s, monday(11, 0), monday(12, 0)).OK())
}

func TestCheckAvailability_OverlapWithActiveBookings(t *testing.T) {
	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"partial from the right", monday(10, 30), monday(11, 30)},
		{"partial from the left", monday(9, 30), monday(10, 30)},
		{"exact match", monday(10, 0), monday(11, 0)},
		{"contained", monday(10, 15), monday(10, 45)},
		{"containing", monday(9, 0), monday(12, 0)},
	}

	for _, status := range ActiveStatuses() {
		for _, tc := range cases {
			t.Run(string(status)+"/"+tc.name, func(t *testing.T) {
				s := newStore()
				s.bookings = []storedBooking{booked(status, monday(10, 0), monday(11, 0))}
				assert.Equal(t, ReasonSlotTaken, check(t, s, tc.start, tc.end).Reason)
			})
		}
	}
}

func TestCheckAvailability_BackToBackIsOK(t *testing.T) {
	s := newStore()
	s.bookings = []storedBooking{booked(StatusConfirmed, monday(10, 0), monday(11, 0))}

	assert.True(t, check(t, s, monday(11, 0), monday(12, 0)).OK())
	assert.True(t, check(t, s, monday(9, 0), monday(10, 0)).OK())
}

func TestCheckAvailability_InactiveBookingsFreeTheSlot(t *testing.T) {
	for _, status := range []Status{StatusCancelled, StatusCompleted, StatusNoShow} {
		t.Run(string(status), func(t *testing.T) {
			s := newStore()
			s.bookings = []storedBooking{booked(status, monday(10, 0), monday(11, 0))}
			assert.True(t, check(t, s, monday(10, 0), monday(11, 0)).OK())
		})
	}
}

func TestCheckAvailability_Idempotent(t *testing.T) {
	s := newStore()
	s.bookings = []storedBooking{booked(StatusPending, monday(10, 0), monday(11, 0))}

	first := check(t, s, monday(10, 30), monday(11, 30))
	second := check(t, s, monday(10, 30), monday(11, 30))
	assert.Equal(t, first, second)
}

func TestCheckAvailability_InfrastructureErrorsAreNotReasons(t *testing.T) {
	boom := errors.New("connection refused")

	cases := map[string]func(*memStore){
		"teacher":  func(s *memStore) { s.teacherErr = boom },
		"windows":  func(s *memStore) { s.windowErr = boom },
		"bookings": func(s *memStore) { s.bookingErr = boom },
	}

	for name, breakStore := range cases {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			breakStore(s)
			res, err := s.resolver().CheckAvailability(context.Background(), teacherID, monday(10, 0), monday(11, 0))
			require.Error(t, err)
			assert.ErrorIs(t, err, boom)
			assert.Equal(t, Result{}, res)
		})
	}
}

func TestCheckAvailability_WeekdayUsesServerLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	s := newStore()
	s.windows = []Window{
		{TeacherID: teacherID, DayOfWeek: 0, Start: MustTimeOfDay("20:00"), End: MustTimeOfDay("23:00"), IsAvailable: true},
	}

	// Monday 01:00 UTC is Sunday 20:00 in UTC-5.
	start := time.Date(2026, 10, 12, 1, 0, 0, 0, time.UTC)
	res, err := NewResolver(s, s, s, loc).CheckAvailability(context.Background(), teacherID, start, start.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, res.OK())

	res, err = NewResolver(s, s, s, time.UTC).CheckAvailability(context.Background(), teacherID, start, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, ReasonNoAvailabilityThisDay, res.Reason)
}
