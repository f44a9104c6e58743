package availability

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/tutor-marketplace/internal/audit"
	"github.com/BruksfildServices01/tutor-marketplace/internal/cache"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) TeacherExists(ctx context.Context, teacherID uint) (bool, error) {
	args := m.Called(ctx, teacherID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ReplaceWindows(ctx context.Context, teacherID uint, windows []models.AvailabilityWindow) error {
	args := m.Called(ctx, teacherID, windows)
	return args.Error(0)
}

func (m *MockRepository) ListAllWindows(ctx context.Context, teacherID uint) ([]models.AvailabilityWindow, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AvailabilityWindow), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetWindows(ctx context.Context, teacherID uint) ([]models.AvailabilityWindow, bool, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]models.AvailabilityWindow), args.Bool(1), args.Error(2)
}

func (m *MockCache) SetWindows(ctx context.Context, teacherID uint, windows []models.AvailabilityWindow) error {
	return m.Called(ctx, teacherID, windows).Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, teacherID uint) error {
	return m.Called(ctx, teacherID).Error(0)
}

type auditSpy struct {
	events []audit.Event
}

func (a *auditSpy) Dispatch(ev audit.Event) { a.events = append(a.events, ev) }

type lookupSpy struct {
	hits, misses int
}

func (l *lookupSpy) ObserveCacheLookup(hit bool) {
	if hit {
		l.hits++
		return
	}
	l.misses++
}

func boolPtr(b bool) *bool { return &b }

func TestSaveWindows_ReplacesAndInvalidates(t *testing.T) {
	ctx := context.Background()
	repo, c, spy := &MockRepository{}, &MockCache{}, &auditSpy{}

	expected := []models.AvailabilityWindow{
		{TeacherID: 2, DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", IsAvailable: true},
		{TeacherID: 2, DayOfWeek: 1, StartTime: "13:00", EndTime: "17:00", IsAvailable: false},
	}
	repo.On("ReplaceWindows", ctx, uint(2), expected).Return(nil)
	c.On("Invalidate", ctx, uint(2)).Return(nil)

	uc, err := NewSaveWindows(repo, c, spy, nil, nil)
	require.NoError(t, err)
	rows, err := uc.Execute(ctx, SaveWindowsInput{
		TeacherID: 2,
		Windows: []WindowInput{
			{DayOfWeek: 1, StartTime: "9:00", EndTime: "12:00"},
			{DayOfWeek: 1, StartTime: "13:00", EndTime: "17:00", IsAvailable: boolPtr(false)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, expected, rows)
	require.Len(t, spy.events, 1)
	assert.Equal(t, "windows_replaced", spy.events[0].Action)

	repo.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestSaveWindows_RejectsInvalidRows(t *testing.T) {
	cases := map[string]WindowInput{
		"day out of range":   {DayOfWeek: 7, StartTime: "09:00", EndTime: "10:00"},
		"negative day":       {DayOfWeek: -1, StartTime: "09:00", EndTime: "10:00"},
		"bad start":          {DayOfWeek: 1, StartTime: "25:00", EndTime: "10:00"},
		"missing end":        {DayOfWeek: 1, StartTime: "09:00"},
		"end before start":   {DayOfWeek: 1, StartTime: "10:00", EndTime: "09:00"},
		"empty window":       {DayOfWeek: 1, StartTime: "10:00", EndTime: "10:00"},
		"crosses midnight":   {DayOfWeek: 5, StartTime: "22:00", EndTime: "02:00"},
		"garbage time value": {DayOfWeek: 1, StartTime: "noon", EndTime: "13:00"},
	}

	for name, w := range cases {
		t.Run(name, func(t *testing.T) {
			repo, c := &MockRepository{}, &MockCache{}
			uc, err := NewSaveWindows(repo, c, &auditSpy{}, nil, nil)
			require.NoError(t, err)

			_, err = uc.Execute(context.Background(), SaveWindowsInput{TeacherID: 2, Windows: []WindowInput{w}})
			assert.True(t, httperr.IsBusiness(err, "invalid_window"), "got %v", err)
			repo.AssertNotCalled(t, "ReplaceWindows", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestNewSaveWindows_RegistersTimeOfDayOnSuppliedValidator(t *testing.T) {
	v := validator.New()

	uc, err := NewSaveWindows(&MockRepository{}, cache.Noop{}, &auditSpy{}, v, nil)
	require.NoError(t, err)
	require.NotNil(t, uc)

	assert.NoError(t, v.Var("09:00", "timeofday"))
	assert.NoError(t, v.Var("9:30", "timeofday"))
	assert.Error(t, v.Var("24:00", "timeofday"))
	assert.Error(t, v.Var("noon", "timeofday"))
}

func TestSaveWindows_EmptySetClearsSchedule(t *testing.T) {
	ctx := context.Background()
	repo, c := &MockRepository{}, &MockCache{}
	repo.On("ReplaceWindows", ctx, uint(2), []models.AvailabilityWindow{}).Return(nil)
	c.On("Invalidate", ctx, uint(2)).Return(errors.New("redis down"))

	uc, err := NewSaveWindows(repo, c, &auditSpy{}, nil, nil)
	require.NoError(t, err)
	rows, err := uc.Execute(ctx, SaveWindowsInput{TeacherID: 2})
	require.NoError(t, err, "a cache failure does not fail the save")
	assert.Empty(t, rows)
	repo.AssertExpectations(t)
}

func TestListWindows_CacheHitSkipsDatabase(t *testing.T) {
	ctx := context.Background()
	repo, c, spy := &MockRepository{}, &MockCache{}, &lookupSpy{}
	cached := []models.AvailabilityWindow{{TeacherID: 2, DayOfWeek: 3, StartTime: "08:00", EndTime: "10:00"}}
	c.On("GetWindows", ctx, uint(2)).Return(cached, true, nil)

	got, err := NewListWindows(repo, c, spy, nil).Execute(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, cached, got)
	assert.Equal(t, 1, spy.hits)
	repo.AssertNotCalled(t, "ListAllWindows", mock.Anything, mock.Anything)
}

func TestListWindows_MissLoadsAndFills(t *testing.T) {
	ctx := context.Background()
	repo, c, spy := &MockRepository{}, &MockCache{}, &lookupSpy{}
	stored := []models.AvailabilityWindow{{TeacherID: 2, DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"}}

	c.On("GetWindows", ctx, uint(2)).Return(nil, false, errors.New("redis down"))
	repo.On("TeacherExists", ctx, uint(2)).Return(true, nil)
	repo.On("ListAllWindows", ctx, uint(2)).Return(stored, nil)
	c.On("SetWindows", ctx, uint(2), stored).Return(nil)

	got, err := NewListWindows(repo, c, spy, nil).Execute(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, stored, got)
	assert.Equal(t, 1, spy.misses)
	repo.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestListWindows_UnknownTeacher(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepository{}
	repo.On("TeacherExists", ctx, uint(9)).Return(false, nil)

	_, err := NewListWindows(repo, cache.Noop{}, &lookupSpy{}, nil).Execute(ctx, 9)
	assert.True(t, httperr.IsBusiness(err, "teacher_not_found"))
}
