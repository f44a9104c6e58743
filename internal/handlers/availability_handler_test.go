package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
	ucAvailability "github.com/BruksfildServices01/tutor-marketplace/internal/usecase/availability"
)

type MockSave struct{ mock.Mock }

func (m *MockSave) Execute(ctx context.Context, in ucAvailability.SaveWindowsInput) ([]models.AvailabilityWindow, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AvailabilityWindow), args.Error(1)
}

type MockWindows struct{ mock.Mock }

func (m *MockWindows) Execute(ctx context.Context, teacherID uint) ([]models.AvailabilityWindow, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AvailabilityWindow), args.Error(1)
}

func TestAvailabilityHandler_ReplaceUsesCallerID(t *testing.T) {
	save, list := &MockSave{}, &MockWindows{}
	h := NewAvailabilityHandler(save, list)

	off := false
	save.On("Execute", mock.Anything, ucAvailability.SaveWindowsInput{
		TeacherID: 7,
		Windows: []ucAvailability.WindowInput{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"},
			{DayOfWeek: 2, StartTime: "13:00", EndTime: "15:00", IsAvailable: &off},
		},
	}).Return([]models.AvailabilityWindow{{TeacherID: 7, DayOfWeek: 1}}, nil)

	body := []byte(`{"windows":[
		{"day_of_week":1,"start_time":"09:00","end_time":"12:00"},
		{"day_of_week":2,"start_time":"13:00","end_time":"15:00","is_available":false}
	]}`)
	c, w := newContext(http.MethodPut, "/api/me/availability", body, 7, models.RoleTeacher)
	h.Replace(c)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	save.AssertExpectations(t)
}

func TestAvailabilityHandler_ReplaceInvalidWindow(t *testing.T) {
	save := &MockSave{}
	save.On("Execute", mock.Anything, mock.Anything).Return(nil, httperr.ErrBusiness("invalid_window"))
	h := NewAvailabilityHandler(save, &MockWindows{})

	c, w := newContext(http.MethodPut, "/api/me/availability",
		[]byte(`{"windows":[{"day_of_week":5,"start_time":"22:00","end_time":"02:00"}]}`), 7, models.RoleTeacher)
	h.Replace(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_window", decodeError(t, w).Code)
}

func TestAvailabilityHandler_PublicWindows(t *testing.T) {
	list := &MockWindows{}
	list.On("Execute", mock.Anything, uint(7)).
		Return([]models.AvailabilityWindow{{TeacherID: 7, DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsAvailable: true}}, nil)
	list.On("Execute", mock.Anything, uint(8)).Return(nil, httperr.ErrBusiness("teacher_not_found"))
	h := NewAvailabilityHandler(&MockSave{}, list)

	c, w := newContext(http.MethodGet, "/api/teachers/7/availability", nil, 0, "")
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	h.GetForTeacher(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"start_time":"09:00"`)

	c, w = newContext(http.MethodGet, "/api/teachers/8/availability", nil, 0, "")
	c.Params = gin.Params{{Key: "id", Value: "8"}}
	h.GetForTeacher(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newContext(http.MethodGet, "/api/teachers/x/availability", nil, 0, "")
	c.Params = gin.Params{{Key: "id", Value: "x"}}
	h.GetForTeacher(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor("receipt_not_found"))
	assert.Equal(t, http.StatusConflict, statusFor("slot_taken"))
	assert.Equal(t, http.StatusForbidden, statusFor("forbidden_transition"))
	assert.Equal(t, http.StatusBadRequest, statusFor("outside_availability"))
}
