package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/tutor-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-marketplace/internal/dto"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httpresp"
	"github.com/BruksfildServices01/tutor-marketplace/internal/middleware"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
	ucBooking "github.com/BruksfildServices01/tutor-marketplace/internal/usecase/booking"
)

// ======================================================
// PORTS
// ======================================================

type BookingCreator interface {
	Execute(ctx context.Context, in ucBooking.CreateBookingInput) (*models.Booking, error)
}

type BookingTransitioner interface {
	Execute(ctx context.Context, in ucBooking.TransitionBookingInput) (*models.Booking, error)
}

type BookingLister interface {
	Execute(ctx context.Context, actor domain.Actor, f domain.Filter) ([]models.Booking, int64, error)
}

type AvailabilityChecker interface {
	Execute(ctx context.Context, teacherID uint, start, end time.Time) (domain.Result, error)
}

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create     BookingCreator
	transition BookingTransitioner
	list       BookingLister
	check      AvailabilityChecker
	loc        *time.Location
}

func NewBookingHandler(
	create BookingCreator,
	transition BookingTransitioner,
	list BookingLister,
	check AvailabilityChecker,
	loc *time.Location,
) *BookingHandler {
	return &BookingHandler{
		create:     create,
		transition: transition,
		list:       list,
		check:      check,
		loc:        loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	TeacherID uint   `json:"teacher_id" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Notes     string `json:"notes" binding:"max=500"`
}

type TransitionBookingRequest struct {
	Status string `json:"status" binding:"required"`
}

func actorFrom(c *gin.Context) domain.Actor {
	return domain.Actor{
		UserID: middleware.UserID(c),
		Role:   middleware.UserRole(c),
	}
}

// ======================================================
// CREATE (student)
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid booking payload.")
		return
	}

	start, err1 := parseInstant(req.StartTime, h.loc)
	end, err2 := parseInstant(req.EndTime, h.loc)
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Start and end must be RFC3339 or YYYY-MM-DDTHH:MM.")
		return
	}

	b, err := h.create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		TeacherID: req.TeacherID,
		StudentID: middleware.UserID(c),
		Start:     start,
		End:       end,
		Notes:     strings.TrimSpace(req.Notes),
	})
	if err != nil {
		writeError(c, err, "booking_create_failed")
		return
	}

	httpresp.Created(c, b)
}

// ======================================================
// CHECK (any authenticated user)
// ======================================================

func (h *BookingHandler) Check(c *gin.Context) {
	teacherID, ok := parseID(c.Param("id"))
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid teacher id.")
		return
	}

	start, err1 := parseInstant(c.Query("start"), h.loc)
	end, err2 := parseInstant(c.Query("end"), h.loc)
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "start and end are required.")
		return
	}

	res, err := h.check.Execute(c.Request.Context(), teacherID, start, end)
	if err != nil {
		writeError(c, err, "availability_check_failed")
		return
	}
	if res.Reason == domain.ReasonNotFound {
		httperr.NotFound(c, string(res.Reason), "Teacher not found.")
		return
	}

	httpresp.OK(c, gin.H{
		"available": res.OK(),
		"reason":    string(res.Reason),
	})
}

// ======================================================
// TRANSITION
// ======================================================

func (h *BookingHandler) Transition(c *gin.Context) {
	bookingID, ok := parseID(c.Param("id"))
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid booking id.")
		return
	}

	var req TransitionBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "status is required.")
		return
	}

	b, err := h.transition.Execute(c.Request.Context(), ucBooking.TransitionBookingInput{
		BookingID: bookingID,
		Actor:     actorFrom(c),
		To:        domain.Status(strings.ToUpper(strings.TrimSpace(req.Status))),
	})
	if err != nil {
		writeError(c, err, "booking_transition_failed")
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// LIST
// ======================================================

// ListMine serves /me/bookings; ListAll serves /admin/bookings. Both go
// through the same role-scoped use case.
func (h *BookingHandler) ListMine(c *gin.Context) { h.listBookings(c, false) }

func (h *BookingHandler) ListAll(c *gin.Context) { h.listBookings(c, true) }

func (h *BookingHandler) listBookings(c *gin.Context, admin bool) {
	from, err1 := parseDay(c.Query("from"), h.loc)
	to, err2 := parseDay(c.Query("to"), h.loc)
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_date", "from and to must be YYYY-MM-DD.")
		return
	}
	if to != nil {
		next := to.AddDate(0, 0, 1)
		to = &next
	}

	page, limit := pageParams(c.DefaultQuery("page", "1"), c.DefaultQuery("limit", "50"))

	f := domain.Filter{
		Status: domain.Status(strings.ToUpper(c.Query("status"))),
		From:   from,
		To:     to,
		Page:   page,
		Limit:  limit,
	}
	if admin {
		if id, ok := parseID(c.Query("teacher_id")); ok {
			f.TeacherID = id
		}
		if id, ok := parseID(c.Query("student_id")); ok {
			f.StudentID = id
		}
	}

	rows, total, err := h.list.Execute(c.Request.Context(), actorFrom(c), f)
	if err != nil {
		writeError(c, err, "booking_list_failed")
		return
	}

	httpresp.Page(c, dto.NewBookingList(rows), page, limit, total)
}
