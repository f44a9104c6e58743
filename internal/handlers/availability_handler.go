package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httpresp"
	"github.com/BruksfildServices01/tutor-marketplace/internal/middleware"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
	ucAvailability "github.com/BruksfildServices01/tutor-marketplace/internal/usecase/availability"
)

type WindowSaver interface {
	Execute(ctx context.Context, in ucAvailability.SaveWindowsInput) ([]models.AvailabilityWindow, error)
}

type WindowLister interface {
	Execute(ctx context.Context, teacherID uint) ([]models.AvailabilityWindow, error)
}

type AvailabilityHandler struct {
	save WindowSaver
	list WindowLister
}

func NewAvailabilityHandler(save WindowSaver, list WindowLister) *AvailabilityHandler {
	return &AvailabilityHandler{save: save, list: list}
}

type ReplaceWindowsRequest struct {
	Windows []ucAvailability.WindowInput `json:"windows"`
}

// GET /me/availability
func (h *AvailabilityHandler) GetMine(c *gin.Context) {
	h.respondWindows(c, middleware.UserID(c))
}

// GET /teachers/:id/availability
func (h *AvailabilityHandler) GetForTeacher(c *gin.Context) {
	teacherID, ok := parseID(c.Param("id"))
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid teacher id.")
		return
	}
	h.respondWindows(c, teacherID)
}

func (h *AvailabilityHandler) respondWindows(c *gin.Context, teacherID uint) {
	rows, err := h.list.Execute(c.Request.Context(), teacherID)
	if err != nil {
		writeError(c, err, "availability_list_failed")
		return
	}
	httpresp.List(c, rows)
}

// PUT /me/availability replaces the whole weekly schedule.
func (h *AvailabilityHandler) Replace(c *gin.Context) {
	var req ReplaceWindowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid availability payload.")
		return
	}

	rows, err := h.save.Execute(c.Request.Context(), ucAvailability.SaveWindowsInput{
		TeacherID: middleware.UserID(c),
		Windows:   req.Windows,
	})
	if err != nil {
		writeError(c, err, "availability_save_failed")
		return
	}
	httpresp.List(c, rows)
}
