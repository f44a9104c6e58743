package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/tutor-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httpresp"
	"github.com/BruksfildServices01/tutor-marketplace/internal/middleware"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
	"github.com/BruksfildServices01/tutor-marketplace/internal/notify"
)

type ReviewHandler struct {
	db       *gorm.DB
	audit    Auditor
	notifier Notifier
}

func NewReviewHandler(db *gorm.DB, audit Auditor, notifier Notifier) *ReviewHandler {
	return &ReviewHandler{db: db, audit: audit, notifier: notifier}
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

// POST /bookings/:id/review
func (h *ReviewHandler) Create(c *gin.Context) {
	studentID := middleware.UserID(c)

	bookingID, ok := parseID(c.Param("id"))
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid booking id.")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_rating", "rating must be between 1 and 5.")
		return
	}

	var b models.Booking
	if err := h.db.Preload("Teacher").First(&b, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "booking_not_found", "Booking not found.")
			return
		}
		writeError(c, err, "review_create_failed")
		return
	}
	if b.StudentID != studentID {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}
	if domain.Status(b.Status) != domain.StatusCompleted {
		httperr.BadRequest(c, "booking_not_completed", "Only completed lessons can be reviewed.")
		return
	}

	review := models.Review{
		BookingID: b.ID,
		StudentID: studentID,
		TeacherID: b.TeacherID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
	}
	if err := h.db.Omit("Student").Create(&review).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "already_reviewed", "This booking already has a review.")
			return
		}
		writeError(c, err, "review_create_failed")
		return
	}

	h.audit.Dispatch(auditEvent(studentID, "review_published", "review", review.ID, gin.H{"booking_id": b.ID, "rating": review.Rating}))

	h.notifier.Notify(notify.Event{
		Type:           notify.ReviewPublished,
		RecipientID:    b.TeacherID,
		RecipientEmail: b.Teacher.Email,
		RecipientName:  b.Teacher.Name,
		BookingID:      b.ID,
		Data:           map[string]string{"rating": strconv.Itoa(review.Rating)},
	})

	httpresp.Created(c, review)
}
