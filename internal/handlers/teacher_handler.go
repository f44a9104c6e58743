package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tutor-marketplace/internal/dto"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httpresp"
	"github.com/BruksfildServices01/tutor-marketplace/internal/middleware"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
	"github.com/BruksfildServices01/tutor-marketplace/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type TeacherHandler struct {
	db    *gorm.DB
	audit Auditor
}

func NewTeacherHandler(db *gorm.DB, audit Auditor) *TeacherHandler {
	return &TeacherHandler{db: db, audit: audit}
}

type UpdateTeacherProfileRequest struct {
	Headline    *string  `json:"headline" binding:"omitempty,max=150"`
	Bio         *string  `json:"bio"`
	Subjects    *string  `json:"subjects" binding:"omitempty,max=255"`
	HourlyRate  *float64 `json:"hourly_rate" binding:"omitempty,gte=0"`
	Currency    *string  `json:"currency" binding:"omitempty,len=3"`
	Timezone    *string  `json:"timezone"`
	BankDetails *string  `json:"bank_details"`
}

// ======================================================
// PUBLIC LISTING
// ======================================================

// GET /teachers?subject=math
func (h *TeacherHandler) List(c *gin.Context) {
	q := h.db.Table("users").
		Select(`users.id, users.name,
			teacher_profiles.headline, teacher_profiles.subjects,
			teacher_profiles.hourly_rate, teacher_profiles.currency,
			COALESCE(AVG(reviews.rating), 0) AS avg_rating,
			COUNT(reviews.id) AS review_count`).
		Joins("JOIN teacher_profiles ON teacher_profiles.user_id = users.id").
		Joins("LEFT JOIN reviews ON reviews.teacher_id = users.id").
		Where("users.role = ?", models.RoleTeacher)

	if subject := strings.TrimSpace(c.Query("subject")); subject != "" {
		q = q.Where("teacher_profiles.subjects ILIKE ?", "%"+subject+"%")
	}

	var rows []dto.TeacherSummary
	if err := q.
		Group("users.id, teacher_profiles.id").
		Order("avg_rating DESC, users.id ASC").
		Scan(&rows).Error; err != nil {
		writeError(c, err, "teacher_list_failed")
		return
	}

	httpresp.List(c, rows)
}

// GET /teachers/:id
func (h *TeacherHandler) Get(c *gin.Context) {
	teacherID, ok := parseID(c.Param("id"))
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid teacher id.")
		return
	}

	var user models.User
	if err := h.db.
		Preload("TeacherProfile").
		Where("id = ? AND role = ?", teacherID, models.RoleTeacher).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "teacher_not_found", "Teacher not found.")
			return
		}
		writeError(c, err, "teacher_get_failed")
		return
	}

	var reviews []models.Review
	if err := h.db.
		Preload("Student").
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		writeError(c, err, "teacher_get_failed")
		return
	}

	var sum float64
	for _, r := range reviews {
		sum += float64(r.Rating)
	}
	avg := 0.0
	if len(reviews) > 0 {
		avg = sum / float64(len(reviews))
	}

	profile := user.TeacherProfile
	if profile != nil {
		// bank details are only shown on the booking flow
		cp := *profile
		cp.BankDetails = ""
		profile = &cp
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           user.ID,
		"name":         user.Name,
		"profile":      profile,
		"avg_rating":   avg,
		"review_count": len(reviews),
		"reviews":      reviews,
	})
}

// ======================================================
// OWN PROFILE (teacher)
// ======================================================

// PUT /me/teacher-profile
func (h *TeacherHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.UserID(c)

	var req UpdateTeacherProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid profile payload.")
		return
	}
	if req.Timezone != nil && *req.Timezone != "" && !timezone.IsValid(*req.Timezone) {
		httperr.BadRequest(c, "invalid_timezone", "Unknown IANA timezone.")
		return
	}

	var profile models.TeacherProfile
	err := h.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(c, err, "teacher_profile_failed")
		return
	}
	profile.UserID = userID

	if req.Headline != nil {
		profile.Headline = strings.TrimSpace(*req.Headline)
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Subjects != nil {
		profile.Subjects = strings.TrimSpace(*req.Subjects)
	}
	if req.HourlyRate != nil {
		profile.HourlyRate = *req.HourlyRate
	}
	if req.Currency != nil {
		profile.Currency = strings.ToUpper(*req.Currency)
	}
	if req.Timezone != nil {
		profile.Timezone = *req.Timezone
	}
	if req.BankDetails != nil {
		profile.BankDetails = *req.BankDetails
	}

	if err := h.db.Save(&profile).Error; err != nil {
		writeError(c, err, "teacher_profile_failed")
		return
	}

	h.audit.Dispatch(auditEvent(userID, "teacher_profile_updated", "teacher_profile", profile.ID, nil))

	httpresp.OK(c, profile)
}

// GET /bookings/:id/bank-details returns the teacher's transfer details to
// the booking's student.
func (h *TeacherHandler) BankDetails(c *gin.Context) {
	bookingID, ok := parseID(c.Param("id"))
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid booking id.")
		return
	}

	var b models.Booking
	if err := h.db.First(&b, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "booking_not_found", "Booking not found.")
			return
		}
		writeError(c, err, "bank_details_failed")
		return
	}

	actor := actorFrom(c)
	if !actor.IsAdmin() && b.StudentID != actor.UserID {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}

	var profile models.TeacherProfile
	if err := h.db.Where("user_id = ?", b.TeacherID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "teacher_not_found", "Teacher profile not found.")
			return
		}
		writeError(c, err, "bank_details_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking_id":   b.ID,
		"amount":       b.Price,
		"currency":     b.Currency,
		"bank_details": profile.BankDetails,
	})
}
