package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/tutor-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-marketplace/internal/dto"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
	"github.com/BruksfildServices01/tutor-marketplace/internal/middleware"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
)

const upcomingLimit = 5

type MeHandler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db, now: time.Now}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := middleware.UserID(c)

	var user models.User
	if err := h.db.Preload("TeacherProfile").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return
		}
		writeError(c, err, "me_failed")
		return
	}

	resp := gin.H{"user": userView(&user)}
	if user.TeacherProfile != nil {
		resp["teacher_profile"] = user.TeacherProfile
	}
	c.JSON(http.StatusOK, resp)
}

// Dashboard lists the caller's next active bookings and unread message count.
func (h *MeHandler) Dashboard(c *gin.Context) {
	userID := middleware.UserID(c)
	role := middleware.UserRole(c)

	q := h.db.Model(&models.Booking{}).
		Preload("Teacher").
		Preload("Student").
		Where("status IN ?", statusStrings(domain.ActiveStatuses())).
		Where("end_time > ?", h.now())

	switch role {
	case models.RoleTeacher:
		q = q.Where("teacher_id = ?", userID)
	default:
		q = q.Where("student_id = ?", userID)
	}

	var upcoming []models.Booking
	if err := q.Order("start_time ASC").Limit(upcomingLimit).Find(&upcoming).Error; err != nil {
		writeError(c, err, "dashboard_failed")
		return
	}

	var unread int64
	if err := h.db.Model(&models.Message{}).
		Where("recipient_id = ? AND read_at IS NULL", userID).
		Count(&unread).Error; err != nil {
		writeError(c, err, "dashboard_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upcoming_bookings": dto.NewBookingList(upcoming),
		"unread_messages":   unread,
	})
}

func statusStrings(statuses []domain.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
