package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/tutor-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
)

type AdminHandler struct {
	db *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

type groupCount struct {
	Key   string
	Total int64
}

// GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	var users []groupCount
	if err := h.db.Model(&models.User{}).
		Select("role AS key, COUNT(*) AS total").
		Group("role").
		Scan(&users).Error; err != nil {
		writeError(c, err, "dashboard_failed")
		return
	}

	var bookings []groupCount
	if err := h.db.Model(&models.Booking{}).
		Select("status AS key, COUNT(*) AS total").
		Group("status").
		Scan(&bookings).Error; err != nil {
		writeError(c, err, "dashboard_failed")
		return
	}

	var pending int64
	if err := h.db.Model(&models.PaymentReceipt{}).
		Where("status = ?", string(domain.ReceiptPending)).
		Count(&pending).Error; err != nil {
		writeError(c, err, "dashboard_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users_by_role":      toMap(users),
		"bookings_by_status": toMap(bookings),
		"pending_receipts":   pending,
	})
}

func toMap(rows []groupCount) map[string]int64 {
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Total
	}
	return out
}
