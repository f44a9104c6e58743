package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httpresp"
	"github.com/BruksfildServices01/tutor-marketplace/internal/middleware"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
	"github.com/BruksfildServices01/tutor-marketplace/internal/notify"
)

const previewLength = 80

// Notifier queues a notification without blocking the request.
type Notifier interface {
	Notify(ev notify.Event)
}

type MessageHandler struct {
	db       *gorm.DB
	notifier Notifier
	now      func() time.Time
}

func NewMessageHandler(db *gorm.DB, notifier Notifier) *MessageHandler {
	return &MessageHandler{db: db, notifier: notifier, now: time.Now}
}

type SendMessageRequest struct {
	RecipientID uint   `json:"recipient_id" binding:"required"`
	BookingID   *uint  `json:"booking_id"`
	Body        string `json:"body" binding:"required,max=4000"`
}

type InboxEntry struct {
	UserID   uint      `json:"user_id"`
	UserName string    `json:"user_name"`
	LastAt   time.Time `json:"last_at"`
	Unread   int64     `json:"unread"`
}

// POST /messages
func (h *MessageHandler) Send(c *gin.Context) {
	senderID := middleware.UserID(c)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "recipient_id and body are required.")
		return
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		httperr.BadRequest(c, "empty_message", "Message body is empty.")
		return
	}
	if req.RecipientID == senderID {
		httperr.BadRequest(c, "cannot_message_self", "Pick another recipient.")
		return
	}

	var recipient models.User
	if err := h.db.First(&recipient, req.RecipientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "Recipient not found.")
			return
		}
		writeError(c, err, "message_send_failed")
		return
	}

	if req.BookingID != nil {
		var b models.Booking
		if err := h.db.First(&b, *req.BookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httperr.NotFound(c, "booking_not_found", "Booking not found.")
				return
			}
			writeError(c, err, "message_send_failed")
			return
		}
		if !bookingInvolves(&b, senderID, req.RecipientID) {
			httperr.BadRequest(c, "booking_mismatch", "The booking does not involve both users.")
			return
		}
	}

	msg := models.Message{
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		BookingID:   req.BookingID,
		Body:        body,
	}
	if err := h.db.Create(&msg).Error; err != nil {
		writeError(c, err, "message_send_failed")
		return
	}

	var bookingID uint
	if msg.BookingID != nil {
		bookingID = *msg.BookingID
	}
	h.notifier.Notify(notify.Event{
		Type:           notify.MessageReceived,
		RecipientID:    recipient.ID,
		RecipientEmail: recipient.Email,
		RecipientName:  recipient.Name,
		BookingID:      bookingID,
		Data:           map[string]string{"preview": preview(body)},
	})

	httpresp.Created(c, msg)
}

// GET /messages/with/:userId?page=1&limit=50 returns one page, oldest first
// within the page; page 1 is the most recent.
func (h *MessageHandler) Conversation(c *gin.Context) {
	me := middleware.UserID(c)
	other, ok := parseID(c.Param("userId"))
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid user id.")
		return
	}

	page, limit := pageParams(c.DefaultQuery("page", "1"), c.DefaultQuery("limit", "50"))

	q := h.db.Model(&models.Message{}).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", me, other, other, me)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		writeError(c, err, "conversation_failed")
		return
	}

	var rows []models.Message
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error; err != nil {
		writeError(c, err, "conversation_failed")
		return
	}

	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}

	httpresp.Page(c, rows, page, limit, total)
}

// GET /messages/inbox
func (h *MessageHandler) Inbox(c *gin.Context) {
	me := middleware.UserID(c)

	var rows []InboxEntry
	err := h.db.Raw(`
		SELECT t.user_id, users.name AS user_name, t.last_at, t.unread
		FROM (
			SELECT
				CASE WHEN sender_id = ? THEN recipient_id ELSE sender_id END AS user_id,
				MAX(created_at) AS last_at,
				SUM(CASE WHEN recipient_id = ? AND read_at IS NULL THEN 1 ELSE 0 END) AS unread
			FROM messages
			WHERE sender_id = ? OR recipient_id = ?
			GROUP BY 1
		) t
		JOIN users ON users.id = t.user_id
		ORDER BY t.last_at DESC`, me, me, me, me).
		Scan(&rows).Error
	if err != nil {
		writeError(c, err, "inbox_failed")
		return
	}

	httpresp.List(c, rows)
}

// PATCH /messages/with/:userId/read marks everything that user sent to the
// caller as read.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	me := middleware.UserID(c)
	other, ok := parseID(c.Param("userId"))
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid user id.")
		return
	}

	res := h.db.Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND read_at IS NULL", other, me).
		Update("read_at", h.now())
	if res.Error != nil {
		writeError(c, res.Error, "mark_read_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": res.RowsAffected})
}

func bookingInvolves(b *models.Booking, a, z uint) bool {
	return (b.StudentID == a && b.TeacherID == z) || (b.StudentID == z && b.TeacherID == a)
}

func preview(body string) string {
	r := []rune(body)
	if len(r) <= previewLength {
		return body
	}
	return string(r[:previewLength]) + "..."
}
