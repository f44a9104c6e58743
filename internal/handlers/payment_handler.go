package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/tutor-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httpresp"
	"github.com/BruksfildServices01/tutor-marketplace/internal/logger"
	"github.com/BruksfildServices01/tutor-marketplace/internal/middleware"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
	ucPayment "github.com/BruksfildServices01/tutor-marketplace/internal/usecase/payment"
)

// ======================================================
// PORTS
// ======================================================

type ReceiptUploader interface {
	Execute(ctx context.Context, in ucPayment.UploadReceiptInput) (*models.PaymentReceipt, error)
}

type ReceiptReviewer interface {
	Execute(ctx context.Context, in ucPayment.ReviewReceiptInput) (*models.PaymentReceipt, error)
}

type ReceiptLister interface {
	Execute(ctx context.Context, status string) ([]models.PaymentReceipt, error)
}

type ReceiptOpener interface {
	Execute(ctx context.Context, receiptID uint, actor domain.Actor) (io.ReadCloser, string, error)
}

// ======================================================
// HANDLER
// ======================================================

type PaymentHandler struct {
	upload   ReceiptUploader
	review   ReceiptReviewer
	list     ReceiptLister
	open     ReceiptOpener
	maxBytes int64
}

func NewPaymentHandler(
	upload ReceiptUploader,
	review ReceiptReviewer,
	list ReceiptLister,
	open ReceiptOpener,
	maxBytes int64,
) *PaymentHandler {
	return &PaymentHandler{
		upload:   upload,
		review:   review,
		list:     list,
		open:     open,
		maxBytes: maxBytes,
	}
}

type ReviewReceiptRequest struct {
	Approve *bool  `json:"approve" binding:"required"`
	Reason  string `json:"reason" binding:"max=255"`
}

// POST /bookings/:id/receipt (multipart: file, amount, reference)
func (h *PaymentHandler) Upload(c *gin.Context) {
	bookingID, ok := parseID(c.Param("id"))
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid booking id.")
		return
	}

	// one extra KiB for the multipart envelope and text fields
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<10)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperr.Write(c, http.StatusRequestEntityTooLarge, "receipt_too_large", "Receipt exceeds the size limit.")
			return
		}
		httperr.BadRequest(c, "missing_file", "A receipt file is required.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_receipt", "Receipt could not be read.")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		httperr.BadRequest(c, "invalid_receipt", "Receipt could not be read.")
		return
	}

	var amount float64
	if s := c.PostForm("amount"); s != "" {
		if amount, err = strconv.ParseFloat(s, 64); err != nil {
			httperr.BadRequest(c, "invalid_amount", "amount must be a number.")
			return
		}
	}

	receipt, err := h.upload.Execute(c.Request.Context(), ucPayment.UploadReceiptInput{
		BookingID: bookingID,
		StudentID: middleware.UserID(c),
		Data:      data,
		Amount:    amount,
		Reference: c.PostForm("reference"),
	})
	if err != nil {
		if httperr.IsBusiness(err, "receipt_too_large") {
			httperr.Write(c, http.StatusRequestEntityTooLarge, "receipt_too_large", "Receipt exceeds the size limit.")
			return
		}
		writeError(c, err, "receipt_upload_failed")
		return
	}

	httpresp.Created(c, receipt)
}

// PATCH /admin/receipts/:id
func (h *PaymentHandler) Review(c *gin.Context) {
	receiptID, ok := parseID(c.Param("id"))
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid receipt id.")
		return
	}

	var req ReviewReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "approve is required.")
		return
	}

	receipt, err := h.review.Execute(c.Request.Context(), ucPayment.ReviewReceiptInput{
		ReceiptID: receiptID,
		AdminID:   middleware.UserID(c),
		Approve:   *req.Approve,
		Reason:    req.Reason,
	})
	if err != nil {
		writeError(c, err, "receipt_review_failed")
		return
	}

	httpresp.OK(c, receipt)
}

// GET /admin/receipts?status=PENDING
func (h *PaymentHandler) List(c *gin.Context) {
	rows, err := h.list.Execute(c.Request.Context(), c.DefaultQuery("status", string(domain.ReceiptPending)))
	if err != nil {
		writeError(c, err, "receipt_list_failed")
		return
	}
	httpresp.List(c, rows)
}

// GET /receipts/:id/file
func (h *PaymentHandler) Open(c *gin.Context) {
	receiptID, ok := parseID(c.Param("id"))
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid receipt id.")
		return
	}

	body, contentType, err := h.open.Execute(c.Request.Context(), receiptID, actorFrom(c))
	if err != nil {
		writeError(c, err, "receipt_open_failed")
		return
	}
	defer body.Close()

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		logger.FromContext(c).Warn("receipt_stream_interrupted", zap.Uint("receipt_id", receiptID), zap.Error(err))
	}
}
