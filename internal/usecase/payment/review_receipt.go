package payment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BruksfildServices01/tutor-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/tutor-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
	"github.com/BruksfildServices01/tutor-marketplace/internal/notify"
	"github.com/BruksfildServices01/tutor-marketplace/internal/storage"
)

// ======================================================
// REVIEW (admin)
// ======================================================

type ReviewReceiptInput struct {
	ReceiptID uint
	AdminID   uint
	Approve   bool
	Reason    string
}

type ReviewReceipt struct {
	repo     Repository
	audit    Auditor
	notifier Notifier
	now      func() time.Time
}

func NewReviewReceipt(repo Repository, audit Auditor, notifier Notifier) *ReviewReceipt {
	return &ReviewReceipt{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		now:      time.Now,
	}
}

func (uc *ReviewReceipt) Execute(
	ctx context.Context,
	in ReviewReceiptInput,
) (*models.PaymentReceipt, error) {

	reason := strings.TrimSpace(in.Reason)
	if !in.Approve && reason == "" {
		return nil, httperr.ErrBusiness("rejection_reason_required")
	}

	receipt, err := getReceipt(ctx, uc.repo, in.ReceiptID)
	if err != nil {
		return nil, err
	}
	if receipt.Status != string(domain.ReceiptPending) {
		return nil, httperr.ErrBusiness("receipt_already_reviewed")
	}

	b, err := uc.repo.GetBooking(ctx, receipt.BookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking %d: %w", receipt.BookingID, err)
	}

	now := uc.now()
	receipt.ReviewedBy = &in.AdminID
	receipt.ReviewedAt = &now

	evType := notify.ReceiptApproved
	if in.Approve {
		receipt.Status = string(domain.ReceiptApproved)
		b.PaymentStatus = string(domain.PaymentPaid)
	} else {
		receipt.Status = string(domain.ReceiptRejected)
		receipt.RejectionReason = reason
		b.PaymentStatus = string(domain.PaymentRejected)
		evType = notify.ReceiptRejected
	}

	if err := uc.repo.UpdateReview(ctx, receipt, b); err != nil {
		return nil, fmt.Errorf("update receipt: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.AdminID,
		Action:   "receipt_" + strings.ToLower(receipt.Status),
		Entity:   "payment_receipt",
		EntityID: &receipt.ID,
		Metadata: map[string]any{"booking_id": b.ID, "reason": reason},
	})

	data := map[string]string{}
	if reason != "" {
		data["reason"] = reason
	}
	uc.notifier.Notify(notify.Event{
		Type:           evType,
		RecipientID:    b.StudentID,
		RecipientEmail: b.Student.Email,
		RecipientName:  b.Student.Name,
		BookingID:      b.ID,
		Data:           data,
	})

	return receipt, nil
}

// ======================================================
// OPEN (admin or booking parties)
// ======================================================

type OpenReceipt struct {
	repo  Repository
	store storage.ObjectStore
}

func NewOpenReceipt(repo Repository, store storage.ObjectStore) *OpenReceipt {
	return &OpenReceipt{repo: repo, store: store}
}

// Execute returns the stored object. The caller closes the reader.
func (uc *OpenReceipt) Execute(
	ctx context.Context,
	receiptID uint,
	actor domain.Actor,
) (io.ReadCloser, string, error) {

	receipt, err := getReceipt(ctx, uc.repo, receiptID)
	if err != nil {
		return nil, "", err
	}
	if err := domain.Authorize(actor, &receipt.Booking); err != nil {
		return nil, "", httperr.ErrBusiness("receipt_not_found")
	}

	body, contentType, err := uc.store.Get(ctx, receipt.ObjectKey)
	if err != nil {
		return nil, "", err
	}
	if contentType == "" {
		contentType = receipt.ContentType
	}
	return body, contentType, nil
}

// ======================================================
// LIST (admin)
// ======================================================

type ListReceipts struct {
	repo Repository
}

func NewListReceipts(repo Repository) *ListReceipts {
	return &ListReceipts{repo: repo}
}

func (uc *ListReceipts) Execute(ctx context.Context, status string) ([]models.PaymentReceipt, error) {
	switch domain.ReceiptStatus(status) {
	case "", domain.ReceiptPending, domain.ReceiptApproved, domain.ReceiptRejected:
	default:
		return nil, httperr.ErrBusiness("invalid_status")
	}
	return uc.repo.ListReceipts(ctx, status)
}

func getReceipt(ctx context.Context, repo Repository, id uint) (*models.PaymentReceipt, error) {
	receipt, err := repo.GetReceipt(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("receipt_not_found")
		}
		return nil, err
	}
	return receipt, nil
}
