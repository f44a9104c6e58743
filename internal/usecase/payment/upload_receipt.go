package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/tutor-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/tutor-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
	"github.com/BruksfildServices01/tutor-marketplace/internal/notify"
	"github.com/BruksfildServices01/tutor-marketplace/internal/storage"
)

type UploadReceiptInput struct {
	BookingID uint
	StudentID uint

	Data      []byte
	Amount    float64 `validate:"gte=0"`
	Reference string  `validate:"max=100"`
}

type Limits struct {
	MaxBytes int64
	MaxWidth int
}

type UploadReceipt struct {
	repo     Repository
	store    storage.ObjectStore
	limits   Limits
	audit    Auditor
	notifier Notifier
	validate *validator.Validate
}

func NewUploadReceipt(
	repo Repository,
	store storage.ObjectStore,
	limits Limits,
	audit Auditor,
	notifier Notifier,
) *UploadReceipt {
	return &UploadReceipt{
		repo:     repo,
		store:    store,
		limits:   limits,
		audit:    audit,
		notifier: notifier,
		validate: validator.New(),
	}
}

func (uc *UploadReceipt) Execute(
	ctx context.Context,
	in UploadReceiptInput,
) (*models.PaymentReceipt, error) {

	// --------------------------------------------------
	// 1. Payload
	// --------------------------------------------------
	if err := uc.validate.Struct(in); err != nil {
		return nil, httperr.ErrBusiness("invalid_request")
	}
	if len(in.Data) == 0 {
		return nil, httperr.ErrBusiness("empty_receipt")
	}
	if uc.limits.MaxBytes > 0 && int64(len(in.Data)) > uc.limits.MaxBytes {
		return nil, httperr.ErrBusiness("receipt_too_large")
	}

	// --------------------------------------------------
	// 2. Booking
	// --------------------------------------------------
	b, err := uc.repo.GetBooking(ctx, in.BookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("booking_not_found")
		}
		return nil, err
	}
	if b.StudentID != in.StudentID {
		return nil, httperr.ErrBusiness("booking_not_found")
	}
	if err := domain.CanSubmitReceipt(domain.Status(b.Status), domain.PaymentStatus(b.PaymentStatus)); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Normalize + store
	// --------------------------------------------------
	file, err := storage.NormalizeReceipt(in.Data, uc.limits.MaxWidth)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			return nil, httperr.ErrBusiness("unsupported_receipt_type")
		}
		return nil, httperr.ErrBusiness("invalid_receipt")
	}

	key := storage.ReceiptKey(b.ID, file.Ext)
	if err := uc.store.Put(ctx, key, file.ContentType, file.Data); err != nil {
		return nil, fmt.Errorf("store receipt: %w", err)
	}

	// --------------------------------------------------
	// 4. Persist
	// --------------------------------------------------
	receipt := &models.PaymentReceipt{
		BookingID:   b.ID,
		UploadedBy:  in.StudentID,
		ObjectKey:   key,
		ContentType: file.ContentType,
		Size:        int64(len(file.Data)),
		Amount:      in.Amount,
		Reference:   in.Reference,
		Status:      string(domain.ReceiptPending),
	}
	b.PaymentStatus = string(domain.PaymentSubmitted)

	if err := uc.repo.SaveReceipt(ctx, receipt, b); err != nil {
		return nil, fmt.Errorf("save receipt: %w", err)
	}

	// --------------------------------------------------
	// 5. Side effects
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.StudentID,
		Action:   "receipt_submitted",
		Entity:   "payment_receipt",
		EntityID: &receipt.ID,
		Metadata: map[string]any{"booking_id": b.ID, "size": receipt.Size},
	})

	if admins, err := uc.repo.ListAdmins(ctx); err == nil {
		for _, a := range admins {
			uc.notifier.Notify(notify.Event{
				Type:           notify.ReceiptSubmitted,
				RecipientID:    a.ID,
				RecipientEmail: a.Email,
				RecipientName:  a.Name,
				BookingID:      b.ID,
				Data: map[string]string{
					"student": b.Student.Name,
					"amount":  strconv.FormatFloat(in.Amount, 'f', 2, 64),
				},
			})
		}
	}

	return receipt, nil
}
