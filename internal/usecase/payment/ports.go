package payment

import (
	"context"

	"github.com/BruksfildServices01/tutor-marketplace/internal/audit"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
	"github.com/BruksfildServices01/tutor-marketplace/internal/notify"
)

type Repository interface {
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	SaveReceipt(ctx context.Context, receipt *models.PaymentReceipt, b *models.Booking) error
	GetReceipt(ctx context.Context, id uint) (*models.PaymentReceipt, error)
	UpdateReview(ctx context.Context, receipt *models.PaymentReceipt, b *models.Booking) error
	ListReceipts(ctx context.Context, status string) ([]models.PaymentReceipt, error)
	ListAdmins(ctx context.Context) ([]models.User, error)
}

type Auditor interface {
	Dispatch(ev audit.Event)
}

type Notifier interface {
	Notify(ev notify.Event)
}
