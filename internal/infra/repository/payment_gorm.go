package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {
	return NewBookingGormRepository(r.db).GetBooking(ctx, id)
}

// SaveReceipt inserts the receipt and persists the booking's new payment
// status atomically.
func (r *PaymentGormRepository) SaveReceipt(
	ctx context.Context,
	receipt *models.PaymentReceipt,
	b *models.Booking,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(receipt).Error; err != nil {
			return err
		}
		return tx.Model(&models.Booking{}).
			Where("id = ?", b.ID).
			Update("payment_status", b.PaymentStatus).Error
	})
}

func (r *PaymentGormRepository) GetReceipt(
	ctx context.Context,
	id uint,
) (*models.PaymentReceipt, error) {

	var receipt models.PaymentReceipt
	if err := r.db.WithContext(ctx).
		Preload("Booking").
		First(&receipt, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &receipt, nil
}

// UpdateReview persists a reviewed receipt together with its booking.
func (r *PaymentGormRepository) UpdateReview(
	ctx context.Context,
	receipt *models.PaymentReceipt,
	b *models.Booking,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(receipt).Error; err != nil {
			return err
		}
		return tx.Model(&models.Booking{}).
			Where("id = ?", b.ID).
			Update("payment_status", b.PaymentStatus).Error
	})
}

func (r *PaymentGormRepository) ListReceipts(
	ctx context.Context,
	status string,
) ([]models.PaymentReceipt, error) {

	q := r.db.WithContext(ctx).Model(&models.PaymentReceipt{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var list []models.PaymentReceipt
	if err := q.Order("created_at ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PaymentGormRepository) ListAdmins(ctx context.Context) ([]models.User, error) {
	var admins []models.User
	if err := r.db.WithContext(ctx).
		Where("role = ?", models.RoleAdmin).
		Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}
