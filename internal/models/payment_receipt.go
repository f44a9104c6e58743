package models

import "time"

type PaymentReceipt struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID uint    `gorm:"index;not null" json:"booking_id"`
	Booking   Booking `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	UploadedBy  uint   `gorm:"not null" json:"uploaded_by"`
	ObjectKey   string `gorm:"size:255;not null" json:"-"`
	ContentType string `gorm:"size:50" json:"content_type"`
	Size        int64  `json:"size"`

	Amount    float64 `json:"amount"`
	Reference string  `gorm:"size:100" json:"reference"`

	Status          string     `gorm:"size:20;index;default:'PENDING'" json:"status"`
	ReviewedBy      *uint      `json:"reviewed_by"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	RejectionReason string     `gorm:"size:255" json:"rejection_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
