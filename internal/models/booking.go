package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TeacherID uint `gorm:"index;not null" json:"teacher_id"`
	Teacher   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"teacher"`

	StudentID uint `gorm:"index;not null" json:"student_id"`
	Student   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"student"`

	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status        string `gorm:"size:20;index;default:'PENDING'" json:"status"`
	PaymentStatus string `gorm:"size:20;default:'UNPAID'" json:"payment_status"`

	Price    float64 `json:"price"`
	Currency string  `gorm:"size:3" json:"currency"`
	Notes    string  `gorm:"size:500" json:"notes"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CancelledBy *uint      `json:"cancelled_by"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
