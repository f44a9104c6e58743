package models

import "time"

type TeacherProfile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	Headline   string  `gorm:"size:150" json:"headline"`
	Bio        string  `gorm:"type:text" json:"bio"`
	Subjects   string  `gorm:"size:255" json:"subjects"`
	HourlyRate float64 `json:"hourly_rate"`
	Currency   string  `gorm:"size:3;default:'USD'" json:"currency"`

	// Informational only; availability is evaluated in the server location.
	Timezone string `gorm:"size:64" json:"timezone"`

	BankDetails string `gorm:"type:text" json:"bank_details"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
