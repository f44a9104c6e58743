package models

import "time"

type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID uint `gorm:"uniqueIndex;not null" json:"booking_id"`
	StudentID uint `gorm:"not null" json:"student_id"`
	TeacherID uint `gorm:"index;not null" json:"teacher_id"`

	Student User `gorm:"constraint:OnDelete:CASCADE;" json:"student"`

	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"size:1000" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
}
