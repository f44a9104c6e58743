package models

import "time"

// AvailabilityWindow is one recurring weekly slot. StartTime and EndTime are
// "HH:MM" wall-clock strings.
type AvailabilityWindow struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	TeacherID uint `gorm:"index:idx_windows_teacher_day;not null" json:"teacher_id"`

	DayOfWeek int `gorm:"index:idx_windows_teacher_day;not null" json:"day_of_week"`

	StartTime   string `gorm:"size:5;not null" json:"start_time"`
	EndTime     string `gorm:"size:5;not null" json:"end_time"`
	IsAvailable bool   `gorm:"not null" json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
