package dto

import (
	"time"

	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
)

type BookingListDTO struct {
	ID            uint      `json:"id"`
	TeacherID     uint      `json:"teacher_id"`
	TeacherName   string    `json:"teacher_name"`
	StudentID     uint      `json:"student_id"`
	StudentName   string    `json:"student_name"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
}

func NewBookingList(rows []models.Booking) []BookingListDTO {
	out := make([]BookingListDTO, 0, len(rows))
	for _, b := range rows {
		out = append(out, BookingListDTO{
			ID:            b.ID,
			TeacherID:     b.TeacherID,
			TeacherName:   b.Teacher.Name,
			StudentID:     b.StudentID,
			StudentName:   b.Student.Name,
			StartTime:     b.StartTime,
			EndTime:       b.EndTime,
			Status:        b.Status,
			PaymentStatus: b.PaymentStatus,
			Price:         b.Price,
			Currency:      b.Currency,
		})
	}
	return out
}
