package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/tutor-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// --------------------------------------------------
// Teacher
// --------------------------------------------------

func (r *BookingGormRepository) TeacherExists(
	ctx context.Context,
	teacherID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND role = ?", teacherID, models.RoleTeacher).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BookingGormRepository) GetTeacherProfile(
	ctx context.Context,
	teacherID uint,
) (*models.TeacherProfile, error) {

	var profile models.TeacherProfile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", teacherID).
		First(&profile).Error; err != nil {
		return nil, notFound(err)
	}
	return &profile, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *BookingGormRepository) ListWindows(
	ctx context.Context,
	teacherID uint,
	dayOfWeek int,
) ([]domain.Window, error) {

	var rows []models.AvailabilityWindow
	if err := r.db.WithContext(ctx).
		Where("teacher_id = ? AND day_of_week = ?", teacherID, dayOfWeek).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	windows := make([]domain.Window, 0, len(rows))
	for _, row := range rows {
		w, err := ToWindow(row)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, nil
}

// ToWindow converts a stored row into the domain value. A row whose times do
// not parse is corrupt data and surfaces as an error.
func ToWindow(row models.AvailabilityWindow) (domain.Window, error) {
	start, err := domain.ParseTimeOfDay(row.StartTime)
	if err != nil {
		return domain.Window{}, fmt.Errorf("window %d start: %w", row.ID, err)
	}
	end, err := domain.ParseTimeOfDay(row.EndTime)
	if err != nil {
		return domain.Window{}, fmt.Errorf("window %d end: %w", row.ID, err)
	}
	return domain.Window{
		TeacherID:   row.TeacherID,
		DayOfWeek:   row.DayOfWeek,
		Start:       start,
		End:         end,
		IsAvailable: row.IsAvailable,
	}, nil
}

func (r *BookingGormRepository) ListActiveBookings(
	ctx context.Context,
	teacherID uint,
	statuses []domain.Status,
) ([]domain.Interval, error) {

	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	var rows []struct {
		ID        uint
		StartTime time.Time
		EndTime   time.Time
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("id", "start_time", "end_time").
		Where("teacher_id = ? AND status IN ?", teacherID, names).
		Order("start_time ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Interval, len(rows))
	for i, row := range rows {
		out[i] = domain.Interval{
			BookingID: row.ID,
			Start:     row.StartTime,
			End:       row.EndTime,
		}
	}
	return out, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Student").
		First(&b, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBookingForUpdate(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&b, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error
}

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
	f domain.Filter,
) ([]models.Booking, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Booking{})

	if f.TeacherID != 0 {
		q = q.Where("teacher_id = ?", f.TeacherID)
	}
	if f.StudentID != 0 {
		q = q.Where("student_id = ?", f.StudentID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.From != nil {
		q = q.Where("start_time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start_time < ?", *f.To)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset())
	}

	var list []models.Booking
	if err := q.
		Preload("Teacher").
		Preload("Student").
		Order("start_time ASC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *BookingGormRepository) WithTeacherLock(
	ctx context.Context,
	teacherID uint,
	fn func(tx domain.Repository) error,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", int64(teacherID)).Error; err != nil {
			return fmt.Errorf("lock teacher %d: %w", teacherID, err)
		}
		return fn(&BookingGormRepository{db: tx})
	})
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
