package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
)

type AvailabilityGormRepository struct {
	db *gorm.DB
}

func NewAvailabilityGormRepository(db *gorm.DB) *AvailabilityGormRepository {
	return &AvailabilityGormRepository{db: db}
}

func (r *AvailabilityGormRepository) TeacherExists(
	ctx context.Context,
	teacherID uint,
) (bool, error) {
	return NewBookingGormRepository(r.db).TeacherExists(ctx, teacherID)
}

// ReplaceWindows deletes every window of the teacher and inserts the new set
// in one transaction. An empty set clears the schedule.
func (r *AvailabilityGormRepository) ReplaceWindows(
	ctx context.Context,
	teacherID uint,
	windows []models.AvailabilityWindow,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("teacher_id = ?", teacherID).
			Delete(&models.AvailabilityWindow{}).Error; err != nil {
			return fmt.Errorf("clear windows: %w", err)
		}

		if len(windows) == 0 {
			return nil
		}

		for i := range windows {
			windows[i].TeacherID = teacherID
		}
		if err := tx.Create(&windows).Error; err != nil {
			return fmt.Errorf("insert windows: %w", err)
		}
		return nil
	})
}

func (r *AvailabilityGormRepository) ListAllWindows(
	ctx context.Context,
	teacherID uint,
) ([]models.AvailabilityWindow, error) {

	var windows []models.AvailabilityWindow
	if err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("day_of_week ASC").
		Order("start_time ASC").
		Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}
