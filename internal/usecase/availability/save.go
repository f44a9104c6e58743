package availability

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tutor-marketplace/internal/audit"
	"github.com/BruksfildServices01/tutor-marketplace/internal/cache"
	domain "github.com/BruksfildServices01/tutor-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
)

type Repository interface {
	TeacherExists(ctx context.Context, teacherID uint) (bool, error)
	ReplaceWindows(ctx context.Context, teacherID uint, windows []models.AvailabilityWindow) error
	ListAllWindows(ctx context.Context, teacherID uint) ([]models.AvailabilityWindow, error)
}

type Auditor interface {
	Dispatch(ev audit.Event)
}

// ======================================================
// INPUT
// ======================================================

type WindowInput struct {
	DayOfWeek   int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime   string `json:"start_time" validate:"required,timeofday"`
	EndTime     string `json:"end_time" validate:"required,timeofday"`
	IsAvailable *bool  `json:"is_available"`
}

type SaveWindowsInput struct {
	TeacherID uint
	Windows   []WindowInput `validate:"max=100,dive"`
}

// ======================================================
// USE CASE
// ======================================================

type SaveWindows struct {
	repo     Repository
	cache    cache.WindowCache
	audit    Auditor
	validate *validator.Validate
	log      *zap.Logger
}

func NewSaveWindows(
	repo Repository,
	windowCache cache.WindowCache,
	audit Auditor,
	validate *validator.Validate,
	log *zap.Logger,
) (*SaveWindows, error) {
	if validate == nil {
		validate = validator.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if err := validate.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseTimeOfDay(fl.Field().String())
		return err == nil
	}); err != nil {
		return nil, fmt.Errorf("register timeofday validation: %w", err)
	}

	return &SaveWindows{
		repo:     repo,
		cache:    windowCache,
		audit:    audit,
		validate: validate,
		log:      log,
	}, nil
}

// Execute replaces the teacher's whole weekly schedule.
func (uc *SaveWindows) Execute(
	ctx context.Context,
	in SaveWindowsInput,
) ([]models.AvailabilityWindow, error) {

	if err := uc.validate.Struct(in); err != nil {
		return nil, httperr.ErrBusiness("invalid_window")
	}

	rows := make([]models.AvailabilityWindow, 0, len(in.Windows))
	for _, w := range in.Windows {
		start := domain.MustTimeOfDay(w.StartTime)
		end := domain.MustTimeOfDay(w.EndTime)

		// end <= start also rejects windows crossing midnight
		if !start.Before(end) {
			return nil, httperr.ErrBusiness("invalid_window")
		}

		available := true
		if w.IsAvailable != nil {
			available = *w.IsAvailable
		}

		rows = append(rows, models.AvailabilityWindow{
			TeacherID:   in.TeacherID,
			DayOfWeek:   w.DayOfWeek,
			StartTime:   start.String(),
			EndTime:     end.String(),
			IsAvailable: available,
		})
	}

	if err := uc.repo.ReplaceWindows(ctx, in.TeacherID, rows); err != nil {
		return nil, fmt.Errorf("replace windows: %w", err)
	}

	if err := uc.cache.Invalidate(ctx, in.TeacherID); err != nil {
		uc.log.Warn("window cache invalidation failed",
			zap.Uint("teacher_id", in.TeacherID),
			zap.Error(err),
		)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.TeacherID,
		Action:   "windows_replaced",
		Entity:   "availability_window",
		Metadata: map[string]any{"count": len(rows)},
	})

	return rows, nil
}
