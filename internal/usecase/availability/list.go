package availability

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/tutor-marketplace/internal/cache"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
)

type CacheObserver interface {
	ObserveCacheLookup(hit bool)
}

type ListWindows struct {
	repo    Repository
	cache   cache.WindowCache
	metrics CacheObserver
	log     *zap.Logger
}

func NewListWindows(
	repo Repository,
	windowCache cache.WindowCache,
	metrics CacheObserver,
	log *zap.Logger,
) *ListWindows {
	if log == nil {
		log = zap.NewNop()
	}
	return &ListWindows{
		repo:    repo,
		cache:   windowCache,
		metrics: metrics,
		log:     log,
	}
}

// Execute returns the full weekly schedule ordered by day then start. Cache
// failures fall back to the database.
func (uc *ListWindows) Execute(
	ctx context.Context,
	teacherID uint,
) ([]models.AvailabilityWindow, error) {

	windows, hit, err := uc.cache.GetWindows(ctx, teacherID)
	if err != nil {
		uc.log.Warn("window cache read failed", zap.Uint("teacher_id", teacherID), zap.Error(err))
	}
	uc.metrics.ObserveCacheLookup(hit)
	if hit {
		return windows, nil
	}

	exists, err := uc.repo.TeacherExists(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, httperr.ErrBusiness("teacher_not_found")
	}

	windows, err = uc.repo.ListAllWindows(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	if err := uc.cache.SetWindows(ctx, teacherID, windows); err != nil {
		uc.log.Warn("window cache write failed", zap.Uint("teacher_id", teacherID), zap.Error(err))
	}
	return windows, nil
}
