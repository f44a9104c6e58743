package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/tutor-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
)

// CheckAvailability answers a "could I book this?" query without taking the
// teacher lock. The answer can be stale by the time a booking is created.
type CheckAvailability struct {
	resolver *domain.Resolver
	metrics  Observer
}

func NewCheckAvailability(
	repo domain.Repository,
	loc *time.Location,
	metrics Observer,
) *CheckAvailability {
	return &CheckAvailability{
		resolver: domain.NewResolver(repo, repo, repo, loc),
		metrics:  metrics,
	}
}

func (uc *CheckAvailability) Execute(
	ctx context.Context,
	teacherID uint,
	start time.Time,
	end time.Time,
) (domain.Result, error) {

	if !start.Before(end) {
		return domain.Result{}, httperr.ErrBusiness("invalid_interval")
	}

	res, err := uc.resolver.CheckAvailability(ctx, teacherID, start, end)
	if err != nil {
		uc.metrics.ObserveAvailability("error")
		return domain.Result{}, err
	}

	uc.metrics.ObserveAvailability(res.String())
	return res, nil
}
