package booking

import (
	"github.com/BruksfildServices01/tutor-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/tutor-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
	"github.com/BruksfildServices01/tutor-marketplace/internal/notify"
)

type Auditor interface {
	Dispatch(ev audit.Event)
}

type Notifier interface {
	Notify(ev notify.Event)
}

// Observer records availability decisions.
type Observer interface {
	ObserveAvailability(result string)
}

// ReasonError turns a resolver rejection into the business error handlers
// map to a status code.
func ReasonError(r domain.Reason) error {
	return httperr.ErrBusiness(string(r))
}
