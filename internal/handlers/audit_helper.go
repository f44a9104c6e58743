package handlers

import (
	"github.com/BruksfildServices01/tutor-marketplace/internal/audit"
)

// Auditor accepts audit events without blocking the request.
type Auditor interface {
	Dispatch(ev audit.Event)
}

func auditEvent(
	actorID uint,
	action string,
	entity string,
	entityID uint,
	meta any,
) audit.Event {
	return audit.Event{
		ActorID:  &actorID,
		Action:   action,
		Entity:   entity,
		EntityID: &entityID,
		Metadata: meta,
	}
}
