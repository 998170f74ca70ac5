package controller

import (
	"time"

	"github.com/akyairhashvil/taskspill/internal/models"
)

// EventType defines the type of controller event.
type EventType string

const (
	EventTick               EventType = "tick"
	EventStateChange        EventType = "state_change"
	EventIntervalComplete   EventType = "interval_complete"
	EventPersistenceFailure EventType = "persistence_failure"
)

// Event is a controller update for observers.
type Event struct {
	Type      EventType
	TaskID    int64
	TaskName  string
	Kind      models.IntervalKind
	Remaining time.Duration
	Err       error
	At        time.Time
}
