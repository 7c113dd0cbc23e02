// Package telemetry provides population tracking, bookmarking and CSV output.
package telemetry

import "github.com/pthm-cable/ocean/components"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventBirth EventType = iota
	EventDeath
)

// String returns the display name for an EventType.
func (t EventType) String() string {
	if t == EventBirth {
		return "birth"
	}
	return "death"
}

// Event represents a single population event.
type Event struct {
	Type      EventType
	Iteration int // iteration the event happened in, numbered like frames (1..n)
	Kind      components.Kind
	Cause     components.DeathCause // deaths only
}

// NewBirthEvent creates a birth event.
func NewBirthEvent(iteration int, kind components.Kind) Event {
	return Event{Type: EventBirth, Iteration: iteration, Kind: kind}
}

// NewDeathEvent creates a death event.
func NewDeathEvent(iteration int, kind components.Kind, cause components.DeathCause) Event {
	return Event{Type: EventDeath, Iteration: iteration, Kind: kind, Cause: cause}
}

// EventCSV is the flat form of an Event written to events.csv.
type EventCSV struct {
	Iteration int    `csv:"iteration"`
	Type      string `csv:"type"`
	Kind      string `csv:"kind"`
	Cause     string `csv:"cause"`
}

// ToCSV converts the event to its CSV row.
func (e Event) ToCSV() EventCSV {
	row := EventCSV{
		Iteration: e.Iteration,
		Type:      e.Type.String(),
		Kind:      e.Kind.String(),
	}
	if e.Type == EventDeath {
		row.Cause = e.Cause.String()
	}
	return row
}
