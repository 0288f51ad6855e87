package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/vsinha/plafosus/pkg/domain/entities"
)

// Event is one entry of a part's search audit trail
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	PartID     entities.PartID `json:"part_id"`
	Sequence   int             `json:"sequence"`
	Data       any             `json:"data"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// Log is an append-only audit trail of search runs with one stream per part.
// Nothing is replayed from it.
type Log interface {
	// Append stores the event and returns it with its stream sequence set
	Append(event Event) (Event, error)
	// Stream returns the events of one part from the given sequence on
	Stream(partID entities.PartID, fromSequence int) []Event
	// Since returns every event from the given global position on
	Since(position int) []Event
}

func newEvent(eventType string, partID entities.PartID, data any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		PartID:     partID,
		Data:       data,
		RecordedAt: time.Now(),
	}
}
