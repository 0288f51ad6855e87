package events

import (
	"fmt"
	"sync"

	"github.com/vsinha/plafosus/pkg/domain/entities"
)

// MemoryLog keeps the audit trail in process memory
type MemoryLog struct {
	mutex   sync.RWMutex
	events  []Event
	streams map[entities.PartID][]int
}

var _ Log = (*MemoryLog)(nil)

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{streams: make(map[entities.PartID][]int)}
}

func (l *MemoryLog) Append(event Event) (Event, error) {
	if event.PartID == "" {
		return Event{}, fmt.Errorf("event %q has no part id", event.Type)
	}
	if event.Type == "" {
		return Event{}, fmt.Errorf("event for part %s has no type", event.PartID)
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	event.Sequence = len(l.streams[event.PartID]) + 1
	l.streams[event.PartID] = append(l.streams[event.PartID], len(l.events))
	l.events = append(l.events, event)
	return event, nil
}

func (l *MemoryLog) Stream(partID entities.PartID, fromSequence int) []Event {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	positions := l.streams[partID]
	if fromSequence < 1 {
		fromSequence = 1
	}
	if fromSequence > len(positions) {
		return []Event{}
	}

	result := make([]Event, 0, len(positions)-fromSequence+1)
	for _, pos := range positions[fromSequence-1:] {
		result = append(result, l.events[pos])
	}
	return result
}

func (l *MemoryLog) Since(position int) []Event {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	if position < 0 {
		position = 0
	}
	if position >= len(l.events) {
		return []Event{}
	}

	result := make([]Event, len(l.events)-position)
	copy(result, l.events[position:])
	return result
}

// CountByType tallies the events of the whole trail per event type
func (l *MemoryLog) CountByType() map[string]int {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	counts := make(map[string]int)
	for _, e := range l.events {
		counts[e.Type]++
	}
	return counts
}
