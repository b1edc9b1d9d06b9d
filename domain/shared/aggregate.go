package shared

// AggregateRoot entry point of a consistency boundary
// Aggregates record events while changing state; the unit of work pulls them
// and stores them in the outbox inside the same transaction.
type AggregateRoot interface {
	ID() string

	// Version optimistic lock version
	Version() int

	// PullEvents returns and clears the recorded events
	PullEvents() []DomainEvent
}

// EventRecorder embeddable event buffer for aggregates
type EventRecorder struct {
	events []DomainEvent
}

// Record appends an event
func (r *EventRecorder) Record(event DomainEvent) {
	r.events = append(r.events, event)
}

// PullEvents returns recorded events and empties the buffer
func (r *EventRecorder) PullEvents() []DomainEvent {
	events := r.events
	r.events = nil
	return events
}
