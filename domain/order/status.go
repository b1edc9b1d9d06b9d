package order

// Status order lifecycle state
type Status string

const (
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusProcessing     Status = "PROCESSING"
	StatusConfirmed      Status = "CONFIRMED"
	StatusShipped        Status = "SHIPPED"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
)

// transitions legal moves; terminal states have none
var transitions = map[Status][]Status{
	StatusPendingPayment: {StatusProcessing, StatusCancelled},
	StatusProcessing:     {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusShipped},
	StatusShipped:        {StatusDelivered},
	StatusDelivered:      nil,
	StatusCancelled:      nil,
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal DELIVERED and CANCELLED accept no further transitions
func (s Status) IsTerminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanTransitionTo reports whether target is reachable in one step
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// NextStatuses legal targets from s
func (s Status) NextStatuses() []Status {
	next := make([]Status, len(transitions[s]))
	copy(next, transitions[s])
	return next
}

func (s Status) String() string { return string(s) }
