package order

import "fmt"

// Status is the order lifecycle state. The seller drives every transition;
// the buyer only observes.
type Status string

const (
	StatusPending  Status = "pending"
	StatusCooking  Status = "cooking"
	StatusReady    Status = "ready"
	StatusRejected Status = "rejected"
)

// transitions is the full legality table. Anything not listed is illegal,
// so orders never move backward and terminal states accept nothing.
var transitions = map[Status][]Status{
	StatusPending: {StatusCooking, StatusRejected},
	StatusCooking: {StatusReady},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition can leave s.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// ParseStatus validates a status string from the wire or the database.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusPending, StatusCooking, StatusReady, StatusRejected:
		return s, nil
	default:
		return "", fmt.Errorf("unknown order status %q", raw)
	}
}
