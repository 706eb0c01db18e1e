package models

import "fmt"

// Status is the review state of a prototype. Transitions only move forward:
// submitted_not_reviewed -> submitted_reviewed -> approved | rejected.
type Status string

const (
	StatusNotReviewed Status = "submitted_not_reviewed"
	StatusReviewed    Status = "submitted_reviewed"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
)

var statusRank = map[Status]int{
	StatusNotReviewed: 0,
	StatusReviewed:    1,
	StatusApproved:    2,
	StatusRejected:    2,
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanAdvanceTo reports whether moving from s to next keeps the workflow
// monotonic. Terminal statuses cannot advance further.
func (s Status) CanAdvanceTo(next Status) bool {
	from, ok1 := statusRank[s]
	to, ok2 := statusRank[next]
	if !ok1 || !ok2 {
		return false
	}
	return to > from
}

func (s Status) Label() string {
	switch s {
	case StatusNotReviewed:
		return "Submitted (Not Reviewed)"
	case StatusReviewed:
		return "Submitted (Reviewed)"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	default:
		return fmt.Sprintf("Unknown (%s)", string(s))
	}
}
