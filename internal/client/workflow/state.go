// Package workflow implements the modal views used to submit, edit, review,
// shelve and inspect a prototype.
//
// A Modal is a small state machine:
//
//	Closed -> Loading -> Ready -> Submitting -> Closed
//	             |                    |
//	             v                    v
//	           Error                Ready (with message)
//
// Every transition that starts a network call captures the modal's
// generation. Close, Retarget and Hide bump the generation, so a response
// belonging to an earlier generation is dropped instead of applied.
package workflow

import "github.com/dmitrijs2005/protodesk/internal/validation"

type State int

const (
	Closed State = iota
	Loading
	Ready
	Submitting
	Error
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Submitting:
		return "submitting"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Kind selects which workflow a modal runs.
type Kind int

const (
	KindSubmit Kind = iota
	KindEdit
	KindReview
	KindAssignStorage
	KindViewDetail
	KindApprove
)

func (k Kind) String() string {
	switch k {
	case KindSubmit:
		return "submit"
	case KindEdit:
		return "edit"
	case KindReview:
		return "review"
	case KindAssignStorage:
		return "assign_storage"
	case KindViewDetail:
		return "view"
	case KindApprove:
		return "approve"
	default:
		return "unknown"
	}
}

// needsRecord reports whether opening the modal fetches the target first.
func (k Kind) needsRecord() bool {
	return k != KindSubmit
}

// ValidationError is returned by Submit when the form is rejected locally.
type ValidationError = validation.Error
