package models

import "time"

// Draft is a locally saved workflow form. Drafts survive a failed submit and
// a restart of the shell, keyed by workflow kind and target prototype id
// (0 for a new submission).
type Draft struct {
	Kind        string
	PrototypeID int64
	Payload     []byte
	UpdatedAt   time.Time
}
