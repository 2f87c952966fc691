package sentinel

import "errors"

// Sentinel errors for persistence facts. Stores return these (optionally
// wrapped) so services can translate them into coded domain errors.
//
//   - ErrNotFound: row does not exist (or was hard-removed)
//   - ErrAlreadyUsed: a unique key is taken (duplicate id, duplicate type name)
//   - ErrConflict: a write lost to a concurrent writer
//   - ErrUnavailable: backing service temporarily unavailable
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrAlreadyUsed = errors.New("already used")
	ErrUnavailable = errors.New("unavailable")
)
