package services

import "errors"

// Fehler-Taxonomie des Backends. Handler mappen die Sentinels per errors.Is
// auf HTTP-Statuscodes; Services wrappen sie mit fmt.Errorf("%w: ...").
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUpstream          = errors.New("upstream provider failed")
)
