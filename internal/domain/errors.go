package domain

import "errors"

var (
	// ErrQuizNotFound indicates the identifier does not resolve to a document.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrValidation is returned when a draft fails publish-time validation.
	ErrValidation = errors.New("validation failed")
	// ErrInvariant is returned when an edit would break a document invariant,
	// e.g. deleting the last remaining question.
	ErrInvariant = errors.New("invariant violation")
	// ErrInvalidState marks a call that is illegal in the session's current
	// state. It signals a caller bug, not a user-facing condition.
	ErrInvalidState = errors.New("invalid session state")
)
