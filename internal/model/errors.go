package model

import "errors"

var (
	// ErrInvalidDate is returned when a date value cannot be normalized to
	// YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidKey is returned for override keys with a missing segment or
	// project, or an unknown stage.
	ErrInvalidKey = errors.New("invalid override key")
)
