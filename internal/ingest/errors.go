package ingest

import "errors"

var (
	// ErrSourceUnavailable means a workbook could not be fetched or opened.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMissingHeader means an expected sheet or header column was not found.
	ErrMissingHeader = errors.New("missing header")
)

// SourceError attaches the source name to an ingestion failure.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return e.Source + ": " + e.Err.Error()
}

func (e *SourceError) Unwrap() error { return e.Err }
