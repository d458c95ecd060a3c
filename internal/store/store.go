package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/nhle/obra-tracker/internal/model"
)

// ErrHistoryUnsupported is returned by backends that keep no audit trail.
var ErrHistoryUnsupported = errors.New("override history not supported by this backend")

// ErrUnrecognizedFile is returned when the JSON backend's file is not an
// overrides document, typically a browser export that belongs in
// import-legacy.
var ErrUnrecognizedFile = errors.New("not an obratrack overrides file (browser exports must go through import-legacy)")

// OverrideStore persists user-entered planned and actual dates.
//
// Set normalizes the value to YYYY-MM-DD; a blank value deletes the key, so
// the store never holds empty values. Every mutation is durable by the time
// Set or Delete returns.
type OverrideStore interface {
	Get(ctx context.Context, key model.OverrideKey) (model.Date, bool, error)
	Set(ctx context.Context, key model.OverrideKey, value string) error
	Delete(ctx context.Context, key model.OverrideKey) error
	All(ctx context.Context) (map[model.OverrideKey]model.Date, error)
	Close() error
}

// HistoryEntry records a single change to an override.
type HistoryEntry struct {
	ID        string            `json:"id" db:"id"`
	Key       model.OverrideKey `json:"key"`
	OldValue  string            `json:"old_value" db:"old_value"`
	NewValue  string            `json:"new_value" db:"new_value"`
	ChangedAt time.Time         `json:"changed_at" db:"changed_at"`
}

// HistoryReader is implemented by backends that keep an audit trail.
type HistoryReader interface {
	History(ctx context.Context, key model.OverrideKey) ([]HistoryEntry, error)
}

// Open returns the backend selected by cfg.
func Open(cfg model.StoreConfig) (OverrideStore, error) {
	switch cfg.Backend {
	case model.BackendJSON:
		return NewFileStore(cfg.Path)
	default:
		return NewSQLiteStore(cfg.Path)
	}
}

// normalize validates the key and parses value. A zero Date means "clear".
func normalize(key model.OverrideKey, value string) (model.Date, error) {
	if err := key.Validate(); err != nil {
		return model.Date{}, err
	}
	return model.ParseDate(value)
}

// SortedKeys returns the keys of m ordered by segment, project, stage
// order and kind.
func SortedKeys(m map[model.OverrideKey]model.Date) []model.OverrideKey {
	keys := make([]model.OverrideKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Segment != b.Segment {
			return model.SegmentLess(a.Segment, b.Segment)
		}
		if a.Project != b.Project {
			return a.Project < b.Project
		}
		if a.Stage != b.Stage {
			return a.Stage.Index() < b.Stage.Index()
		}
		return a.Kind < b.Kind
	})
	return keys
}
