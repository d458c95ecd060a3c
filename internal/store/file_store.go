package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nhle/obra-tracker/internal/model"
)

// fileFormatVersion is written into every overrides file.
const fileFormatVersion = 1

// fileEntry is one override as serialized in the JSON file.
type fileEntry struct {
	model.OverrideKey
	Value model.Date `json:"value"`
}

type fileDocument struct {
	Version   int         `json:"version"`
	Overrides []fileEntry `json:"overrides"`
}

// FileStore keeps overrides in a single JSON file. The file is read once at
// open and rewritten in full on every mutation.
type FileStore struct {
	path  string
	mu    sync.RWMutex
	cache map[model.OverrideKey]model.Date
}

// NewFileStore loads path, treating a missing file as an empty mapping.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path, cache: make(map[model.OverrideKey]model.Date)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading overrides file %s: %w", path, err)
	}
	if len(data) == 0 {
		return fs, nil
	}

	doc, err := decodeFileDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrUnrecognizedFile, path, err)
	}
	for _, e := range doc.Overrides {
		if e.Value.IsZero() || e.OverrideKey.Validate() != nil {
			continue
		}
		fs.cache[e.OverrideKey] = e.Value
	}
	return fs, nil
}

// decodeFileDocument accepts only the versioned document flush writes. A
// browser export (a flat object of legacy keys) fails here instead of loading
// as an empty mapping that the next write would overwrite.
func decodeFileDocument(data []byte) (fileDocument, error) {
	var doc fileDocument
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return fileDocument{}, err
	}
	if doc.Version != fileFormatVersion {
		return fileDocument{}, fmt.Errorf("format version %d, want %d", doc.Version, fileFormatVersion)
	}
	return doc, nil
}

// Get returns the override for key, if any.
func (f *FileStore) Get(_ context.Context, key model.OverrideKey) (model.Date, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	d, ok := f.cache[key]
	return d, ok, nil
}

// All returns a copy of every stored override.
func (f *FileStore) All(_ context.Context) (map[model.OverrideKey]model.Date, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[model.OverrideKey]model.Date, len(f.cache))
	for k, v := range f.cache {
		out[k] = v
	}
	return out, nil
}

// Set upserts the override for key. A blank value deletes it instead.
func (f *FileStore) Set(ctx context.Context, key model.OverrideKey, value string) error {
	d, err := normalize(key, value)
	if err != nil {
		return err
	}
	if d.IsZero() {
		return f.Delete(ctx, key)
	}
	return f.mutate(func(m map[model.OverrideKey]model.Date) { m[key] = d })
}

// Delete removes the override for key.
func (f *FileStore) Delete(_ context.Context, key model.OverrideKey) error {
	if err := key.Validate(); err != nil {
		return err
	}
	return f.mutate(func(m map[model.OverrideKey]model.Date) { delete(m, key) })
}

// Close is a no-op; every mutation is already on disk.
func (f *FileStore) Close() error { return nil }

// mutate applies fn to a copy of the mapping, persists the copy and only
// then swaps it in, so a failed write leaves memory and disk in agreement.
func (f *FileStore) mutate(fn func(map[model.OverrideKey]model.Date)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := make(map[model.OverrideKey]model.Date, len(f.cache)+1)
	for k, v := range f.cache {
		next[k] = v
	}
	fn(next)

	if err := f.flush(next); err != nil {
		return err
	}
	f.cache = next
	return nil
}

// flush serializes the whole mapping and atomically replaces the file.
func (f *FileStore) flush(m map[model.OverrideKey]model.Date) error {
	doc := fileDocument{Version: fileFormatVersion, Overrides: make([]fileEntry, 0, len(m))}
	for _, k := range SortedKeys(m) {
		doc.Overrides = append(doc.Overrides, fileEntry{OverrideKey: k, Value: m[k]})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding overrides: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating overrides directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".overrides-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing overrides: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing overrides: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing overrides temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replacing overrides file %s: %w", f.path, err)
	}
	return nil
}
