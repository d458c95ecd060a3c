// Package sync reloads the workbook dataset in the background and turns
// the results into Bubble Tea messages.
package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/obra-tracker/internal/ingest"
)

// DatasetLoader is implemented by ingest.Loader.
type DatasetLoader interface {
	Load(ctx context.Context) (*ingest.Dataset, []error)
}

// LoadState represents the current state of the reloader.
type LoadState int

const (
	LoadIdle LoadState = iota
	LoadRunning
)

// DatasetLoadedMsg is a tea.Msg sent when an ingestion pass completes.
// Dataset is never nil; Warnings lists sources that could not be read.
type DatasetLoadedMsg struct {
	Dataset  *ingest.Dataset
	Warnings []error
	LoadedAt time.Time
}

// Reloader runs ingestion passes, at most one at a time.
type Reloader struct {
	loader DatasetLoader

	mu       gosync.Mutex
	state    LoadState
	lastLoad time.Time
}

// NewReloader creates a Reloader around loader.
func NewReloader(loader DatasetLoader) *Reloader {
	return &Reloader{loader: loader}
}

// LoadCmd returns a tea.Cmd that runs one ingestion pass. It returns nil
// when a pass is already in flight, so repeated reload requests collapse.
func (r *Reloader) LoadCmd() tea.Cmd {
	r.mu.Lock()
	if r.state == LoadRunning {
		r.mu.Unlock()
		return nil
	}
	r.state = LoadRunning
	r.mu.Unlock()

	return func() tea.Msg {
		ds, warnings := r.loader.Load(context.Background())
		now := time.Now()

		r.mu.Lock()
		r.state = LoadIdle
		r.lastLoad = now
		r.mu.Unlock()

		return DatasetLoadedMsg{Dataset: ds, Warnings: warnings, LoadedAt: now}
	}
}

// State returns the current load state.
func (r *Reloader) State() LoadState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// LastLoad returns when the last pass finished, or the zero time.
func (r *Reloader) LastLoad() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastLoad
}
