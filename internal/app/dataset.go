package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/obra-tracker/internal/ingest"
	"github.com/nhle/obra-tracker/internal/model"
	"github.com/nhle/obra-tracker/internal/schedule"
	appsync "github.com/nhle/obra-tracker/internal/sync"
)

// segmentDerivedMsg carries a freshly derived segment view.
type segmentDerivedMsg struct {
	view schedule.SegmentView
	err  error
}

// overrideSavedMsg is sent after a date override has been persisted.
type overrideSavedMsg struct {
	key   model.OverrideKey
	value string
	err   error
}

// reload starts a new ingestion pass unless one is already running.
func (m *Model) reload() tea.Cmd {
	cmd := m.reloader.LoadCmd()
	if cmd != nil {
		m.loading = true
	}
	return cmd
}

// applyDataset swaps in a newly loaded dataset and re-derives the open
// segment, if it still exists.
func (m *Model) applyDataset(msg appsync.DatasetLoadedMsg) tea.Cmd {
	m.loading = false
	m.dataset = msg.Dataset
	m.engine = schedule.NewEngine(msg.Dataset, m.store, m.clock)
	m.warnings = ingest.Describe(msg.Warnings)

	segs := msg.Dataset.SortedSegments()
	counts := make(map[model.Segment]int, len(segs))
	for _, s := range segs {
		counts[s] = len(msg.Dataset.Projects(s))
	}
	listCmd := m.segmentList.SetSegments(segs, counts)

	autoOpen := m.autoOpen
	m.autoOpen = false
	if m.segment == "" {
		return listCmd
	}
	if !m.engine.HasSegment(m.segment) {
		m.log.Warn("open segment vanished after reload", zap.String("segment", string(m.segment)))
		m.message = fmt.Sprintf("segmento %s não encontrado", m.segment)
		m.segment = ""
		m.currentView = ViewSegments
		return listCmd
	}
	if autoOpen && m.currentView == ViewSegments {
		m.currentView = ViewDashboard
	}
	return tea.Batch(listCmd, m.deriveSegment())
}

// deriveSegment recomputes the open segment from the dataset and the
// current overrides.
func (m Model) deriveSegment() tea.Cmd {
	engine, seg := m.engine, m.segment
	if engine == nil || seg == "" {
		return nil
	}
	return func() tea.Msg {
		view, err := engine.SegmentView(context.Background(), seg)
		if err != nil {
			view.Segment = seg
		}
		return segmentDerivedMsg{view: view, err: err}
	}
}

// saveOverride persists a date. The view is only re-derived once the
// write has succeeded.
func (m Model) saveOverride(key model.OverrideKey, value string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.Set(context.Background(), key, value)
		return overrideSavedMsg{key: key, value: value, err: err}
	}
}

func savedMessage(key model.OverrideKey, value string) string {
	what := "data prevista"
	if key.Kind == model.KindActual {
		what = "data real"
	}
	if value == "" {
		return fmt.Sprintf("%s de %s removida", what, key.Stage)
	}
	return fmt.Sprintf("%s de %s salva", what, key.Stage)
}
