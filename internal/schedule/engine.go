package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/obra-tracker/internal/model"
)

// ErrUnknownSegment is returned when a segment is not in the dataset.
var ErrUnknownSegment = errors.New("unknown segment")

// Source is the read-only ingestion result the engine derives from.
type Source interface {
	SortedSegments() []model.Segment
	Projects(segment model.Segment) []model.Project
	Items(segment model.Segment) []model.ContractItem
	SourceDate(project string, stage model.Stage) model.Date
}

// OverrideReader is the read side of the override store.
type OverrideReader interface {
	Get(ctx context.Context, key model.OverrideKey) (model.Date, bool, error)
}

// Engine combines an ingested dataset with user overrides.
type Engine struct {
	source    Source
	overrides OverrideReader
	clock     model.Clock
}

// NewEngine creates an engine. A nil clock means the system clock.
func NewEngine(src Source, overrides OverrideReader, clock model.Clock) *Engine {
	return &Engine{source: src, overrides: overrides, clock: clock}
}

// Segments returns the dataset's segments in natural order.
func (e *Engine) Segments() []model.Segment {
	return e.source.SortedSegments()
}

// HasSegment reports whether segment exists in the dataset.
func (e *Engine) HasSegment(segment model.Segment) bool {
	for _, s := range e.source.SortedSegments() {
		if s == segment {
			return true
		}
	}
	return false
}

// Today returns the engine clock's current date.
func (e *Engine) Today() model.Date { return e.clock.Today() }

// Records merges source dates with the user's overrides for one project,
// one record per stage in display order.
func (e *Engine) Records(
	ctx context.Context,
	segment model.Segment,
	project string,
) ([]model.MilestoneRecord, error) {
	all := model.AllStages()
	records := make([]model.MilestoneRecord, 0, len(all))
	for _, st := range all {
		rec := model.MilestoneRecord{
			Stage:        st,
			SourceActual: e.source.SourceDate(project, st),
		}

		key := model.OverrideKey{Segment: segment, Project: project, Stage: st, Kind: model.KindPlanned}
		planned, ok, err := e.overrides.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("reading planned date for %s: %w", key, err)
		}
		if ok {
			rec.UserPlanned = planned
		}

		key.Kind = model.KindActual
		actual, ok, err := e.overrides.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("reading actual date for %s: %w", key, err)
		}
		if ok {
			rec.UserActual = actual
		}

		records = append(records, rec)
	}
	return records, nil
}

// SegmentView derives the dashboard for every project of a segment.
func (e *Engine) SegmentView(ctx context.Context, segment model.Segment) (SegmentView, error) {
	if !e.HasSegment(segment) {
		return SegmentView{}, fmt.Errorf("%w: %q", ErrUnknownSegment, segment)
	}

	today := e.Today()
	view := SegmentView{
		Segment: segment,
		Today:   today,
		Items:   e.source.Items(segment),
	}
	for _, p := range e.source.Projects(segment) {
		records, err := e.Records(ctx, segment, p.Name)
		if err != nil {
			return SegmentView{}, err
		}
		view.Projects = append(view.Projects, DeriveProjectView(p, records, today))
	}
	return view, nil
}
