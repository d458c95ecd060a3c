package ingest

import (
	"sort"

	"github.com/nhle/obra-tracker/internal/model"
)

// Dataset is the immutable result of one ingestion run.
type Dataset struct {
	segments   map[model.Segment][]model.Project
	order      []model.Segment
	stageDates map[string]map[model.Stage]model.Date

	// Fallback is set when the material workbook produced nothing and
	// placeholder segments were generated instead.
	Fallback bool
}

// NewDataset builds a dataset from projects (grouped by their segment, in
// the given order) and per-project source stage dates.
func NewDataset(projects []model.Project, stageDates map[string]map[model.Stage]model.Date) *Dataset {
	ds := &Dataset{
		segments:   make(map[model.Segment][]model.Project),
		stageDates: make(map[string]map[model.Stage]model.Date, len(stageDates)),
	}
	for _, p := range projects {
		if _, ok := ds.segments[p.Segment]; !ok {
			ds.order = append(ds.order, p.Segment)
		}
		ds.segments[p.Segment] = append(ds.segments[p.Segment], p)
	}
	sort.SliceStable(ds.order, func(i, j int) bool {
		return model.SegmentLess(ds.order[i], ds.order[j])
	})
	for name, dates := range stageDates {
		cp := make(map[model.Stage]model.Date, len(dates))
		for st, d := range dates {
			cp[st] = d
		}
		ds.stageDates[name] = cp
	}
	return ds
}

// SortedSegments returns segments in natural order.
func (d *Dataset) SortedSegments() []model.Segment {
	out := make([]model.Segment, len(d.order))
	copy(out, d.order)
	return out
}

// Projects returns the projects of a segment in workbook order.
func (d *Dataset) Projects(segment model.Segment) []model.Project {
	ps := d.segments[segment]
	out := make([]model.Project, len(ps))
	copy(out, ps)
	return out
}

// Items returns the contractual items listing for a segment.
func (d *Dataset) Items(segment model.Segment) []model.ContractItem {
	ps := d.segments[segment]
	out := make([]model.ContractItem, 0, len(ps))
	for _, p := range ps {
		out = append(out, model.ContractItem{Item: p.Name, Year: p.Year})
	}
	return out
}

// SourceDate returns the workbook completion date of a project's stage.
func (d *Dataset) SourceDate(project string, stage model.Stage) model.Date {
	return d.stageDates[project][stage]
}

// HasProject reports whether project belongs to segment.
func (d *Dataset) HasProject(segment model.Segment, project string) bool {
	for _, p := range d.segments[segment] {
		if p.Name == project {
			return true
		}
	}
	return false
}

// ProjectCount returns the total number of projects across segments.
func (d *Dataset) ProjectCount() int {
	n := 0
	for _, ps := range d.segments {
		n += len(ps)
	}
	return n
}

// DatedProjectCount returns how many projects have source stage dates.
func (d *Dataset) DatedProjectCount() int { return len(d.stageDates) }
