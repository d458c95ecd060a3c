package schedule

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/obra-tracker/internal/model"
)

type fakeSource struct {
	projects map[model.Segment][]model.Project
	dates    map[string]map[model.Stage]model.Date
}

func (f fakeSource) SortedSegments() []model.Segment {
	var out []model.Segment
	for s := range f.projects {
		out = append(out, s)
	}
	return out
}

func (f fakeSource) Projects(s model.Segment) []model.Project { return f.projects[s] }

func (f fakeSource) Items(s model.Segment) []model.ContractItem {
	var out []model.ContractItem
	for _, p := range f.projects[s] {
		out = append(out, model.ContractItem{Item: p.Name, Year: p.Year})
	}
	return out
}

func (f fakeSource) SourceDate(project string, st model.Stage) model.Date {
	return f.dates[project][st]
}

type mapOverrides map[model.OverrideKey]model.Date

func (m mapOverrides) Get(_ context.Context, k model.OverrideKey) (model.Date, bool, error) {
	v, ok := m[k]
	return v, ok, nil
}

type failingOverrides struct{}

func (failingOverrides) Get(context.Context, model.OverrideKey) (model.Date, bool, error) {
	return model.Date{}, false, errors.New("disk gone")
}

func newFixture() fakeSource {
	return fakeSource{
		projects: map[model.Segment][]model.Project{
			"SH 01": {
				{Name: "Obra A", Segment: "SH 01", Year: "2025"},
				{Name: "Obra B", Segment: "SH 01"},
			},
		},
		dates: map[string]map[model.Stage]model.Date{
			"Obra A": {
				model.StageAnteprojeto: d("2024-11-01"),
				model.StageExecutivo:   d("2025-01-01"),
			},
		},
	}
}

func TestEngineSegmentView(t *testing.T) {
	ov := mapOverrides{
		{Segment: "SH 01", Project: "Obra A", Stage: model.StageExecutivo, Kind: model.KindActual}:  d("2025-02-01"),
		{Segment: "SH 01", Project: "Obra A", Stage: model.StageExecutivo, Kind: model.KindPlanned}: d("2025-01-15"),
		{Segment: "SH 01", Project: "Obra B", Stage: model.StageInicioObra, Kind: model.KindPlanned}: d("2025-02-28"),
	}
	e := NewEngine(newFixture(), ov, model.FixedClock(d("2025-03-01")))

	v, err := e.SegmentView(context.Background(), "SH 01")
	require.NoError(t, err)
	require.Len(t, v.Projects, 2)
	assert.Equal(t, d("2025-03-01"), v.Today)
	assert.Len(t, v.Items, 2)

	a := v.Projects[0]
	assert.Equal(t, "Obra A", a.Project.Name)
	assert.Equal(t, 2, a.Completed)
	assert.Equal(t, 22, a.ProgressPercent)
	exec := a.Stages[model.StageExecutivo.Index()]
	assert.Equal(t, d("2025-02-01"), exec.Actual, "user actual wins over source date")
	assert.Equal(t, StatusCompleteLate, exec.Classification.Status)

	b := v.Projects[1]
	assert.Equal(t, 0, b.ProgressPercent)
	require.Len(t, b.Impacts, 1)
	assert.Equal(t, model.StageInicioObra, b.Impacts[0].Stage)
}

func TestEngineUnknownSegment(t *testing.T) {
	e := NewEngine(newFixture(), mapOverrides{}, nil)
	_, err := e.SegmentView(context.Background(), "SH 99")
	assert.ErrorIs(t, err, ErrUnknownSegment)
}

func TestEngineSeesOwnWrites(t *testing.T) {
	ov := mapOverrides{}
	e := NewEngine(newFixture(), ov, model.FixedClock(d("2025-03-01")))
	ctx := context.Background()

	v, err := e.SegmentView(ctx, "SH 01")
	require.NoError(t, err)
	assert.Empty(t, v.Projects[1].Impacts)

	ov[model.OverrideKey{Segment: "SH 01", Project: "Obra B", Stage: model.StageAsBuilt, Kind: model.KindPlanned}] = d("2025-01-01")

	v, err = e.SegmentView(ctx, "SH 01")
	require.NoError(t, err)
	assert.Len(t, v.Projects[1].Impacts, 1)
}

func TestEngineOverrideErrorPropagates(t *testing.T) {
	e := NewEngine(newFixture(), failingOverrides{}, nil)
	_, err := e.SegmentView(context.Background(), "SH 01")
	assert.ErrorContains(t, err, "disk gone")
}
