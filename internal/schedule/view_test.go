package schedule

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/obra-tracker/internal/model"
)

func findStage(t *testing.T, v ProjectView, st model.Stage) StageView {
	t.Helper()
	for _, sv := range v.Stages {
		if sv.Stage == st {
			return sv
		}
	}
	t.Fatalf("stage %s missing from view", st)
	return StageView{}
}

func TestDeriveOverdueExecutivo(t *testing.T) {
	p := model.Project{Name: "Obra A", Segment: "SH 01", Year: "2025"}
	recs := []model.MilestoneRecord{
		{Stage: model.StageExecutivo, UserPlanned: d("2025-01-01")},
	}

	v := DeriveProjectView(p, recs, d("2025-03-01"))

	sv := findStage(t, v, model.StageExecutivo)
	assert.Equal(t, StatusPendingOverdue, sv.Classification.Status)
	require.NotNil(t, sv.Impact)
	require.Len(t, v.Impacts, 1)
	assert.Equal(t, model.StageExecutivo, v.Impacts[0].Stage)
	assert.Contains(t, v.Impacts[0].Message, "EXECUTIVO")
	assert.True(t, v.AttentionRequired())
	assert.Equal(t, "Atenção Requerida", v.Summary())
}

func TestDeriveFinalDeObraOnTime(t *testing.T) {
	p := model.Project{Name: "Obra B", Segment: "SH 01"}
	recs := []model.MilestoneRecord{
		{Stage: model.StageFinalObra, SourceActual: d("2025-05-10")},
	}

	v := DeriveProjectView(p, recs, d("2025-06-01"))

	sv := findStage(t, v, model.StageFinalObra)
	assert.Equal(t, StatusCompleteOnTime, sv.Classification.Status)
	assert.Nil(t, sv.Impact)
	assert.Empty(t, v.Impacts)
	assert.False(t, v.AttentionRequired())
	assert.Equal(t, "Cronograma em dia!", v.Summary())
	assert.Equal(t, 1, v.Completed)
	assert.Equal(t, 11, v.ProgressPercent)
}

func TestDeriveUserActualTakesPrecedence(t *testing.T) {
	recs := []model.MilestoneRecord{
		{Stage: model.StageAsBuilt, SourceActual: d("2025-01-01"), UserActual: d("2025-02-01")},
	}
	v := DeriveProjectView(model.Project{Name: "X"}, recs, d("2025-03-01"))
	assert.Equal(t, d("2025-02-01"), findStage(t, v, model.StageAsBuilt).Actual)
}

func TestDeriveImpactsFollowStageOrder(t *testing.T) {
	// Supplied out of order on purpose.
	recs := []model.MilestoneRecord{
		{Stage: model.StageAceiteEntrega, UserPlanned: d("2025-01-01")},
		{Stage: model.StageAnteprojeto, SourceActual: d("2025-02-01"), UserPlanned: d("2025-01-15")},
		{Stage: model.StageInicioObra, UserPlanned: d("2025-12-01")},
		{Stage: model.StageExecutivo, UserPlanned: d("2025-02-01")},
	}
	v := DeriveProjectView(model.Project{Name: "X"}, recs, d("2025-03-01"))

	var got []model.Stage
	for _, imp := range v.Impacts {
		got = append(got, imp.Stage)
	}
	want := []model.Stage{model.StageAnteprojeto, model.StageExecutivo, model.StageAceiteEntrega}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("impact stages mismatch (-want +got):\n%s", diff)
	}

	delays := 0
	for _, sv := range v.Stages {
		if sv.Classification.Status.IsDelay() {
			delays++
		}
	}
	assert.Equal(t, delays, len(v.Impacts))
	assert.Len(t, v.Stages, model.StageCount)
}

func TestDeriveEmptyProject(t *testing.T) {
	v := DeriveProjectView(model.Project{Name: "Vazia"}, nil, d("2030-01-01"))
	assert.Len(t, v.Stages, model.StageCount)
	for _, sv := range v.Stages {
		assert.Equal(t, Classification{Status: StatusPendingUndefined, Reason: ReasonToBeDefined}, sv.Classification)
	}
	assert.Equal(t, 0, v.ProgressPercent)
	assert.Empty(t, v.Impacts)
}
