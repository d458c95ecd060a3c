package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/obra-tracker/internal/model"
)

func completedRecords(n int) []model.MilestoneRecord {
	var recs []model.MilestoneRecord
	for i, st := range model.AllStages() {
		rec := model.MilestoneRecord{Stage: st}
		if i < n {
			rec.SourceActual = d("2025-01-01")
		}
		recs = append(recs, rec)
	}
	return recs
}

func TestProgressBounds(t *testing.T) {
	c, p := Progress(completedRecords(0))
	assert.Equal(t, 0, c)
	assert.Equal(t, 0, p)

	c, p = Progress(completedRecords(model.StageCount))
	assert.Equal(t, model.StageCount, c)
	assert.Equal(t, 100, p)
}

func TestProgressThreeOfNine(t *testing.T) {
	c, p := Progress(completedRecords(3))
	assert.Equal(t, 3, c)
	assert.Equal(t, 33, p)
}

func TestProgressMonotonic(t *testing.T) {
	prev := -1
	for n := 0; n <= model.StageCount; n++ {
		_, p := Progress(completedRecords(n))
		assert.GreaterOrEqual(t, p, prev, "n=%d", n)
		prev = p
	}
}

func TestProgressCountsLateAndUserActual(t *testing.T) {
	recs := []model.MilestoneRecord{
		{Stage: model.StageExecutivo, UserActual: d("2025-02-01"), UserPlanned: d("2025-01-01")},
		{Stage: model.StageAsBuilt, SourceActual: d("2025-02-01")},
		{Stage: model.StageInicioObra, UserPlanned: d("2025-01-01")},
	}
	// Total is always the fixed stage count, never len(records).
	c, p := Progress(recs)
	assert.Equal(t, 2, c)
	assert.Equal(t, 22, p)
}

func TestPercentRounding(t *testing.T) {
	assert.Equal(t, 11, Percent(1, 9))
	assert.Equal(t, 56, Percent(5, 9))
	assert.Equal(t, 50, Percent(1, 2))
	assert.Equal(t, 0, Percent(3, 0))
}
