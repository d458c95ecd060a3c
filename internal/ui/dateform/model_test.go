package dateform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/obra-tracker/internal/model"
)

func TestValidateDate(t *testing.T) {
	for _, ok := range []string{"", "  ", "15/01/2025", "2025-01-15", "2025-1-5"} {
		assert.NoError(t, ValidateDate(ok), ok)
	}
	for _, bad := range []string{"31/02/2025", "amanhã", "2025/01/15x", "15-01-25"} {
		assert.Error(t, ValidateDate(bad), bad)
	}
}

func TestStart_PrefillsDisplayDate(t *testing.T) {
	m := New(80, 24)
	key := model.OverrideKey{Segment: "SH 01", Project: "Obra A", Stage: model.StageExecutivo, Kind: model.KindActual}
	m.Start(key, model.MustDate("2025-01-15"))

	assert.Equal(t, key, m.Key())
	assert.Equal(t, "15/01/2025", m.fb.value)
	assert.Equal(t, "DATA REAL", fieldTitle(key))
	assert.Contains(t, m.View(), "SH 01")
}
