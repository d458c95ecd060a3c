package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolverFunc func(Segment, string) bool

func (f resolverFunc) HasProject(s Segment, p string) bool { return f(s, p) }

func TestOverrideKeyKindsNeverCollide(t *testing.T) {
	planned := OverrideKey{Segment: "SH 01", Project: "Obra A", Stage: StageExecutivo, Kind: KindPlanned}
	actual := planned
	actual.Kind = KindActual

	assert.NotEqual(t, planned, actual)
	assert.NotEqual(t, planned.LegacyString(), actual.LegacyString())
	assert.Equal(t, "SH 01-Obra A-EXECUTIVO", planned.LegacyString())
	assert.Equal(t, "SH 01-Obra A-EXECUTIVO-real", actual.LegacyString())
}

func TestOverrideKeyValidate(t *testing.T) {
	ok := OverrideKey{Segment: "SH 01", Project: "Obra", Stage: StageAsBuilt, Kind: KindActual}
	require.NoError(t, ok.Validate())

	bad := []OverrideKey{
		{Project: "Obra", Stage: StageAsBuilt, Kind: KindActual},
		{Segment: "SH 01", Stage: StageAsBuilt, Kind: KindActual},
		{Segment: "SH 01", Project: "Obra", Stage: "NOPE", Kind: KindActual},
		{Segment: "SH 01", Project: "Obra", Stage: StageAsBuilt, Kind: "other"},
	}
	for _, k := range bad {
		assert.ErrorIs(t, k.Validate(), ErrInvalidKey, k.String())
	}
}

func TestParseLegacyKeyWithoutResolver(t *testing.T) {
	k, err := ParseLegacyKey("SH 03-Ponte Norte-INÍCIO OBRA-real", nil)
	require.NoError(t, err)
	assert.Equal(t, OverrideKey{
		Segment: "SH 03", Project: "Ponte Norte", Stage: StageInicioObra, Kind: KindActual,
	}, k)

	k, err = ParseLegacyKey("SH 03-Ponte Norte-INÍCIO PRELIMINAR OBRA", nil)
	require.NoError(t, err)
	assert.Equal(t, StageInicioPreliminar, k.Stage)
	assert.Equal(t, KindPlanned, k.Kind)
}

func TestParseLegacyKeyResolvesDashedNames(t *testing.T) {
	known := resolverFunc(func(s Segment, p string) bool {
		return s == "SH-07" && p == "Viaduto - Trecho 2"
	})

	k, err := ParseLegacyKey("SH-07-Viaduto - Trecho 2-AS BUILT", known)
	require.NoError(t, err)
	assert.Equal(t, Segment("SH-07"), k.Segment)
	assert.Equal(t, "Viaduto - Trecho 2", k.Project)
	assert.Equal(t, StageAsBuilt, k.Stage)

	_, err = ParseLegacyKey("SH-99-Unknown-AS BUILT", known)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestParseLegacyKeyWithoutStage(t *testing.T) {
	_, err := ParseLegacyKey("SH 01-Obra-SOMETHING", nil)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestParseStage(t *testing.T) {
	s, err := ParseStage("  final de obra ")
	require.NoError(t, err)
	assert.Equal(t, StageFinalObra, s)

	_, err = ParseStage("demolição")
	assert.Error(t, err)

	assert.Len(t, AllStages(), 9)
	assert.Equal(t, len(stages), StageCount, "StageCount out of sync with the stage list")
	assert.Equal(t, 0, StageAnteprojeto.Index())
	assert.Equal(t, 8, StageAceiteEntrega.Index())
}

func TestSegmentLessNatural(t *testing.T) {
	assert.True(t, SegmentLess("SH 2", "SH 10"))
	assert.True(t, SegmentLess("sh 09", "SH 10"))
	assert.False(t, SegmentLess("SH 10", "SH 2"))
	assert.False(t, SegmentLess("SH 01", "SH 1"))
}
