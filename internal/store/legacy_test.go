package store_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/obra-tracker/internal/model"
	"github.com/nhle/obra-tracker/internal/store"
	"github.com/nhle/obra-tracker/tests/testutil"
)

type knownProjects map[model.Segment]map[string]bool

func (k knownProjects) HasProject(s model.Segment, p string) bool { return k[s][p] }

func TestImportLegacy(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	blob := []byte(`{
		"SH 01-Obra A-EXECUTIVO": "2025-01-01",
		"SH 01-Obra A-EXECUTIVO-real": "2025-02-01",
		"SH 01-Obra - Anexo-AS BUILT": "2025-3-4",
		"SH 01-Obra A-NOT A STAGE": "2025-01-01",
		"SH 01-Obra A-AS BUILT": "soon"
	}`)
	resolver := knownProjects{"SH 01": {"Obra A": true, "Obra - Anexo": true}}

	res, err := store.ImportLegacy(ctx, s, blob, resolver)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Imported)
	assert.Len(t, res.Skipped, 2)

	d, ok, _ := s.Get(ctx, model.OverrideKey{
		Segment: "SH 01", Project: "Obra - Anexo", Stage: model.StageAsBuilt, Kind: model.KindPlanned,
	})
	require.True(t, ok)
	assert.Equal(t, "2025-03-04", d.String())

	d, ok, _ = s.Get(ctx, model.OverrideKey{
		Segment: "SH 01", Project: "Obra A", Stage: model.StageExecutivo, Kind: model.KindActual,
	})
	require.True(t, ok)
	assert.Equal(t, "2025-02-01", d.String())
}

func TestExportLegacyRoundTrip(t *testing.T) {
	s := testutil.NewTestFileStore(t)
	ctx := context.Background()
	k := model.OverrideKey{Segment: "SH 02", Project: "Ponte", Stage: model.StageFinalObra, Kind: model.KindActual}
	require.NoError(t, s.Set(ctx, k, "2025-05-10"))

	data, err := store.ExportLegacy(ctx, s)
	require.NoError(t, err)

	var flat map[string]string
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Equal(t, map[string]string{"SH 02-Ponte-FINAL DE OBRA-real": "2025-05-10"}, flat)

	other := testutil.NewTestStore(t)
	res, err := store.ImportLegacy(ctx, other, data, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
}

func TestImportLegacyRejectsNonObject(t *testing.T) {
	_, err := store.ImportLegacy(context.Background(), testutil.NewTestStore(t), []byte(`[1,2]`), nil)
	assert.Error(t, err)
}
