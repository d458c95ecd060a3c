package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nhle/obra-tracker/cmd/obratrack/internal/clierr"
	"github.com/nhle/obra-tracker/internal/report"
)

// writeWorkbook saves rows into a fresh xlsx file at path.
func writeWorkbook(t *testing.T, path, sheet string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for i, r := range rows {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow(sheet, ref, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

// setup writes fixture workbooks and a config file, returning its path.
func setup(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()

	material := filepath.Join(dir, "material.xlsx")
	writeWorkbook(t, material, "Plan1", [][]any{
		{"SH", "ITEM", "ANO"},
		{"SH 01", "Obra Norte", 2024},
		{"SH 01", "Obra-Sul", 2025},
		{"SH 02", "Obra Leste", 2025},
	})
	erm := filepath.Join(dir, "erm.xlsx")
	writeWorkbook(t, erm, "CERTIFICAÇÃO PROJETO", [][]any{
		{"OBRA", "EXECUTIVO", "FINAL DE OBRA"},
		{"Obra Norte", "", 45726},
	})

	storePath := filepath.Join(dir, "overrides.db")
	if backend == "json" {
		storePath = filepath.Join(dir, "overrides.json")
	}
	cfg := fmt.Sprintf(`sources:
  material:
    location: %q
  erm:
    location: %q
    sheet: "CERTIFICAÇÃO PROJETO"
store:
  backend: %s
  path: %q
log:
  level: debug
  file: %q
`, material, erm, backend, storePath, filepath.Join(dir, "obratrack.log"))

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootHelpListsCommands(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)

	for _, c := range []string{"tui", "report", "segments", "override", "import-legacy", "export-legacy", "config", "credential", "version"} {
		assert.Contains(t, out, c)
	}
}

func TestOverrideLifecycle(t *testing.T) {
	cfg := setup(t, "sqlite")
	keyArgs := []string{"--config", cfg, "--segment", "SH 01", "--project", "Obra Norte", "--stage", "executivo"}

	out, _, err := execute(t, append([]string{"override", "set", "15/01/2025"}, keyArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "15/01/2025")

	out, _, err = execute(t, append([]string{"override", "get"}, keyArgs...)...)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15\n", out)

	_, _, err = execute(t, append([]string{"override", "get", "--actual"}, keyArgs...)...)
	require.Error(t, err, "actual date was never set")
	assert.Equal(t, clierr.CodeRuntime, clierr.ExitCodeOf(err))

	out, _, err = execute(t, append([]string{"override", "list"}, "--config", cfg)...)
	require.NoError(t, err)
	assert.Contains(t, out, "SH 01\tObra Norte\tEXECUTIVO\tplanned\t2025-01-15")

	_, _, err = execute(t, append([]string{"override", "clear"}, keyArgs...)...)
	require.NoError(t, err)

	out, _, err = execute(t, append([]string{"override", "history"}, keyArgs...)...)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "(none) -> 15/01/2025")
	assert.Contains(t, lines[1], "15/01/2025 -> (none)")
}

func TestOverrideUsageErrors(t *testing.T) {
	cfg := setup(t, "json")

	_, _, err := execute(t, "override", "set", "31/02/2025", "--config", cfg,
		"--segment", "SH 01", "--project", "Obra Norte", "--stage", "EXECUTIVO")
	require.Error(t, err)
	assert.Equal(t, clierr.CodeUsage, clierr.ExitCodeOf(err))

	_, _, err = execute(t, "override", "get", "--config", cfg,
		"--segment", "SH 01", "--project", "Obra Norte", "--stage", "FUNDAÇÃO")
	assert.Equal(t, clierr.CodeUsage, clierr.ExitCodeOf(err))

	_, _, err = execute(t, "override", "get", "--config", cfg, "--segment", "SH 01")
	assert.Equal(t, clierr.CodeUsage, clierr.ExitCodeOf(err))

	_, _, err = execute(t, "override", "history", "--config", cfg,
		"--segment", "SH 01", "--project", "Obra Norte", "--stage", "EXECUTIVO")
	assert.Equal(t, clierr.CodeUsage, clierr.ExitCodeOf(err), "json backend keeps no history")

	_, _, err = execute(t, "segments", "--config", cfg, "--bogus")
	assert.Equal(t, clierr.CodeUsage, clierr.ExitCodeOf(err))
}

func TestReportJSON(t *testing.T) {
	cfg := setup(t, "sqlite")
	_, _, err := execute(t, "override", "set", "2025-01-10", "--config", cfg,
		"--segment", "SH 01", "--project", "Obra Norte", "--stage", "EXECUTIVO")
	require.NoError(t, err)
	_, _, err = execute(t, "override", "set", "2025-03-01", "--config", cfg,
		"--segment", "SH 01", "--project", "Obra Norte", "--stage", "FINAL DE OBRA")
	require.NoError(t, err)

	out, stderr, err := execute(t, "report", "--config", cfg, "--segment", "SH 01", "--format", "json", "--today", "2025-02-01")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Projects, 2)

	norte := doc.Projects[0]
	assert.Equal(t, "Obra Norte", norte.Name)
	assert.Equal(t, 11, norte.Progress)
	assert.Equal(t, "COMPLETE_LATE", norte.Stages[5].Status, "source 2025-03-10 is after planned 2025-03-01")
	assert.Equal(t, "PENDING_OVERDUE", norte.Stages[2].Status)
	assert.Len(t, norte.Impacts, 2)
	assert.Equal(t, "Cronograma em dia!", doc.Projects[1].Summary)
}

func TestReportErrors(t *testing.T) {
	cfg := setup(t, "sqlite")

	_, _, err := execute(t, "report", "--config", cfg, "--segment", "SH 99")
	assert.Equal(t, clierr.CodeUsage, clierr.ExitCodeOf(err))

	_, _, err = execute(t, "report", "--config", cfg, "--segment", "SH 01", "--format", "xml")
	assert.Equal(t, clierr.CodeUsage, clierr.ExitCodeOf(err))

	_, _, err = execute(t, "report", "--config", cfg)
	assert.Equal(t, clierr.CodeUsage, clierr.ExitCodeOf(err))
}

func TestSegments(t *testing.T) {
	cfg := setup(t, "sqlite")
	out, _, err := execute(t, "segments", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "SH 01\t2\nSH 02\t1\n", out)
}

func TestImportExportLegacy(t *testing.T) {
	cfg := setup(t, "json")
	legacy := filepath.Join(t.TempDir(), "legacy.json")
	require.NoError(t, os.WriteFile(legacy, []byte(`{
		"SH 01-Obra-Sul-EXECUTIVO": "2025-04-01",
		"SH 01-Obra Norte-AS BUILT-real": "05/05/2025",
		"SH 01-Obra Norte-EXECUTIVO": "not a date"
	}`), 0o600))

	out, stderr, err := execute(t, "import-legacy", legacy, "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2, skipped 1")
	assert.Contains(t, stderr, "not a date")

	out, _, err = execute(t, "override", "get", "--config", cfg,
		"--segment", "SH 01", "--project", "Obra-Sul", "--stage", "EXECUTIVO")
	require.NoError(t, err)
	assert.Equal(t, "2025-04-01\n", out)

	out, _, err = execute(t, "export-legacy", "--config", cfg)
	require.NoError(t, err)
	var flat map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &flat))
	assert.Equal(t, map[string]string{
		"SH 01-Obra-Sul-EXECUTIVO":       "2025-04-01",
		"SH 01-Obra Norte-AS BUILT-real": "2025-05-05",
	}, flat)
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	_, _, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, _, err = execute(t, "config", "init", "--config", path)
	assert.Equal(t, clierr.CodeUsage, clierr.ExitCodeOf(err))

	out, _, err := execute(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "backend: sqlite")
	assert.Contains(t, out, "CERTIFICAÇÃO PROJETO")
}
