package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/nhle/obra-tracker/internal/model"
)

// ermHeaderScanRows bounds the search for the OBRA header row.
const ermHeaderScanRows = 30

// StageDates maps a project name to its per-stage completion dates.
type StageDates map[string]map[model.Stage]model.Date

// LoadStageDates reads per-project stage completion dates from the ERM
// certification workbook. sheet names the worksheet to use; when it is
// empty or missing, the first sheet whose name mentions both CERTIFICA and
// PROJETO is used. Cells that do not hold a date are skipped and logged.
func LoadStageDates(r io.Reader, sheet string, log *zap.Logger) (StageDates, error) {
	if log == nil {
		log = zap.NewNop()
	}
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: opening ERM workbook: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()

	name, ok := pickERMSheet(f.GetSheetList(), sheet)
	if !ok {
		return nil, fmt.Errorf("%w: no certification sheet in ERM workbook", ErrMissingHeader)
	}
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %w", ErrSourceUnavailable, name, err)
	}

	headerRow, obraCol := -1, -1
	for i := 0; i < len(rows) && i < ermHeaderScanRows; i++ {
		for j, c := range rows[i] {
			if normHeader(c) == "OBRA" {
				headerRow, obraCol = i, j
				break
			}
		}
		if headerRow >= 0 {
			break
		}
	}
	if headerRow < 0 {
		return nil, fmt.Errorf("%w: sheet %q has no OBRA header", ErrMissingHeader, name)
	}

	cols := stageColumns(rows[headerRow])
	out := make(StageDates)
	for i, row := range rows[headerRow+1:] {
		project := cell(row, obraCol)
		if project == "" {
			continue
		}
		dates := out[project]
		if dates == nil {
			dates = make(map[model.Stage]model.Date)
			out[project] = dates
		}
		for st, col := range cols {
			raw := cell(row, col)
			d, ok := cellDate(raw)
			if !ok {
				log.Warn("skipping unparsable stage date",
					zap.String("sheet", name),
					zap.Int("row", headerRow+i+2),
					zap.String("project", project),
					zap.String("stage", st.String()),
					zap.String("value", raw))
				continue
			}
			if !d.IsZero() {
				dates[st] = d
			}
		}
	}
	return out, nil
}

func pickERMSheet(sheets []string, want string) (string, bool) {
	if want != "" {
		for _, s := range sheets {
			if s == want {
				return s, true
			}
		}
	}
	for _, s := range sheets {
		u := strings.ToUpper(s)
		if strings.Contains(u, "CERTIFICA") && strings.Contains(u, "PROJETO") {
			return s, true
		}
	}
	return "", false
}

// stageColumns locates the column of each stage in the header row. An
// exact header match wins over a header that merely contains the stage
// name, so EXECUTIVO does not bind to EXECUTIVO CERTIFICADO.
func stageColumns(header []string) map[model.Stage]int {
	cols := make(map[model.Stage]int)
	taken := make(map[int]bool)
	for _, st := range model.AllStages() {
		for j, c := range header {
			if normHeader(c) == string(st) {
				cols[st] = j
				taken[j] = true
				break
			}
		}
	}
	for _, st := range model.AllStages() {
		if _, ok := cols[st]; ok {
			continue
		}
		for j, c := range header {
			if !taken[j] && strings.Contains(normHeader(c), string(st)) {
				cols[st] = j
				taken[j] = true
				break
			}
		}
	}
	return cols
}
