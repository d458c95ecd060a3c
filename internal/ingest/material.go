package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/nhle/obra-tracker/internal/model"
)

// materialHeaderScanRows bounds how far down the sheet header cells are searched.
const materialHeaderScanRows = 10

// LoadMaterial reads the segment/project listing from the first sheet of
// the material workbook. Rows without both SH and ITEM are ignored.
func LoadMaterial(r io.Reader) ([]model.Project, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: opening material workbook: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: material workbook has no sheets", ErrMissingHeader)
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %w", ErrSourceUnavailable, sheets[0], err)
	}

	headerRow, shCol, itemCol, anoCol := -1, -1, -1, -1
	for i := 0; i < len(rows) && i < materialHeaderScanRows; i++ {
		for j, c := range rows[i] {
			switch normHeader(c) {
			case "SH":
				shCol = j
			case "ITEM":
				itemCol = j
			case "ANO":
				anoCol = j
			}
		}
		if shCol >= 0 && itemCol >= 0 {
			headerRow = i
			break
		}
		shCol, itemCol, anoCol = -1, -1, -1
	}
	if headerRow < 0 {
		return nil, fmt.Errorf("%w: material sheet %q lacks SH/ITEM columns", ErrMissingHeader, sheets[0])
	}

	var projects []model.Project
	for _, row := range rows[headerRow+1:] {
		sh, item := cell(row, shCol), cell(row, itemCol)
		if sh == "" || item == "" {
			continue
		}
		projects = append(projects, model.Project{
			Name:    item,
			Segment: model.Segment(sh),
			Year:    yearText(cell(row, anoCol)),
		})
	}
	return projects, nil
}
