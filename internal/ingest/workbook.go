package ingest

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nhle/obra-tracker/internal/model"
)

// cell returns the trimmed value at column idx, or "" when the row is short.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func normHeader(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// cellDate converts a raw cell value into a Date. Numeric values are Excel
// serial dates; anything else goes through model.ParseDate. The boolean is
// false when the cell holds something that is not a date.
func cellDate(raw string) (model.Date, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.Date{}, true
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if serial <= 0 {
			return model.Date{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return model.Date{}, false
		}
		return model.DateOf(t), true
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return model.Date{}, false
	}
	return d, true
}

// yearText renders the ANO cell. Numeric years come back from raw cells
// as "2025" or occasionally "2025.0".
func yearText(raw string) string {
	raw = strings.TrimSpace(raw)
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return raw
}
