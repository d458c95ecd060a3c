package ingest

import (
	"fmt"

	"github.com/nhle/obra-tracker/internal/model"
)

// fallbackSegmentCount is how many placeholder segments are generated when
// the material workbook yields nothing.
const fallbackSegmentCount = 64

// FallbackSegments returns placeholder segments "SH 01".."SH 64", each with
// a single sample project, so the dashboard always has something to show.
func FallbackSegments() []model.Project {
	out := make([]model.Project, 0, fallbackSegmentCount)
	for i := 1; i <= fallbackSegmentCount; i++ {
		out = append(out, model.Project{
			Name:    fmt.Sprintf("Obra Exemplo %d", i),
			Segment: model.Segment(fmt.Sprintf("SH %02d", i)),
			Year:    "2025",
		})
	}
	return out
}
