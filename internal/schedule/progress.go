package schedule

import "github.com/nhle/obra-tracker/internal/model"

// Progress counts stages with an actual date (on time or late) and returns
// the completion percentage over the fixed stage count, rounded half up.
func Progress(records []model.MilestoneRecord) (completed, percent int) {
	for _, r := range records {
		if r.Completed() {
			completed++
		}
	}
	return completed, Percent(completed, model.StageCount)
}

// Percent rounds 100*n/total to the nearest integer, halves rounding up.
func Percent(n, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*n + total) / (2 * total)
}
