package model

// MilestoneRecord gathers every known date for one (project, stage) pair.
type MilestoneRecord struct {
	Stage        Stage
	SourceActual Date // from the deliverables workbook
	UserPlanned  Date
	UserActual   Date
}

// EffectiveActual returns the user's actual date when set, otherwise the
// date from the source workbook.
func (r MilestoneRecord) EffectiveActual() Date {
	if !r.UserActual.IsZero() {
		return r.UserActual
	}
	return r.SourceActual
}

// Completed reports whether the stage has any actual completion date.
func (r MilestoneRecord) Completed() bool {
	return !r.EffectiveActual().IsZero()
}
