package schedule

import "github.com/nhle/obra-tracker/internal/model"

// Classify returns the status of one milestone as of today.
//
// A stage with an actual date is late only when a planned date exists and
// the actual date is after it. A stage without an actual date is overdue as
// soon as today is past the planned date; one day is enough.
func Classify(rec model.MilestoneRecord, today model.Date) Classification {
	actual := rec.EffectiveActual()
	planned := rec.UserPlanned

	if !actual.IsZero() {
		if !planned.IsZero() && actual.After(planned) {
			return Classification{Status: StatusCompleteLate}
		}
		return Classification{Status: StatusCompleteOnTime}
	}

	if planned.IsZero() {
		return Classification{Status: StatusPendingUndefined, Reason: ReasonToBeDefined}
	}
	if today.After(planned) {
		return Classification{Status: StatusPendingOverdue}
	}
	return Classification{Status: StatusPendingUndefined, Reason: ReasonAwaiting}
}
