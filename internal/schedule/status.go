// Package schedule derives per-stage status, completion and delay impacts
// from source milestone dates and user overrides. Everything here is pure
// and recomputed on every call.
package schedule

// Status classifies a single stage of a project.
type Status string

const (
	StatusCompleteOnTime   Status = "COMPLETE_ON_TIME"
	StatusCompleteLate     Status = "COMPLETE_LATE"
	StatusPendingOverdue   Status = "PENDING_OVERDUE"
	StatusPendingUndefined Status = "PENDING_UNDEFINED"
)

// IsDelay reports whether the status produces an impact entry.
func (s Status) IsDelay() bool {
	return s == StatusCompleteLate || s == StatusPendingOverdue
}

// IsComplete reports whether the stage has an actual completion date.
func (s Status) IsComplete() bool {
	return s == StatusCompleteOnTime || s == StatusCompleteLate
}

func (s Status) String() string { return string(s) }

// Reason refines PENDING_UNDEFINED: the stage either has a plan it has not
// reached yet, or no plan at all.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonAwaiting    Reason = "awaiting"
	ReasonToBeDefined Reason = "to_be_defined"
)

// Classification is the outcome of classifying one milestone.
type Classification struct {
	Status Status `json:"status" yaml:"status"`
	Reason Reason `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Label returns the dashboard text for the classification.
func (c Classification) Label() string {
	switch c.Status {
	case StatusCompleteOnTime:
		return "NO PRAZO"
	case StatusCompleteLate, StatusPendingOverdue:
		return "ATRASADO"
	}
	if c.Reason == ReasonAwaiting {
		return "AGUARDANDO..."
	}
	return "A DEFINIR"
}
