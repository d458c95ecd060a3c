package schedule

import "github.com/nhle/obra-tracker/internal/model"

// StageView is one row of a project's schedule.
type StageView struct {
	Stage          model.Stage    `json:"stage" yaml:"stage"`
	Classification Classification `json:"classification" yaml:"classification"`
	Planned        model.Date     `json:"planned" yaml:"planned"`
	Actual         model.Date     `json:"actual" yaml:"actual"`
	Impact         *Impact        `json:"impact,omitempty" yaml:"impact,omitempty"`
}

// ProjectView is the derived dashboard state of a single project.
type ProjectView struct {
	Project         model.Project `json:"project" yaml:"project"`
	Stages          []StageView   `json:"stages" yaml:"stages"`
	Completed       int           `json:"completed" yaml:"completed"`
	ProgressPercent int           `json:"progress_percent" yaml:"progress_percent"`
	Impacts         []Impact      `json:"impacts" yaml:"impacts"`
}

// AttentionRequired reports whether any stage is delayed.
func (v ProjectView) AttentionRequired() bool { return len(v.Impacts) > 0 }

// Summary returns the impact matrix headline.
func (v ProjectView) Summary() string {
	if v.AttentionRequired() {
		return "Atenção Requerida"
	}
	return "Cronograma em dia!"
}

// SegmentView is everything the presentation layer needs for one segment.
type SegmentView struct {
	Segment  model.Segment        `json:"segment" yaml:"segment"`
	Today    model.Date           `json:"today" yaml:"today"`
	Projects []ProjectView        `json:"projects" yaml:"projects"`
	Items    []model.ContractItem `json:"items" yaml:"items"`
}

// DeriveProjectView classifies every stage of a project and aggregates
// progress and impacts. Records may be in any order and may omit stages;
// a missing stage is treated as having no dates at all.
func DeriveProjectView(
	project model.Project,
	records []model.MilestoneRecord,
	today model.Date,
) ProjectView {
	byStage := make(map[model.Stage]model.MilestoneRecord, len(records))
	for _, r := range records {
		byStage[r.Stage] = r
	}

	all := model.AllStages()
	ordered := make([]model.MilestoneRecord, 0, len(all))
	views := make([]StageView, 0, len(all))
	for _, st := range all {
		rec := byStage[st]
		rec.Stage = st
		ordered = append(ordered, rec)

		sv := StageView{
			Stage:          st,
			Classification: Classify(rec, today),
			Planned:        rec.UserPlanned,
			Actual:         rec.EffectiveActual(),
		}
		if sv.Classification.Status.IsDelay() {
			imp := NewImpact(st)
			sv.Impact = &imp
		}
		views = append(views, sv)
	}

	completed, pct := Progress(ordered)
	return ProjectView{
		Project:         project,
		Stages:          views,
		Completed:       completed,
		ProgressPercent: pct,
		Impacts:         Impacts(views),
	}
}
