package schedule

import (
	"fmt"

	"github.com/nhle/obra-tracker/internal/model"
)

// Impact is a warning attached to a delayed stage.
type Impact struct {
	Stage   model.Stage `json:"stage" yaml:"stage"`
	Message string      `json:"message" yaml:"message"`
}

// NewImpact builds the consequence message for a delayed stage.
func NewImpact(stage model.Stage) Impact {
	return Impact{
		Stage:   stage,
		Message: fmt.Sprintf("Atraso no %s impede o Início das Obras e pode gerar multas de PER.", stage),
	}
}

// Impacts lists one entry per delayed stage, in the order given.
func Impacts(stages []StageView) []Impact {
	var out []Impact
	for _, sv := range stages {
		if sv.Classification.Status.IsDelay() {
			out = append(out, NewImpact(sv.Stage))
		}
	}
	return out
}
