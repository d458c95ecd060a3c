package model

import (
	"fmt"
	"strings"
)

// Stage is one of the fixed milestone phases every project goes through.
type Stage string

// Milestone stages in display order.
const (
	StageAnteprojeto          Stage = "ANTEPROJETO/ESTUDO"
	StageInicioPreliminar     Stage = "INÍCIO PRELIMINAR OBRA"
	StageExecutivo            Stage = "EXECUTIVO"
	StageInicioObra           Stage = "INÍCIO OBRA"
	StageExecutivoCertificado Stage = "EXECUTIVO CERTIFICADO"
	StageFinalObra            Stage = "FINAL DE OBRA"
	StageAsBuilt              Stage = "AS BUILT"
	StageCertificadoObra      Stage = "CERTIFICADO OBRA"
	StageAceiteEntrega        Stage = "ACEITE ENTREGA OBRA"
)

var stages = []Stage{
	StageAnteprojeto,
	StageInicioPreliminar,
	StageExecutivo,
	StageInicioObra,
	StageExecutivoCertificado,
	StageFinalObra,
	StageAsBuilt,
	StageCertificadoObra,
	StageAceiteEntrega,
}

// StageCount is the number of stages tracked for every project. It must
// equal len(AllStages()).
const StageCount = 9

// AllStages returns the stages in display order. The returned slice is a
// copy and may be modified by the caller.
func AllStages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// ParseStage resolves a stage name, ignoring case and surrounding spaces.
func ParseStage(name string) (Stage, error) {
	want := strings.ToUpper(strings.TrimSpace(name))
	for _, s := range stages {
		if string(s) == want {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q", name)
}

// Index returns the position of the stage in display order, or -1.
func (s Stage) Index() int {
	for i, st := range stages {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool { return s.Index() >= 0 }

func (s Stage) String() string { return string(s) }
