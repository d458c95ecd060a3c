// Package report renders a segment's schedule for non-interactive use.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/nhle/obra-tracker/internal/model"
	"github.com/nhle/obra-tracker/internal/schedule"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
}

// Document is the rendered form of one segment.
type Document struct {
	Segment  string          `json:"segment" yaml:"segment"`
	Today    string          `json:"today" yaml:"today"`
	Projects []ProjectReport `json:"projects" yaml:"projects"`
	Items    []ItemReport    `json:"items" yaml:"items"`
}

// ProjectReport is one project's schedule, progress and impact matrix.
type ProjectReport struct {
	Name      string         `json:"name" yaml:"name"`
	Year      string         `json:"year" yaml:"year"`
	Completed int            `json:"completed" yaml:"completed"`
	Total     int            `json:"total" yaml:"total"`
	Progress  int            `json:"progress_percent" yaml:"progress_percent"`
	Summary   string         `json:"summary" yaml:"summary"`
	Stages    []StageReport  `json:"stages" yaml:"stages"`
	Impacts   []ImpactReport `json:"impacts" yaml:"impacts"`
}

// StageReport is one row of a project's schedule.
type StageReport struct {
	Stage   string `json:"stage" yaml:"stage"`
	Status  string `json:"status" yaml:"status"`
	Label   string `json:"label" yaml:"label"`
	Planned string `json:"planned,omitempty" yaml:"planned,omitempty"`
	Actual  string `json:"actual,omitempty" yaml:"actual,omitempty"`
}

// ImpactReport is one entry of the impact matrix.
type ImpactReport struct {
	Stage   string `json:"stage" yaml:"stage"`
	Message string `json:"message" yaml:"message"`
}

// ItemReport is a row of the contractual items listing.
type ItemReport struct {
	Item string `json:"item" yaml:"item"`
	Year string `json:"year" yaml:"year"`
}

// ViewSource is implemented by *schedule.Engine.
type ViewSource interface {
	SegmentView(ctx context.Context, segment model.Segment) (schedule.SegmentView, error)
}

// Build derives the document for a segment.
func Build(ctx context.Context, src ViewSource, segment model.Segment) (Document, error) {
	view, err := src.SegmentView(ctx, segment)
	if err != nil {
		return Document{}, err
	}
	return FromView(view), nil
}

// FromView converts an already derived segment view.
func FromView(view schedule.SegmentView) Document {
	doc := Document{
		Segment:  string(view.Segment),
		Today:    view.Today.String(),
		Projects: make([]ProjectReport, 0, len(view.Projects)),
		Items:    make([]ItemReport, 0, len(view.Items)),
	}
	for _, pv := range view.Projects {
		pr := ProjectReport{
			Name:      pv.Project.Name,
			Year:      pv.Project.Year,
			Completed: pv.Completed,
			Total:     model.StageCount,
			Progress:  pv.ProgressPercent,
			Summary:   pv.Summary(),
			Impacts:   make([]ImpactReport, 0, len(pv.Impacts)),
		}
		for _, sv := range pv.Stages {
			pr.Stages = append(pr.Stages, StageReport{
				Stage:   sv.Stage.String(),
				Status:  sv.Classification.Status.String(),
				Label:   sv.Classification.Label(),
				Planned: sv.Planned.String(),
				Actual:  sv.Actual.String(),
			})
		}
		for _, imp := range pv.Impacts {
			pr.Impacts = append(pr.Impacts, ImpactReport{Stage: imp.Stage.String(), Message: imp.Message})
		}
		doc.Projects = append(doc.Projects, pr)
	}
	for _, it := range view.Items {
		doc.Items = append(doc.Items, ItemReport{Item: it.Item, Year: it.Year})
	}
	return doc
}

// Write encodes doc to w in the given format.
func Write(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		_, err := io.WriteString(w, Text(doc))
		return err
	}
}

var titleStyle = lipgloss.NewStyle().Bold(true)

// Text renders doc as plain tables for a terminal or a pipe.
func Text(doc Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  (hoje: %s)\n", titleStyle.Render(doc.Segment), displayDate(doc.Today))

	for _, p := range doc.Projects {
		year := p.Year
		if year == "" {
			year = "ANO ?"
		}
		fmt.Fprintf(&b, "\n%s  [%s]\n", titleStyle.Render(p.Name), year)
		fmt.Fprintf(&b, "PROGRESSO GERAL %d%% CONCLUÍDO (%d/%d)\n", p.Progress, p.Completed, p.Total)

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ETAPA", "STATUS", "DATA PREVISTA", "DATA REAL")
		for _, s := range p.Stages {
			t.Row(s.Stage, s.Label, orDefine(s.Planned), orDefine(s.Actual))
		}
		b.WriteString(t.String())
		b.WriteString("\n")

		fmt.Fprintf(&b, "MATRIZ DE IMPACTOS: %s\n", p.Summary)
		for _, imp := range p.Impacts {
			fmt.Fprintf(&b, "  - %s\n", imp.Message)
		}
	}

	b.WriteString("\nITENS CONTRATUAIS (PER)\n")
	if len(doc.Items) == 0 {
		b.WriteString("Nenhum item encontrado.\n")
		return b.String()
	}
	t := table.New().Border(lipgloss.NormalBorder()).Headers("ITEM / OBRA", "ANO")
	for _, it := range doc.Items {
		t.Row(it.Item, model.ContractItem{Year: it.Year}.YearLabel())
	}
	b.WriteString(t.String())
	b.WriteString("\n")
	return b.String()
}

func displayDate(iso string) string {
	d, err := model.ParseDate(iso)
	if err != nil {
		return iso
	}
	return d.Display()
}

func orDefine(iso string) string {
	if iso == "" {
		return "Definir"
	}
	return displayDate(iso)
}
