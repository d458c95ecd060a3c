package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/obra-tracker/internal/keys"
	"github.com/nhle/obra-tracker/internal/model"
	"github.com/nhle/obra-tracker/internal/schedule"
	"github.com/nhle/obra-tracker/internal/theme"
)

// EditDateMsg asks the app to open the date editor for a stage.
type EditDateMsg struct {
	Key     model.OverrideKey
	Current model.Date
}

// cardHeaderLines is the number of lines above the first stage row.
const cardHeaderLines = 6

// Model renders one segment: a strip of its projects, then the focused
// project's schedule and impact matrix.
type Model struct {
	view     schedule.SegmentView
	keys     *keys.KeyMap
	bar      progress.Model
	viewport viewport.Model
	project  int
	stage    int
	width    int
	height   int
}

// New creates a new dashboard.
func New(k *keys.KeyMap, width, height int) Model {
	m := Model{
		keys:     k,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		viewport: viewport.New(width, height),
		width:    width,
		height:   height,
	}
	m.SetSize(width, height)
	return m
}

// SetView replaces the derived segment. The cursor is kept where possible
// so that re-deriving after an edit does not move it.
func (m *Model) SetView(v schedule.SegmentView) {
	if v.Segment != m.view.Segment {
		m.project, m.stage = 0, 0
	}
	m.view = v
	if m.project >= len(v.Projects) {
		m.project = max(len(v.Projects)-1, 0)
	}
	if m.stage >= model.StageCount {
		m.stage = model.StageCount - 1
	}
	m.refresh()
}

// SegmentView returns the segment currently shown.
func (m Model) SegmentView() schedule.SegmentView { return m.view }

// Cursor returns the focused project and stage indexes.
func (m Model) Cursor() (project, stage int) { return m.project, m.stage }

// Selected returns the focused project and stage row.
func (m Model) Selected() (schedule.ProjectView, schedule.StageView, bool) {
	if m.project >= len(m.view.Projects) {
		return schedule.ProjectView{}, schedule.StageView{}, false
	}
	pv := m.view.Projects[m.project]
	if m.stage >= len(pv.Stages) {
		return pv, schedule.StageView{}, false
	}
	return pv, pv.Stages[m.stage], true
}

// Update handles cursor movement and edit requests.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	n := len(m.view.Projects)
	switch {
	case key.Matches(km, m.keys.Down):
		if m.stage < model.StageCount-1 {
			m.stage++
		}
	case key.Matches(km, m.keys.Up):
		if m.stage > 0 {
			m.stage--
		}
	case key.Matches(km, m.keys.NextProject):
		if n > 0 {
			m.project = (m.project + 1) % n
		}
	case key.Matches(km, m.keys.PrevProject):
		if n > 0 {
			m.project = (m.project - 1 + n) % n
		}
	case key.Matches(km, m.keys.EditPlanned):
		return m, m.edit(model.KindPlanned)
	case key.Matches(km, m.keys.EditActual):
		return m, m.edit(model.KindActual)
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

func (m Model) edit(kind model.OverrideKind) tea.Cmd {
	pv, sv, ok := m.Selected()
	if !ok {
		return nil
	}
	msg := EditDateMsg{
		Key: model.OverrideKey{
			Segment: m.view.Segment,
			Project: pv.Project.Name,
			Stage:   sv.Stage,
			Kind:    kind,
		},
		Current: sv.Planned,
	}
	if kind == model.KindActual {
		msg.Current = sv.Actual
	}
	return func() tea.Msg { return msg }
}

// View renders the dashboard.
func (m Model) View() string {
	if len(m.view.Projects) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Nenhuma obra neste segmento.")
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderStrip(), m.viewport.View())
}

// refresh re-renders the focused card into the viewport and scrolls so
// the cursor row stays visible.
func (m *Model) refresh() {
	if len(m.view.Projects) == 0 {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(m.renderCard(m.view.Projects[m.project]))

	row := cardHeaderLines + m.stage
	switch {
	case row < m.viewport.YOffset:
		m.viewport.SetYOffset(row)
	case row >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(row - m.viewport.Height + 1)
	}
}

// renderStrip lists every project of the segment with its progress.
func (m Model) renderStrip() string {
	parts := make([]string, 0, len(m.view.Projects))
	for i, pv := range m.view.Projects {
		label := fmt.Sprintf("%s %d%%", pv.Project.Name, pv.ProgressPercent)
		if pv.AttentionRequired() {
			label += " !"
		}
		if i == m.project {
			parts = append(parts, theme.SelectedRowStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, theme.HelpStyle.Render(label))
		}
	}
	return lipgloss.NewStyle().Width(m.width).Render(strings.Join(parts, "  "))
}

func (m Model) renderCard(pv schedule.ProjectView) string {
	var b strings.Builder

	badges := theme.BadgeStyle.Render(pv.Project.YearLabel()) + " " +
		theme.BadgeStyle.Render(string(m.view.Segment))
	b.WriteString(badges + "\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(pv.Project.Name) + "\n")
	fmt.Fprintf(&b, "PROGRESSO GERAL %d%% CONCLUÍDO  %s\n",
		pv.ProgressPercent, m.bar.ViewAs(float64(pv.ProgressPercent)/100))
	b.WriteString(theme.HelpStyle.Render(
		fmt.Sprintf("%-24s %-18s %-13s   %s", "ETAPA", "STATUS", "DATA PREVISTA", "DATA REAL")) + "\n")
	b.WriteString(strings.Repeat("─", min(m.width-4, 72)) + "\n")

	for i, sv := range pv.Stages {
		status := theme.StatusStyle(sv.Classification).
			Render(fmt.Sprintf("%s %-16s", theme.StatusIcon(sv.Classification), sv.Classification.Label()))
		line := fmt.Sprintf("%-24s %s %-13s → %s",
			sv.Stage, status, dateCell(sv.Planned), dateCell(sv.Actual))
		if i == m.stage {
			line = theme.SelectedRowStyle.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\nMATRIZ DE IMPACTOS  ")
	if pv.AttentionRequired() {
		b.WriteString(theme.AttentionStyle.Render(pv.Summary()) + "\n")
		for _, imp := range pv.Impacts {
			b.WriteString(theme.AttentionStyle.Render("  • ") + imp.Message + "\n")
		}
	} else {
		b.WriteString(theme.OnTrackStyle.Render(pv.Summary()) + "\n")
	}

	return theme.FocusedCardStyle.Width(max(m.width-2, 20)).Render(b.String())
}

func dateCell(d model.Date) string {
	if d.IsZero() {
		return "Definir"
	}
	return d.Display()
}

// SetSize updates the dashboard dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.bar.Width = max(width/3, 10)
	m.viewport.Width = width
	m.viewport.Height = max(height-1, 1)
	m.refresh()
}
