package segments

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/obra-tracker/internal/keys"
	"github.com/nhle/obra-tracker/internal/model"
	"github.com/nhle/obra-tracker/internal/theme"
)

// SelectedSegmentMsg is sent when the user opens a segment.
type SelectedSegmentMsg struct {
	Segment model.Segment
}

// segmentItem adapts a segment for bubbles/list.
type segmentItem struct {
	segment  model.Segment
	projects int
}

func (i segmentItem) FilterValue() string { return string(i.segment) }
func (i segmentItem) Title() string       { return string(i.segment) }
func (i segmentItem) Description() string {
	if i.projects == 1 {
		return "1 obra"
	}
	return fmt.Sprintf("%d obras", i.projects)
}

// Model is the segment picker.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a new segment picker.
func New(k *keys.KeyMap, width, height int) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(theme.ColorBlue).
		BorderForeground(theme.ColorBlue)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(theme.ColorGray).
		BorderForeground(theme.ColorBlue)

	l := list.New([]list.Item{}, delegate, width, height)
	l.Title = "Segmentos"
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.Styles.Title = theme.HeaderStyle

	return Model{list: l, keys: k, width: width, height: height}
}

// SetSegments replaces the listed segments. counts maps a segment to its
// number of projects.
func (m *Model) SetSegments(segs []model.Segment, counts map[model.Segment]int) tea.Cmd {
	items := make([]list.Item, len(segs))
	for i, s := range segs {
		items[i] = segmentItem{segment: s, projects: counts[s]}
	}
	return m.list.SetItems(items)
}

// Filtering reports whether the filter input has focus, in which case
// global keys must not be intercepted.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Update handles messages for the segment picker.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && !m.Filtering() && key.Matches(km, m.keys.Select) {
		item, ok := m.list.SelectedItem().(segmentItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedSegmentMsg{Segment: item.segment}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the segment picker.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Carregando planilhas...")
	}
	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
