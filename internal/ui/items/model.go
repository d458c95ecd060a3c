package items

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/obra-tracker/internal/model"
	"github.com/nhle/obra-tracker/internal/theme"
)

// EmptyText is shown when a segment has no contractual items.
const EmptyText = "Nenhum item encontrado."

// Model lists the contractual (PER) items of a segment.
type Model struct {
	table   table.Model
	segment model.Segment
	count   int
	width   int
	height  int
}

// New creates a new items view.
func New(width, height int) Model {
	t := table.New(
		table.WithColumns(columns(width)),
		table.WithFocused(true),
		table.WithHeight(height-2),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.ColorBorder).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.Foreground(theme.ColorBlue).Bold(true)
	t.SetStyles(st)

	return Model{table: t, width: width, height: height}
}

func columns(width int) []table.Column {
	itemWidth := width - 16
	if itemWidth < 20 {
		itemWidth = 20
	}
	return []table.Column{
		{Title: "ITEM / OBRA", Width: itemWidth},
		{Title: "ANO", Width: 8},
	}
}

// SetItems replaces the listed items.
func (m *Model) SetItems(segment model.Segment, list []model.ContractItem) {
	m.segment = segment
	m.count = len(list)
	rows := make([]table.Row, len(list))
	for i, it := range list {
		rows[i] = table.Row{it.Item, it.YearLabel()}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Update handles table navigation.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the items listing.
func (m Model) View() string {
	title := theme.HeaderStyle.Render("ITENS CONTRATUAIS (PER) · " + string(m.segment))
	if m.count == 0 {
		empty := lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Padding(1, 2).
			Render(EmptyText)
		return lipgloss.JoinVertical(lipgloss.Left, title, empty)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, m.table.View())
}

// SetSize updates the table dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetColumns(columns(width))
	m.table.SetHeight(height - 2)
}
