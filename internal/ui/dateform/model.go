package dateform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/obra-tracker/internal/model"
	"github.com/nhle/obra-tracker/internal/theme"
)

// DateSubmittedMsg carries the edited value. An empty Value clears the
// override.
type DateSubmittedMsg struct {
	Key   model.OverrideKey
	Value string
}

// DateFormCancelMsg is dispatched when the user cancels the form.
type DateFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	value string
}

// Model edits a single planned or actual date.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	key    model.OverrideKey
	width  int
	height int
}

// New creates a new date form model.
func New(width, height int) Model {
	return Model{fb: &formBindings{}, width: width, height: height}
}

// Start opens the form for key, prefilled with the current value.
func (m *Model) Start(key model.OverrideKey, current model.Date) tea.Cmd {
	m.key = key
	m.fb.value = current.Display()
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fieldTitle(key)).
				Description(fmt.Sprintf("%s · %s", key.Project, key.Stage)).
				Placeholder("DD/MM/AAAA ou AAAA-MM-DD (vazio limpa)").
				Value(&m.fb.value).
				Validate(ValidateDate),
		),
	).WithWidth(m.formWidth()).WithShowHelp(true)
	return m.form.Init()
}

// Key returns the override being edited.
func (m Model) Key() model.OverrideKey { return m.key }

// Update handles messages for the date form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		key, value := m.key, strings.TrimSpace(m.fb.value)
		m.form = nil
		return m, func() tea.Msg { return DateSubmittedMsg{Key: key, Value: value} }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return DateFormCancelMsg{} }
	}
	return m, cmd
}

// View renders the date form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(string(m.key.Segment)) + "\n" + m.form.View()
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func fieldTitle(key model.OverrideKey) string {
	if key.Kind == model.KindActual {
		return "DATA REAL"
	}
	return "DATA PREVISTA"
}

// ValidateDate accepts an empty value or any form model.ParseDate understands.
func ValidateDate(s string) error {
	if _, err := model.ParseDate(s); err != nil {
		return fmt.Errorf("data inválida, use DD/MM/AAAA ou AAAA-MM-DD")
	}
	return nil
}
