package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_PortugueseTitle(t *testing.T) {
	m := New(80, 24)
	out := m.View()
	assert.Contains(t, out, "Paleta de comandos")
	assert.NotContains(t, out, "Command Palette")
}

func TestUpdate_EnterEmitsLowercasedCommand(t *testing.T) {
	m := New(80, 24)
	m.input.SetValue("  Reload ")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, CommandMsg("reload"), cmd())
	assert.Empty(t, m.input.Value())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "blank input runs nothing")
}
