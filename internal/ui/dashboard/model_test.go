package dashboard

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/obra-tracker/internal/keys"
	"github.com/nhle/obra-tracker/internal/model"
	"github.com/nhle/obra-tracker/internal/schedule"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func segmentView() schedule.SegmentView {
	today := model.MustDate("2025-02-01")
	a := schedule.DeriveProjectView(
		model.Project{Name: "Obra A", Segment: "SH 01", Year: "2024"},
		[]model.MilestoneRecord{
			{Stage: model.StageAnteprojeto, UserPlanned: model.MustDate("2024-12-01"), SourceActual: model.MustDate("2024-11-20")},
			{Stage: model.StageExecutivo, UserPlanned: model.MustDate("2025-01-10")},
		},
		today,
	)
	b := schedule.DeriveProjectView(model.Project{Name: "Obra B", Segment: "SH 01"}, nil, today)
	return schedule.SegmentView{Segment: "SH 01", Today: today, Projects: []schedule.ProjectView{a, b}}
}

func send(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m, _ = m.Update(keyMsg(k))
	}
	return m
}

func TestDashboard_CursorMovement(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 30)
	m.SetView(segmentView())

	m = send(t, m, "j", "j")
	p, s := m.Cursor()
	assert.Equal(t, 0, p)
	assert.Equal(t, 2, s)

	m = send(t, m, "k", "k", "k")
	_, s = m.Cursor()
	assert.Equal(t, 0, s, "cursor stops at the first stage")

	m = send(t, m, "tab")
	p, _ = m.Cursor()
	assert.Equal(t, 1, p)
	m = send(t, m, "tab")
	p, _ = m.Cursor()
	assert.Equal(t, 0, p, "wraps around")
	m = send(t, m, "shift+tab")
	p, _ = m.Cursor()
	assert.Equal(t, 1, p)

	for i := 0; i < 20; i++ {
		m = send(t, m, "j")
	}
	_, s = m.Cursor()
	assert.Equal(t, model.StageCount-1, s)
}

func TestDashboard_EditRequests(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 30)
	m.SetView(segmentView())
	m = send(t, m, "j", "j")

	_, cmd := m.Update(keyMsg("p"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(EditDateMsg)
	require.True(t, ok)
	assert.Equal(t, model.OverrideKey{Segment: "SH 01", Project: "Obra A", Stage: model.StageExecutivo, Kind: model.KindPlanned}, msg.Key)
	assert.Equal(t, model.MustDate("2025-01-10"), msg.Current)

	m = send(t, m, "k", "k")
	_, cmd = m.Update(keyMsg("a"))
	msg = cmd().(EditDateMsg)
	assert.Equal(t, model.KindActual, msg.Key.Kind)
	assert.Equal(t, model.MustDate("2024-11-20"), msg.Current, "prefilled with the source date")
}

func TestDashboard_SetViewKeepsCursor(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 30)
	m.SetView(segmentView())
	m = send(t, m, "tab", "j", "j", "j")

	m.SetView(segmentView())
	p, s := m.Cursor()
	assert.Equal(t, 1, p)
	assert.Equal(t, 3, s)

	other := segmentView()
	other.Segment = "SH 02"
	other.Projects = other.Projects[:1]
	m.SetView(other)
	p, s = m.Cursor()
	assert.Equal(t, 0, p)
	assert.Equal(t, 0, s)
}

func TestDashboard_View(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 120, 40)
	m.SetView(segmentView())
	out := m.View()

	assert.Contains(t, out, "Obra A")
	assert.Contains(t, out, "PROGRESSO GERAL 11% CONCLUÍDO")
	assert.Contains(t, out, "NO PRAZO")
	assert.Contains(t, out, "ATRASADO")
	assert.Contains(t, out, "10/01/2025")
	assert.Contains(t, out, "Definir")
	assert.Contains(t, out, "Atenção Requerida")

	m = send(t, m, "tab")
	assert.Contains(t, m.View(), "Cronograma em dia!")

	empty := New(keys.DefaultKeyMap(), 80, 20)
	empty.SetView(schedule.SegmentView{Segment: "SH 09"})
	assert.Contains(t, empty.View(), "Nenhuma obra neste segmento.")
}
