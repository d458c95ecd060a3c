package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestLayout_ContentHeight(t *testing.T) {
	assert.Equal(t, 22, NewLayout(80, 24).ContentHeight())
	assert.Equal(t, 1, NewLayout(80, 1).ContentHeight())
}

func TestLayout_RenderHeaderKeepsStatus(t *testing.T) {
	l := NewLayout(40, 10)
	out := l.RenderHeader(strings.Repeat("Obra ", 20), "hoje 01/02/2025")
	assert.Contains(t, out, "hoje 01/02/2025")
	assert.Contains(t, out, "…")
	assert.LessOrEqual(t, lipgloss.Width(out), 40)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
}
