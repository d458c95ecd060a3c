package help

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/obra-tracker/internal/keys"
)

func TestView_PortugueseRegister(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 120, 40)
	out := m.View()

	assert.Contains(t, out, "Atalhos de teclado")
	assert.Contains(t, out, "recarregar planilhas")
	assert.Contains(t, out, "editar data real")
	assert.Contains(t, out, "A DEFINIR")
	assert.NotContains(t, out, "reload workbooks")
}
