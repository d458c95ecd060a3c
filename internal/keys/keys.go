package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down        key.Binding
	Up          key.Binding
	NextProject key.Binding
	PrevProject key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Manual reload of the workbooks
	Reload key.Binding

	// Date editing
	EditPlanned key.Binding
	EditActual  key.Binding

	// Views
	Items    key.Binding
	Segments key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "próxima etapa"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "etapa anterior"),
		),
		NextProject: key.NewBinding(
			key.WithKeys("tab", "l", "right"),
			key.WithHelp("tab/l", "próxima obra"),
		),
		PrevProject: key.NewBinding(
			key.WithKeys("shift+tab", "h", "left"),
			key.WithHelp("shift+tab/h", "obra anterior"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "abrir segmento"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "voltar"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "sair"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "comandos"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "ajuda"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "recarregar planilhas"),
		),
		EditPlanned: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "editar data prevista"),
		),
		EditActual: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "editar data real"),
		),
		Items: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "itens contratuais"),
		),
		Segments: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "escolher segmento"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.EditPlanned, k.EditActual,
		k.Back, k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextProject, k.PrevProject, k.Select},
		{k.EditPlanned, k.EditActual},
		{k.Items, k.Segments, k.Reload},
		{k.Command, k.Help, k.Back, k.Quit},
	}
}
