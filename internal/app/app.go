package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/obra-tracker/internal/ingest"
	"github.com/nhle/obra-tracker/internal/keys"
	"github.com/nhle/obra-tracker/internal/model"
	"github.com/nhle/obra-tracker/internal/schedule"
	"github.com/nhle/obra-tracker/internal/store"
	appsync "github.com/nhle/obra-tracker/internal/sync"
	"github.com/nhle/obra-tracker/internal/ui"
	"github.com/nhle/obra-tracker/internal/ui/command"
	"github.com/nhle/obra-tracker/internal/ui/dashboard"
	"github.com/nhle/obra-tracker/internal/ui/dateform"
	helpview "github.com/nhle/obra-tracker/internal/ui/help"
	"github.com/nhle/obra-tracker/internal/ui/items"
	"github.com/nhle/obra-tracker/internal/ui/segments"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewSegments ViewState = iota
	ViewDashboard
	ViewDateForm
	ViewItems
	ViewHelp
	ViewCommand
)

// Options wires the root model to its collaborators.
type Options struct {
	Store    store.OverrideStore
	Reloader *appsync.Reloader
	// Watcher is optional; nil disables change-triggered reloads.
	Watcher *appsync.Watcher
	Clock   model.Clock
	Log     *zap.Logger
	// Segment, when set, is opened as soon as the dataset is loaded.
	Segment model.Segment
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the override store.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        store.OverrideStore
	reloader     *appsync.Reloader
	watcher      *appsync.Watcher
	clock        model.Clock
	log          *zap.Logger
	keys         *keys.KeyMap

	engine  *schedule.Engine
	dataset *ingest.Dataset
	segment model.Segment
	// autoOpen routes the first loaded dataset straight to the preselected
	// segment's dashboard. Cleared after the first load.
	autoOpen bool

	segmentList segments.Model
	dashboard   dashboard.Model
	dateForm    dateform.Model
	itemsView   items.Model
	helpView    helpview.Model
	commandView command.Model

	ready    bool
	loading  bool
	warnings []string
	message  string
}

// New creates a new root application model.
func New(opts Options) Model {
	k := keys.DefaultKeyMap()
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return Model{
		currentView: ViewSegments,
		store:       opts.Store,
		reloader:    opts.Reloader,
		watcher:     opts.Watcher,
		clock:       opts.Clock,
		log:         log,
		keys:        k,
		segment:     opts.Segment,
		autoOpen:    opts.Segment != "",
		loading:     true,
		segmentList: segments.New(k, 80, 24),
		dashboard:   dashboard.New(k, 80, 24),
		dateForm:    dateform.New(80, 24),
		itemsView:   items.New(80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
	}
}

// Init starts the first ingestion pass and, when enabled, listens for
// workbook changes.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.reloader.LoadCmd()}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.WaitCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.segmentList.SetSize(w, h)
		m.dashboard.SetSize(w, h)
		m.dateForm.SetSize(w, h)
		m.itemsView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case appsync.DatasetLoadedMsg:
		return m, m.applyDataset(msg)

	case appsync.SourceChangedMsg:
		m.message = "planilha alterada, recarregando"
		return m, tea.Batch(m.reload(), m.watcher.WaitCmd())

	case segmentDerivedMsg:
		if msg.err != nil {
			m.log.Error("deriving segment", zap.String("segment", string(msg.view.Segment)), zap.Error(msg.err))
			m.message = msg.err.Error()
			m.currentView = ViewSegments
			return m, nil
		}
		if msg.view.Segment != m.segment {
			// stale derivation for a segment the user already left
			return m, nil
		}
		m.dashboard.SetView(msg.view)
		m.itemsView.SetItems(msg.view.Segment, msg.view.Items)
		return m, nil

	case segments.SelectedSegmentMsg:
		m.segment = msg.Segment
		m.currentView = ViewDashboard
		m.message = ""
		return m, m.deriveSegment()

	case dashboard.EditDateMsg:
		m.previousView = m.currentView
		m.currentView = ViewDateForm
		return m, m.dateForm.Start(msg.Key, msg.Current)

	case dateform.DateSubmittedMsg:
		m.currentView = ViewDashboard
		return m, m.saveOverride(msg.Key, msg.Value)

	case dateform.DateFormCancelMsg:
		m.currentView = ViewDashboard
		return m, nil

	case overrideSavedMsg:
		if msg.err != nil {
			m.log.Error("saving override", zap.String("key", msg.key.String()), zap.Error(msg.err))
			m.message = fmt.Sprintf("erro ao salvar: %v", msg.err)
			return m, nil
		}
		m.message = savedMessage(msg.key, msg.value)
		return m, m.deriveSegment()

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work regardless of the current
// view. Views with text input keep every key except ctrl+c.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m.quit(), true
	}
	if m.textInputActive() {
		if msg.String() == "esc" && m.currentView == ViewCommand {
			m.currentView = m.previousView
			return nil, true
		}
		return nil, false
	}

	switch msg.String() {
	case "q":
		return m.quit(), true

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil, true

	case ":":
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m.commandView.Focus(), true

	case "r":
		return m.reload(), true

	case "i":
		if m.segment != "" && m.currentView == ViewDashboard {
			m.previousView = m.currentView
			m.currentView = ViewItems
			return nil, true
		}

	case "s":
		if m.currentView != ViewSegments {
			m.currentView = ViewSegments
			return nil, true
		}

	case "esc":
		switch m.currentView {
		case ViewHelp, ViewItems:
			m.currentView = m.previousView
			return nil, true
		case ViewDashboard:
			m.currentView = ViewSegments
			return nil, true
		}
	}
	return nil, false
}

// textInputActive reports whether the focused view consumes plain keys.
func (m Model) textInputActive() bool {
	switch m.currentView {
	case ViewDateForm, ViewCommand:
		return true
	case ViewSegments:
		return m.segmentList.Filtering()
	}
	return false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewSegments:
		m.segmentList, cmd = m.segmentList.Update(msg)
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewDateForm:
		m.dateForm, cmd = m.dateForm.Update(msg)
	case ViewItems:
		m.itemsView, cmd = m.itemsView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Carregando..."
	}

	title := "Acompanhamento de Obras"
	if m.segment != "" {
		title += " · " + string(m.segment)
	}
	header := m.layout.RenderHeader(title, m.loadStatus())
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewSegments:
		return m.segmentList.View()
	case ViewDashboard:
		return m.dashboard.View()
	case ViewDateForm:
		return m.dateForm.View()
	case ViewItems:
		return m.itemsView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// loadStatus returns a short string describing the dataset state.
func (m Model) loadStatus() string {
	switch {
	case m.loading:
		return "carregando planilhas..."
	case m.dataset == nil:
		return ""
	case len(m.warnings) > 0 && m.dataset.Fallback:
		return fmt.Sprintf("⚠ dados de exemplo (%d avisos)", len(m.warnings))
	case len(m.warnings) > 0:
		return fmt.Sprintf("⚠ %d avisos", len(m.warnings))
	case m.dataset.Fallback:
		return "dados de exemplo"
	}
	return "hoje " + m.today().Display()
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.message != "" && (m.currentView == ViewDashboard || m.currentView == ViewSegments) {
		return m.message
	}

	switch m.currentView {
	case ViewHelp:
		return "? fechar ajuda | esc voltar"
	case ViewCommand:
		return "enter executar | esc voltar"
	case ViewDateForm:
		return "enter salvar | vazio limpa | esc cancelar"
	case ViewItems:
		return "j/k rolar | esc voltar"
	case ViewDashboard:
		return m.helpView.ShortView()
	default:
		if len(m.warnings) > 0 {
			return m.warnings[0]
		}
		return "enter abrir | / filtrar | r recarregar | q sair | ? ajuda"
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "reload", "refresh":
		return m.reload()
	case "items":
		if m.segment != "" {
			m.previousView = ViewDashboard
			m.currentView = ViewItems
		}
		return nil
	case "segments":
		m.currentView = ViewSegments
		return nil
	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil
	case "quit", "q":
		return m.quit()
	default:
		m.message = fmt.Sprintf("comando desconhecido: %s", cmd)
		return nil
	}
}

func (m *Model) quit() tea.Cmd {
	if m.watcher != nil {
		m.watcher.Stop()
	}
	return tea.Quit
}

func (m Model) today() model.Date {
	if m.engine != nil {
		return m.engine.Today()
	}
	return m.clock.Today()
}
