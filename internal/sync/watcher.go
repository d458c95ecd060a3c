package sync

import (
	"context"
	"fmt"
	"path/filepath"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// SourceChangedMsg is a tea.Msg sent when a watched workbook was saved.
type SourceChangedMsg struct {
	Path string
}

// DefaultDebounce is how long a file must stay quiet before a change is
// reported. Spreadsheet editors write several times per save.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reports changes to local workbook files. It watches the parent
// directories because editors usually replace files on save.
type Watcher struct {
	mu       gosync.Mutex
	fs       *fsnotify.Watcher
	files    map[string]bool
	pending  map[string]time.Time
	debounce time.Duration
	events   chan SourceChangedMsg
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stopOnce gosync.Once
	log      *zap.Logger
}

// NewWatcher creates a watcher for the given file paths.
func NewWatcher(paths []string, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		fs:       fw,
		files:    make(map[string]bool),
		pending:  make(map[string]time.Time),
		debounce: debounce,
		events:   make(chan SourceChangedMsg, 8),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		log:      log,
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			log.Warn("cannot watch source directory", zap.String("dir", dir), zap.Error(err))
		}
	}
	return w, nil
}

// Start begins watching. It does not block. A stopped watcher cannot be
// restarted.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running || w.closed() {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.run(ctx)
}

// Stop halts the watcher and releases its resources.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		wasRunning := w.running
		w.running = false
		w.mu.Unlock()

		if wasRunning {
			close(w.stopCh)
			<-w.doneCh
		} else {
			close(w.doneCh)
		}
		if err := w.fs.Close(); err != nil {
			w.log.Warn("closing file watcher", zap.Error(err))
		}
	})
}

// Events returns the channel of debounced change notifications.
func (w *Watcher) Events() <-chan SourceChangedMsg { return w.events }

// WaitCmd returns a tea.Cmd that blocks until the next change. Call it
// again after handling each SourceChangedMsg to keep listening. A nil
// Watcher yields a nil command.
func (w *Watcher) WaitCmd() tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case msg := <-w.events:
			return msg
		case <-w.doneCh:
			return nil
		}
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := time.NewTicker(w.debounce / 5)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", zap.Error(err))
		case now := <-tick.C:
			w.flush(now)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
		return
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil || !w.files[name] {
		return
	}
	w.pending[name] = time.Now()
}

// flush emits every path that has been quiet for the debounce period.
func (w *Watcher) flush(now time.Time) {
	for path, last := range w.pending {
		if now.Sub(last) < w.debounce {
			continue
		}
		delete(w.pending, path)
		w.log.Info("source file changed", zap.String("path", path))
		select {
		case w.events <- SourceChangedMsg{Path: path}:
		default:
		}
	}
}

func (w *Watcher) closed() bool {
	select {
	case <-w.doneCh:
		return true
	default:
		return false
	}
}
