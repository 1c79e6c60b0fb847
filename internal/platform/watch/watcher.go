package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to the SQLite data file (and its -wal/-shm siblings)
// so other open sheets can reload. Bursts are collapsed into one event per debounce window.
type Watcher struct {
	path     string
	base     string
	debounce time.Duration
	fsw      *fsnotify.Watcher
	logger   *slog.Logger
	onChange func(Event)
}

func NewWatcher(dataPath string, debounce time.Duration, logger *slog.Logger, onChange func(Event)) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return &Watcher{
		path:     abs,
		base:     filepath.Base(abs),
		debounce: debounce,
		fsw:      fsw,
		logger:   logger,
		onChange: onChange,
	}, nil
}

// Run blocks until ctx is cancelled and always closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("storage watcher close failed", "err", err)
		}
	}()

	var timer *time.Timer
	var fire <-chan time.Time
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
	}
	defer stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if w.debounce <= 0 {
				w.emit()
				continue
			}
			stopTimer()
			timer = time.NewTimer(w.debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			w.emit()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("storage watcher error", "err", err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return strings.HasPrefix(filepath.Base(ev.Name), w.base)
}

func (w *Watcher) emit() {
	if w.onChange == nil {
		return
	}
	w.onChange(Event{Type: EventRecordsChanged, Path: w.path, At: time.Now().UTC()})
}
