package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the bursts of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// Watcher calls onChange whenever the watched file is created, written or
// replaced. The parent directory is watched so atomic renames are seen.
type Watcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	path     string
	onChange func()
	logger   *slog.Logger
	timer    *time.Timer

	Debounce time.Duration
}

func NewWatcher(path string, onChange func(), logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	me := &Watcher{
		path:     abs,
		onChange: onChange,
		logger:   logger.With("logger", "watcher"),
		Debounce: DefaultDebounce,
	}

	return me, nil
}

// Start blocks until ctx is done or the underlying watcher fails.
func (me *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	me.mu.Lock()
	me.watcher = watcher
	me.mu.Unlock()
	defer me.Stop()

	if err := watcher.Add(filepath.Dir(me.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(me.path), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}

			if filepath.Clean(event.Name) != me.path {
				continue
			}

			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}

			me.logger.Debug("config file changed", "path", event.Name, "op", event.Op.String())
			me.schedule()
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}

			if err != nil {
				return err
			}
		}
	}
}

func (me *Watcher) schedule() {
	me.mu.Lock()
	defer me.mu.Unlock()

	if me.timer != nil {
		me.timer.Stop()
	}

	me.timer = time.AfterFunc(me.Debounce, me.onChange)
}

func (me *Watcher) Stop() {
	me.mu.Lock()
	defer me.mu.Unlock()

	if me.timer != nil {
		me.timer.Stop()
		me.timer = nil
	}

	if me.watcher == nil {
		return
	}

	me.watcher.Close()
	me.watcher = nil
}
