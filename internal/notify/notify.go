// Package notify shows transient user-facing messages. Only one notification
// is visible at a time: a new one evicts the previous ones immediately and
// every notification removes itself after DismissAfter.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dokuhost/dokuhost/internal/schedule"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

// Color is the background colour used to render a notification of this kind.
func (k Kind) Color() string {
	if k == Success {
		return "#28a745"
	}
	return "#dc3545"
}

const DismissAfter = 4 * time.Second

type Notification struct {
	Message   string
	Kind      Kind
	CreatedAt time.Time
}

// Surface is where notifications are displayed.
type Surface interface {
	// Clear removes every displayed notification.
	Clear()
	Mount(n *Notification)
	// Mounted reports whether n is still displayed.
	Mounted(n *Notification) bool
	Unmount(n *Notification)
}

type Notifier struct {
	mu      sync.Mutex
	surface Surface
	sched   schedule.Scheduler
	logger  *slog.Logger
	current *Notification

	Now func() time.Time
}

func New(surface Surface, sched schedule.Scheduler, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Notifier{
		surface: surface,
		sched:   sched,
		logger:  logger.With("logger", "notify"),
		Now:     time.Now,
	}
}

func (me *Notifier) Notify(message string, kind Kind) {
	note := &Notification{
		Message:   message,
		Kind:      kind,
		CreatedAt: me.Now(),
	}

	me.mu.Lock()
	me.surface.Clear()
	me.surface.Mount(note)
	me.current = note
	me.mu.Unlock()

	me.logger.Debug("notification shown", "kind", kind, "message", message)
	me.sched.AfterFunc(DismissAfter, func() {
		me.dismiss(note)
	})
}

func (me *Notifier) dismiss(note *Notification) {
	me.mu.Lock()
	defer me.mu.Unlock()

	if me.current == note {
		me.current = nil
	}

	// a newer notification already evicted this one
	if !me.surface.Mounted(note) {
		return
	}

	me.surface.Unmount(note)
}

// Current returns the notification occupying the slot, if any.
func (me *Notifier) Current() (Notification, bool) {
	me.mu.Lock()
	defer me.mu.Unlock()

	if me.current == nil {
		return Notification{}, false
	}

	return *me.current, true
}
