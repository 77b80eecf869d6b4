// Package term renders the panel in a terminal: notifications become styled
// lines, navigation prints the target URL and tabs print a header.
package term

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/cli/browser"
	"github.com/mattn/go-isatty"

	"github.com/dokuhost/dokuhost/internal/notify"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// Surface prints each notification once. Printed lines cannot be taken back,
// so Clear and Unmount only forget them.
type Surface struct {
	mu      sync.Mutex
	w       io.Writer
	color   bool
	mounted map[*notify.Notification]bool
}

func NewSurface(w io.Writer) *Surface {
	return &Surface{
		w:       w,
		color:   IsTerminal(w),
		mounted: make(map[*notify.Notification]bool),
	}
}

func (me *Surface) Clear() {
	me.mu.Lock()
	defer me.mu.Unlock()

	clear(me.mounted)
}

func (me *Surface) Mount(n *notify.Notification) {
	me.mu.Lock()
	defer me.mu.Unlock()

	me.mounted[n] = true
	fmt.Fprintln(me.w, me.render(n))
}

func (me *Surface) render(n *notify.Notification) string {
	if !me.color {
		return fmt.Sprintf("[%s] %s", n.Kind, n.Message)
	}

	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(n.Kind.Color())).
		Padding(0, 1).
		Render(n.Message)
}

func (me *Surface) Mounted(n *notify.Notification) bool {
	me.mu.Lock()
	defer me.mu.Unlock()

	return me.mounted[n]
}

func (me *Surface) Unmount(n *notify.Notification) {
	me.mu.Lock()
	defer me.mu.Unlock()

	delete(me.mounted, n)
}

// Navigator prints where the page would go and optionally opens it in the
// browser.
type Navigator struct {
	mu      sync.Mutex
	w       io.Writer
	resolve func(string) string
	logger  *slog.Logger
	last    string
	reloads int

	// Open opens navigation targets in the default browser.
	Open bool
	// OpenURL defaults to browser.OpenURL.
	OpenURL func(url string) error
}

func NewNavigator(w io.Writer, resolve func(string) string, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Navigator{
		w:       w,
		resolve: resolve,
		logger:  logger.With("logger", "navigator"),
		OpenURL: browser.OpenURL,
	}
}

func (me *Navigator) Navigate(target string) {
	url := me.resolve(target)

	me.mu.Lock()
	me.last = url
	me.mu.Unlock()

	me.logger.Info("navigating", "url", url)
	fmt.Fprintln(me.w, "→", url)

	if !me.Open {
		return
	}

	if err := me.OpenURL(url); err != nil {
		me.logger.Error("failed to open browser", "url", url, "error", err)
	}
}

func (me *Navigator) Reload() {
	me.mu.Lock()
	me.reloads++
	me.mu.Unlock()

	fmt.Fprintln(me.w, "↻ the page would reload now")
}

// Last returns the most recent navigation target.
func (me *Navigator) Last() (string, bool) {
	me.mu.Lock()
	defer me.mu.Unlock()

	return me.last, me.last != ""
}

func (me *Navigator) Reloads() int {
	me.mu.Lock()
	defer me.mu.Unlock()

	return me.reloads
}

// TabView prints a header whenever a tab becomes active.
type TabView struct {
	w      io.Writer
	color  bool
	titles map[string]string
}

func NewTabView(w io.Writer, titles map[string]string) *TabView {
	return &TabView{w: w, color: IsTerminal(w), titles: titles}
}

func (me *TabView) DeactivateAll() {}

func (me *TabView) Activate(tab string) {
	title, ok := me.titles[tab]
	if !ok {
		title = tab
	}

	if me.color {
		title = lipgloss.NewStyle().Bold(true).Underline(true).Render(title)
	}

	fmt.Fprintln(me.w, title)
}
