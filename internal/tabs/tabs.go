package tabs

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var ErrUnknownTab = errors.New("unknown tab")

// View renders tab selectors and their content panels.
type View interface {
	// DeactivateAll marks every selector and panel inactive.
	DeactivateAll()
	// Activate marks the selector and the panel of tab active.
	Activate(tab string)
}

// Controller keeps exactly one tab active.
type Controller struct {
	mu        sync.Mutex
	view      View
	tabs      []string
	active    string
	listeners []func(string)
}

// New returns a controller over tabs. initial is the tab already marked
// active by the view; when empty or unknown the first tab is activated.
func New(view View, tabs []string, initial string) (*Controller, error) {
	if len(tabs) == 0 {
		return nil, fmt.Errorf("no tabs")
	}

	c := &Controller{
		view: view,
		tabs: slices.Clone(tabs),
	}

	if !slices.Contains(tabs, initial) {
		initial = tabs[0]
	}

	c.apply(initial)
	return c, nil
}

func (c *Controller) Activate(tab string) error {
	c.mu.Lock()
	if !slices.Contains(c.tabs, tab) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}

	c.apply(tab)
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(tab)
	}

	return nil
}

func (c *Controller) apply(tab string) {
	c.view.DeactivateAll()
	c.view.Activate(tab)
	c.active = tab
}

func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *Controller) Tabs() []string {
	return slices.Clone(c.tabs)
}

// OnChange registers fn to be called after every successful activation.
func (c *Controller) OnChange(fn func(tab string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}
