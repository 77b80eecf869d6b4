// Package dispatch turns service action controls into PerformAction calls.
package dispatch

import (
	"context"
	"log/slog"

	"github.com/dokuhost/dokuhost/internal/dom"
)

const (
	ActionAttr  = "data-action"
	ServiceAttr = "data-service-id"
)

type Performer interface {
	PerformAction(ctx context.Context, action string, serviceID string) error
}

type Options struct {
	Context context.Context
	// Go runs a request off the event loop. Defaults to a new goroutine.
	Go     func(func())
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Context == nil {
		o.Context = context.Background()
	}

	if o.Go == nil {
		o.Go = func(f func()) { go f() }
	}

	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	o.Logger = o.Logger.With("logger", "dispatch")

	return o
}

// handler returns a click handler reading the action and service designators
// from the clicked control when the click happens.
func handler(performer Performer, opts Options) func(el dom.Element, ev dom.Event) {
	opts = opts.withDefaults()

	return func(el dom.Element, ev dom.Event) {
		action, _ := el.Attr(ActionAttr)
		if action == "" {
			return
		}
		serviceID, _ := el.Attr(ServiceAttr)

		opts.Go(func() {
			if err := performer.PerformAction(opts.Context, action, serviceID); err != nil {
				opts.Logger.Debug("service action failed", "action", action, "service", serviceID, "error", err)
			}
		})
	}
}

// Bind subscribes every control carrying an action designator and returns
// how many were bound.
func Bind(controls []dom.Element, performer Performer, opts Options) int {
	handle := handler(performer, opts)

	var bound int
	for _, el := range controls {
		if _, ok := el.Attr(ActionAttr); !ok {
			continue
		}

		el.On("click", func(ev dom.Event) {
			handle(el, ev)
		})
		bound++
	}

	return bound
}
