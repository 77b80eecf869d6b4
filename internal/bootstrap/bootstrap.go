// Package bootstrap attaches the panel behaviour to a page once it is ready.
package bootstrap

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dokuhost/dokuhost/internal/client"
	"github.com/dokuhost/dokuhost/internal/dispatch"
	"github.com/dokuhost/dokuhost/internal/dom"
	"github.com/dokuhost/dokuhost/internal/tabs"
)

const (
	LoginForm        = "#login-form"
	RegistrationForm = "#registration-form"
	TabSelector      = ".tab"
	ActionSelector   = ".service-actions button[data-action]"
	LogoutSelector   = "[data-logout]"
)

// Binding is one row of the handler registration table. Service action
// controls are bound separately through dispatch.Bind.
type Binding struct {
	Selector string
	Event    string
	// Required bindings log an error when nothing matches.
	Required bool
	Handle   func(el dom.Element, ev dom.Event)
}

type Options struct {
	Document dom.Document
	Client   *client.Client
	Context  context.Context
	// Go runs requests off the event loop. Defaults to a new goroutine.
	Go     func(func())
	Logger *slog.Logger
}

type Page struct {
	doc    dom.Document
	client *client.Client
	ctx    context.Context
	goFn   func(func())
	logger *slog.Logger

	once sync.Once
	tabs *tabs.Controller
}

func New(opts Options) *Page {
	p := &Page{
		doc:    opts.Document,
		client: opts.Client,
		ctx:    opts.Context,
		goFn:   opts.Go,
		logger: opts.Logger,
	}

	if p.ctx == nil {
		p.ctx = context.Background()
	}

	if p.goFn == nil {
		p.goFn = func(f func()) { go f() }
	}

	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	p.logger = p.logger.With("logger", "bootstrap")

	return p
}

// Run builds a Page and binds it when the document is ready.
func Run(opts Options) *Page {
	p := New(opts)
	p.doc.Ready(p.Bind)
	return p
}

// Tabs returns the tab controller, nil when the page has no tabs or has not
// been bound yet.
func (p *Page) Tabs() *tabs.Controller {
	return p.tabs
}

// Bind attaches every handler of the registration table. Later calls are
// no-ops.
func (p *Page) Bind() {
	p.once.Do(p.bind)
}

func (p *Page) bind() {
	p.setupTabs()

	for _, b := range p.Bindings() {
		els := p.doc.QueryAll(b.Selector)
		if len(els) == 0 {
			if b.Required {
				p.logger.Error("element not found", "selector", b.Selector)
			}
			continue
		}

		for _, el := range els {
			handle := b.Handle
			el.On(b.Event, func(ev dom.Event) {
				handle(el, ev)
			})
		}
		p.logger.Debug("handlers attached", "selector", b.Selector, "event", b.Event, "count", len(els))
	}

	n := dispatch.Bind(p.doc.QueryAll(ActionSelector), p.client, dispatch.Options{
		Context: p.ctx,
		Go:      p.goFn,
		Logger:  p.logger,
	})
	p.logger.Debug("handlers attached", "selector", ActionSelector, "event", "click", "count", n)
}

func (p *Page) setupTabs() {
	names, active, err := dom.DiscoverTabs(p.doc)
	if err != nil {
		p.logger.Debug("tabs disabled", "error", err)
		return
	}

	controller, err := tabs.New(dom.NewTabView(p.doc, names), names, active)
	if err != nil {
		p.logger.Error("failed to create tab controller", "error", err)
		return
	}

	p.tabs = controller
	p.client.SetTabs(controller)
}

func (p *Page) Bindings() []Binding {
	return []Binding{
		{Selector: TabSelector, Event: "click", Handle: p.onTab},
		{Selector: LoginForm, Event: "submit", Required: true, Handle: p.onLogin},
		{Selector: RegistrationForm, Event: "submit", Required: true, Handle: p.onRegister},
		{Selector: LogoutSelector, Event: "click", Handle: p.onLogout},
	}
}

func (p *Page) onTab(el dom.Element, ev dom.Event) {
	if p.tabs == nil {
		return
	}

	name, _ := el.Attr("data-tab")
	if err := p.tabs.Activate(name); err != nil {
		p.logger.Warn("tab not activated", "tab", name, "error", err)
	}
}

func (p *Page) onLogin(el dom.Element, ev dom.Event) {
	ev.PreventDefault()
	form := client.FormSubmission(ev.FormValues())

	p.goFn(func() {
		if err := p.client.Login(p.ctx, form); err != nil {
			p.logger.Debug("login failed", "error", err)
		}
	})
}

func (p *Page) onRegister(el dom.Element, ev dom.Event) {
	ev.PreventDefault()
	form := client.FormSubmission(ev.FormValues())

	p.goFn(func() {
		if err := p.client.Register(p.ctx, form); err != nil {
			p.logger.Debug("registration failed", "error", err)
		}
	})
}

func (p *Page) onLogout(el dom.Element, ev dom.Event) {
	ev.PreventDefault()

	p.goFn(func() {
		if err := p.client.Logout(p.ctx); err != nil {
			p.logger.Debug("logout failed", "error", err)
		}
	})
}
