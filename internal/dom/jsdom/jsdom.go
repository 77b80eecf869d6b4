//go:build js && wasm

// Package jsdom binds dom.Document to the browser page through syscall/js.
package jsdom

import (
	"syscall/js"

	"github.com/dokuhost/dokuhost/internal/dom"
)

type Document struct {
	doc js.Value
}

func New() *Document {
	return &Document{doc: js.Global().Get("document")}
}

func (d *Document) ByID(id string) (dom.Element, bool) {
	v := d.doc.Call("getElementById", id)
	if v.IsNull() || v.IsUndefined() {
		return nil, false
	}

	return &Element{v: v}, true
}

func (d *Document) QueryAll(selector string) []dom.Element {
	list := d.doc.Call("querySelectorAll", selector)
	n := list.Get("length").Int()

	out := make([]dom.Element, 0, n)
	for i := range n {
		out = append(out, &Element{v: list.Call("item", i)})
	}

	return out
}

func (d *Document) Create(tag string) dom.Element {
	return &Element{v: d.doc.Call("createElement", tag)}
}

func (d *Document) AppendToBody(el dom.Element) {
	e, ok := el.(*Element)
	if !ok {
		return
	}

	d.doc.Get("body").Call("appendChild", e.v)
}

func (d *Document) Ready(fn func()) {
	if d.doc.Get("readyState").String() != "loading" {
		fn()
		return
	}

	var cb js.Func
	cb = js.FuncOf(func(this js.Value, args []js.Value) any {
		cb.Release()
		fn()
		return nil
	})
	d.doc.Call("addEventListener", "DOMContentLoaded", cb)
}

type Element struct {
	v js.Value
}

func (e *Element) ID() string {
	return e.v.Get("id").String()
}

func (e *Element) Attr(name string) (string, bool) {
	if !e.v.Call("hasAttribute", name).Bool() {
		return "", false
	}

	return e.v.Call("getAttribute", name).String(), true
}

func (e *Element) HasClass(name string) bool {
	return e.v.Get("classList").Call("contains", name).Bool()
}

func (e *Element) SetClass(name string, on bool) {
	e.v.Get("classList").Call("toggle", name, on)
}

func (e *Element) SetText(text string) {
	e.v.Set("textContent", text)
}

func (e *Element) SetStyle(css string) {
	e.v.Get("style").Set("cssText", css)
}

func (e *Element) Remove() {
	e.v.Call("remove")
}

func (e *Element) Attached() bool {
	return e.v.Get("isConnected").Bool()
}

// On registers fn for the lifetime of the page. fn runs on the event loop and
// must not block; long work belongs in a goroutine.
func (e *Element) On(event string, fn func(dom.Event)) {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(&Event{v: args[0]})
		}
		return nil
	})
	e.v.Call("addEventListener", event, cb)
}

type Event struct {
	v js.Value
}

func (e *Event) PreventDefault() {
	e.v.Call("preventDefault")
}

func (e *Event) FormValues() map[string]string {
	form := e.v.Get("currentTarget")
	entries := js.Global().Get("Object").Call("fromEntries", js.Global().Get("FormData").New(form))
	keys := js.Global().Get("Object").Call("keys", entries)

	values := make(map[string]string, keys.Length())
	for i := range keys.Length() {
		key := keys.Index(i).String()
		values[key] = entries.Get(key).String()
	}

	return values
}

// Location drives window.location.
type Location struct{}

func (Location) Navigate(target string) {
	js.Global().Get("location").Set("href", target)
}

func (Location) Reload() {
	js.Global().Get("location").Call("reload")
}

// Origin is the scheme, host and port of the current page.
func Origin() string {
	return js.Global().Get("location").Get("origin").String()
}
