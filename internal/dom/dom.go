// Package dom is the slice of the page the panel code depends on. The
// browser implementation lives in jsdom; Memory is an html.Node tree queried
// with cascadia selectors.
package dom

type Event interface {
	PreventDefault()
	// FormValues returns the named fields of the form the event targets.
	FormValues() map[string]string
}

type Element interface {
	ID() string
	Attr(name string) (string, bool)
	HasClass(name string) bool
	SetClass(name string, on bool)
	SetText(text string)
	SetStyle(css string)
	// Remove detaches the element from the document.
	Remove()
	// Attached reports whether the element is part of the document.
	Attached() bool
	On(event string, fn func(Event))
}

type Document interface {
	ByID(id string) (Element, bool)
	// QueryAll returns the elements matching a CSS selector in document order.
	QueryAll(selector string) []Element
	// Create returns a new detached element.
	Create(tag string) Element
	AppendToBody(el Element)
	// Ready runs fn once the document has been parsed.
	Ready(fn func())
}
