package dom

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is an Element backed by an html.Node.
type Node struct {
	h         *html.Node
	index     *index
	listeners map[string][]func(Event)
}

// index maps the html nodes of one tree to the Node values wrapping them, so
// that query results carry the listeners attached earlier.
type index struct {
	nodes map[*html.Node]*Node
}

func newIndex() *index {
	return &index{nodes: make(map[*html.Node]*Node)}
}

func (ix *index) wrap(h *html.Node) *Node {
	if n, ok := ix.nodes[h]; ok {
		return n
	}

	n := &Node{h: h, index: ix, listeners: make(map[string][]func(Event))}
	ix.nodes[h] = n
	return n
}

// NewNode returns a detached element. attrs are name/value pairs.
func NewNode(tag string, attrs ...string) *Node {
	tag = strings.ToLower(tag)
	h := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	n := newIndex().wrap(h)

	for i := 0; i+1 < len(attrs); i += 2 {
		n.SetAttr(attrs[i], attrs[i+1])
	}

	return n
}

func (n *Node) SetAttr(name, value string) {
	for i, a := range n.h.Attr {
		if a.Namespace == "" && a.Key == name {
			n.h.Attr[i].Val = value
			return
		}
	}

	n.h.Attr = append(n.h.Attr, html.Attribute{Key: name, Val: value})
}

// Append adds children to n, detaching them from their previous parent.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		c.Remove()
		n.h.AppendChild(c.h)
		n.adopt(c)
	}

	return n
}

// adopt moves the wrappers of c's subtree into n's index.
func (n *Node) adopt(c *Node) {
	from, to := c.index, n.index
	if from == to {
		return
	}

	walk(c.h, func(h *html.Node) {
		if w, ok := from.nodes[h]; ok {
			delete(from.nodes, h)
			w.index = to
			to.nodes[h] = w
		}
	})
}

// Text returns the concatenated text of n's descendants.
func (n *Node) Text() string {
	var sb strings.Builder
	walk(n.h, func(h *html.Node) {
		if h.Type == html.TextNode {
			sb.WriteString(h.Data)
		}
	})

	return sb.String()
}

func (n *Node) Style() string {
	v, _ := n.Attr("style")
	return v
}

func (n *Node) ID() string {
	v, _ := n.Attr("id")
	return v
}

func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.h.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}

	return "", false
}

func (n *Node) classes() []string {
	v, _ := n.Attr("class")
	return strings.Fields(v)
}

func (n *Node) HasClass(name string) bool {
	return slices.Contains(n.classes(), name)
}

func (n *Node) SetClass(name string, on bool) {
	classes := n.classes()
	has := slices.Contains(classes, name)
	switch {
	case on && !has:
		classes = append(classes, name)
	case !on && has:
		classes = slices.DeleteFunc(classes, func(c string) bool { return c == name })
	default:
		return
	}

	n.SetAttr("class", strings.Join(classes, " "))
}

func (n *Node) SetText(text string) {
	for c := n.h.FirstChild; c != nil; c = n.h.FirstChild {
		n.h.RemoveChild(c)
	}

	n.h.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func (n *Node) SetStyle(css string) {
	n.SetAttr("style", css)
}

func (n *Node) Remove() {
	if n.h.Parent != nil {
		n.h.Parent.RemoveChild(n.h)
	}
}

func (n *Node) Attached() bool {
	top := n.h
	for top.Parent != nil {
		top = top.Parent
	}

	return top.Type == html.DocumentNode
}

func (n *Node) On(event string, fn func(Event)) {
	n.listeners[event] = append(n.listeners[event], fn)
}

// Dispatch fires event on n and returns it once every listener has run.
func (n *Node) Dispatch(event string) *MemoryEvent {
	ev := &MemoryEvent{Target: n}
	for _, fn := range slices.Clone(n.listeners[event]) {
		fn(ev)
	}

	return ev
}

// Listeners reports how many handlers are attached for event.
func (n *Node) Listeners(event string) int {
	return len(n.listeners[event])
}

func walk(h *html.Node, fn func(*html.Node)) {
	fn(h)
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

type MemoryEvent struct {
	Target    *Node
	Prevented bool
}

func (e *MemoryEvent) PreventDefault() {
	e.Prevented = true
}

// FormValues collects the named fields below the target: the value attribute
// of inputs and the text of textareas.
func (e *MemoryEvent) FormValues() map[string]string {
	values := make(map[string]string)
	walk(e.Target.h, func(h *html.Node) {
		if h.Type != html.ElementNode {
			return
		}

		field := e.Target.index.wrap(h)
		name, ok := field.Attr("name")
		if !ok {
			return
		}

		if h.DataAtom == atom.Textarea {
			values[name] = field.Text()
			return
		}
		values[name], _ = field.Attr("value")
	})

	return values
}

// Memory is a Document held in memory, used to drive the panel without a
// browser.
type Memory struct {
	root  *html.Node
	body  *html.Node
	index *index
}

func NewMemory() *Memory {
	root := &html.Node{Type: html.DocumentNode}
	doc := &html.Node{Type: html.ElementNode, Data: "html", DataAtom: atom.Html}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	root.AppendChild(doc)
	doc.AppendChild(body)

	return &Memory{root: root, body: body, index: newIndex()}
}

// ParseMemory parses an HTML page into a Memory document.
func ParseMemory(r io.Reader) (*Memory, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	body := cascadia.Query(root, cascadia.MustCompile("body"))
	if body == nil {
		return nil, fmt.Errorf("page has no body")
	}

	return &Memory{root: root, body: body, index: newIndex()}, nil
}

func (m *Memory) Body() *Node {
	return m.index.wrap(m.body)
}

func (m *Memory) ByID(id string) (Element, bool) {
	var found *html.Node
	walk(m.root, func(h *html.Node) {
		if found != nil || h.Type != html.ElementNode {
			return
		}

		for _, a := range h.Attr {
			if a.Namespace == "" && a.Key == "id" && a.Val == id {
				found = h
				return
			}
		}
	})

	if found == nil {
		return nil, false
	}

	return m.index.wrap(found), true
}

// QueryAll returns nil for selectors that do not compile.
func (m *Memory) QueryAll(selector string) []Element {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil
	}

	var out []Element
	for _, h := range cascadia.QueryAll(m.root, sel) {
		out = append(out, m.index.wrap(h))
	}

	return out
}

func (m *Memory) Create(tag string) Element {
	return NewNode(tag)
}

func (m *Memory) AppendToBody(el Element) {
	if n, ok := el.(*Node); ok {
		m.Body().Append(n)
	}
}

func (m *Memory) Ready(fn func()) {
	fn()
}
