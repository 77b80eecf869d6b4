package dom

import (
	"fmt"
	"slices"
)

// TabView toggles the "active" class on .tab headers and their #<name>-form
// panels. Panels are found by id, the "form" class is optional.
type TabView struct {
	doc   Document
	names []string
}

// NewTabView returns a view over the panels of the named tabs.
func NewTabView(doc Document, names []string) *TabView {
	return &TabView{doc: doc, names: slices.Clone(names)}
}

func (me *TabView) DeactivateAll() {
	for _, el := range me.doc.QueryAll(".tab") {
		el.SetClass("active", false)
	}

	for _, el := range me.doc.QueryAll(".form") {
		el.SetClass("active", false)
	}

	for _, name := range me.names {
		if panel, ok := me.doc.ByID(name + "-form"); ok {
			panel.SetClass("active", false)
		}
	}
}

func (me *TabView) Activate(tab string) {
	for _, el := range me.doc.QueryAll(".tab") {
		if name, _ := el.Attr("data-tab"); name == tab {
			el.SetClass("active", true)
		}
	}

	if panel, ok := me.doc.ByID(tab + "-form"); ok {
		panel.SetClass("active", true)
	}
}

// DiscoverTabs lists the tab names declared by .tab[data-tab] headers and the
// one currently marked active. Every header needs a matching #<name>-form.
func DiscoverTabs(doc Document) ([]string, string, error) {
	var names []string
	var active string

	for _, el := range doc.QueryAll(".tab[data-tab]") {
		name, _ := el.Attr("data-tab")
		if name == "" {
			continue
		}

		if _, ok := doc.ByID(name + "-form"); !ok {
			return nil, "", fmt.Errorf("tab %q has no #%s-form panel", name, name)
		}

		names = append(names, name)
		if active == "" && el.HasClass("active") {
			active = name
		}
	}

	if len(names) == 0 {
		return nil, "", fmt.Errorf("no tabs found")
	}

	return names, active, nil
}
