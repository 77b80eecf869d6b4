package dom

import (
	"fmt"
	"sync"

	"github.com/dokuhost/dokuhost/internal/notify"
)

const notificationStyle = "position: fixed; top: 20px; right: 20px; padding: 15px 20px; " +
	"border-radius: 8px; color: white; z-index: 1000; font-weight: bold; " +
	"box-shadow: 0 4px 12px rgba(0, 0, 0, 0.15); background-color: %s;"

// Surface renders notifications as fixed banners in the top-right corner of
// the page.
type Surface struct {
	mu      sync.Mutex
	doc     Document
	mounted map[*notify.Notification]Element
}

func NewSurface(doc Document) *Surface {
	return &Surface{
		doc:     doc,
		mounted: make(map[*notify.Notification]Element),
	}
}

// Clear removes every notification banner, including ones not created by this
// surface.
func (me *Surface) Clear() {
	me.mu.Lock()
	defer me.mu.Unlock()

	for _, el := range me.doc.QueryAll(".notification") {
		el.Remove()
	}
	clear(me.mounted)
}

func (me *Surface) Mount(n *notify.Notification) {
	el := me.doc.Create("div")
	el.SetClass("notification", true)
	el.SetClass(string(n.Kind), true)
	el.SetText(n.Message)
	el.SetStyle(fmt.Sprintf(notificationStyle, n.Kind.Color()))
	me.doc.AppendToBody(el)

	me.mu.Lock()
	me.mounted[n] = el
	me.mu.Unlock()
}

func (me *Surface) Mounted(n *notify.Notification) bool {
	me.mu.Lock()
	defer me.mu.Unlock()

	el, ok := me.mounted[n]
	return ok && el.Attached()
}

func (me *Surface) Unmount(n *notify.Notification) {
	me.mu.Lock()
	el, ok := me.mounted[n]
	delete(me.mounted, n)
	me.mu.Unlock()

	if ok {
		el.Remove()
	}
}
