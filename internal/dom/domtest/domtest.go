// Package domtest provides an in-memory dom.Document for tests: element
// trees, capture-aware event dispatch, and bookkeeping for the nodes the
// inspector creates.
package domtest

import (
	"sync"

	"github.com/standardbeagle/pinpoint/internal/dom"
)

// Document is a fake dom.Document.
type Document struct {
	mu        sync.Mutex
	nodes     []*TestNode
	cursor    string
	listeners map[dom.EventKind][]*listener
	nextID    int
}

type listener struct {
	id      int
	capture bool
	h       func(dom.Event)
}

// NewDocument creates an empty fake document.
func NewDocument() *Document {
	return &Document{listeners: make(map[dom.EventKind][]*listener)}
}

// Elem is a fake rendered element.
type Elem struct {
	Tag        string
	Attributes []dom.Attr
	Text       string
	Box        dom.Rect

	parent  *Elem
	ownedBy *TestNode
}

// NewElement creates a detached element with the given tag.
func (d *Document) NewElement(tag string) *Elem {
	return &Elem{Tag: tag}
}

// WithParent sets the element's parent and returns it.
func (e *Elem) WithParent(parent *Elem) *Elem {
	e.parent = parent
	return e
}

// WithAttr appends an attribute and returns the element.
func (e *Elem) WithAttr(name, value string) *Elem {
	e.Attributes = append(e.Attributes, dom.Attr{Name: name, Value: value})
	return e
}

// WithText sets the visible text and returns the element.
func (e *Elem) WithText(text string) *Elem {
	e.Text = text
	return e
}

// WithBox sets the bounding box and returns the element.
func (e *Elem) WithBox(r dom.Rect) *Elem {
	e.Box = r
	return e
}

func (e *Elem) TagName() string       { return e.Tag }
func (e *Elem) Attrs() []dom.Attr     { return e.Attributes }
func (e *Elem) VisibleText() string   { return e.Text }
func (e *Elem) BoundingBox() dom.Rect { return e.Box }

func (e *Elem) Parent() dom.Element {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *Elem) SameAs(other dom.Element) bool {
	o, ok := other.(*Elem)
	return ok && o == e
}

// TestNode is a fake inspector-created node. Its fields are exported so
// tests can assert on applied styles and text.
type TestNode struct {
	doc     *Document
	Tag     string
	Styles  map[string]string
	Content string
	Removed bool
	elem    *Elem
}

// Element returns the node's element facet, usable as an event target.
func (n *TestNode) Element() dom.Element { return n.elem }

func (n *TestNode) SetStyle(prop, value string) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	n.Styles[prop] = value
}

func (n *TestNode) SetText(text string) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	n.Content = text
	n.elem.Text = text
}

func (n *TestNode) Remove() {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	n.Removed = true
	for i, other := range n.doc.nodes {
		if other == n {
			n.doc.nodes = append(n.doc.nodes[:i], n.doc.nodes[i+1:]...)
			break
		}
	}
}

func (d *Document) AppendNode(tag string) dom.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := &TestNode{doc: d, Tag: tag, Styles: make(map[string]string)}
	n.elem = &Elem{Tag: tag, ownedBy: n}
	d.nodes = append(d.nodes, n)
	return n
}

func (d *Document) OwnsNode(el dom.Element) bool {
	e, ok := el.(*Elem)
	for ok && e != nil {
		if e.ownedBy != nil {
			return true
		}
		e = e.parent
	}
	return false
}

func (d *Document) SetCursor(cursor string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cursor = cursor
}

func (d *Document) ClearCursor() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cursor = ""
}

// Cursor returns the currently applied cursor override, or "".
func (d *Document) Cursor() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor
}

// LiveNodes returns the inspector-created nodes currently attached.
func (d *Document) LiveNodes() []*TestNode {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*TestNode, len(d.nodes))
	copy(out, d.nodes)
	return out
}

// ListenerCount returns the number of attached listeners for kind.
func (d *Document) ListenerCount(kind dom.EventKind) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners[kind])
}

func (d *Document) AddListener(kind dom.EventKind, capture bool, h func(dom.Event)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	l := &listener{id: d.nextID, capture: capture, h: h}
	d.listeners[kind] = append(d.listeners[kind], l)

	id := l.id
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		ls := d.listeners[kind]
		for i, other := range ls {
			if other.id == id {
				d.listeners[kind] = append(ls[:i], ls[i+1:]...)
				return
			}
		}
	}
}

// DispatchResult records what a dispatched event experienced.
type DispatchResult struct {
	DefaultPrevented   bool
	PropagationStopped bool

	// HostSawEvent is true when the event would have reached the host
	// page's own handlers, i.e. no capture-phase listener stopped it.
	HostSawEvent bool
}

type fakeEvent struct {
	target dom.Element
	result *DispatchResult
}

func (e *fakeEvent) Target() dom.Element { return e.target }
func (e *fakeEvent) PreventDefault()     { e.result.DefaultPrevented = true }
func (e *fakeEvent) StopPropagation()    { e.result.PropagationStopped = true }

// Dispatch delivers an event for target through the registered listeners,
// capture phase first, and reports what happened to it.
func (d *Document) Dispatch(kind dom.EventKind, target dom.Element) *DispatchResult {
	d.mu.Lock()
	ls := make([]*listener, len(d.listeners[kind]))
	copy(ls, d.listeners[kind])
	d.mu.Unlock()

	res := &DispatchResult{}
	ev := &fakeEvent{target: target, result: res}

	for _, l := range ls {
		if !l.capture {
			continue
		}
		l.h(ev)
		if res.PropagationStopped {
			return res
		}
	}
	for _, l := range ls {
		if l.capture {
			continue
		}
		l.h(ev)
		if res.PropagationStopped {
			return res
		}
	}
	res.HostSawEvent = true
	return res
}
