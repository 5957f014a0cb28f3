// Package dom abstracts the rendered page the inspector operates on. The
// inspector runs against pages it does not control, so everything it needs
// from the document is expressed as a narrow interface: the real
// implementation drives a browser over CDP, and tests run against an
// in-memory document.
package dom

// Rect is an element's bounding box in viewport coordinates.
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is a read-only handle to a rendered element in the host page.
type Element interface {
	// TagName returns the lowercase tag name.
	TagName() string

	// Attrs returns the element's attributes in document order.
	Attrs() []Attr

	// VisibleText returns the element's rendered text content.
	VisibleText() string

	// BoundingBox returns the element's current bounding box.
	BoundingBox() Rect

	// Parent returns the parent element, or nil at the root.
	Parent() Element

	// SameAs reports whether other refers to the same underlying element.
	// Handles are not comparable with ==; two handles may wrap one node.
	SameAs(other Element) bool
}

// Node is a handle to an element the inspector itself created and owns.
type Node interface {
	SetStyle(prop, value string)
	SetText(text string)
	Remove()
}

// EventKind identifies the pointer events the inspector listens for.
type EventKind int

const (
	PointerMove EventKind = iota
	Click
)

// Event is a dispatched pointer event.
type Event interface {
	Target() Element

	// PreventDefault suppresses the event's default action.
	PreventDefault()

	// StopPropagation suppresses both remaining propagation phases so the
	// host page never observes the event.
	StopPropagation()
}

// Document is the inspector's view of the host page.
type Document interface {
	// AppendNode creates an element with the given tag, appends it to the
	// document body, and returns a handle owned by the caller.
	AppendNode(tag string) Node

	// OwnsNode reports whether el is an inspector-created node or a
	// descendant of one. Used to keep the overlay from being reported as
	// the hovered or clicked target.
	OwnsNode(el Element) bool

	// SetCursor overrides the page cursor; ClearCursor restores it.
	SetCursor(cursor string)
	ClearCursor()

	// AddListener attaches h for the given event kind and returns a
	// function that detaches it. Capture-phase listeners observe events
	// before the host page's own handlers.
	AddListener(kind EventKind, capture bool, h func(Event)) (remove func())
}
