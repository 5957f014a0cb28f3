// Package instrument defines the optional capability contract exposed by
// the host page's UI framework. The inspector treats its absence as a
// first-class degraded mode: a nil or inactive implementation routes every
// resolution to the no-detection path, never to an error.
package instrument

import (
	"context"

	"github.com/standardbeagle/pinpoint/internal/attribution"
	"github.com/standardbeagle/pinpoint/internal/dom"
)

// Fiber is an opaque handle to a node of the framework's internal
// composition tree. Only the implementation that produced it can interpret
// it; a nil Fiber means "no node".
type Fiber any

// Instrumentation is the introspection capability over the host page's
// render tree.
type Instrumentation interface {
	// Active reports whether instrumentation is present and usable in the
	// host page.
	Active() bool

	// FiberFor maps a rendered element to its composition-tree node, or
	// nil when no node corresponds to it.
	FiberFor(el dom.Element) Fiber

	// IsComposite reports whether f is a composite (component) node as
	// opposed to a host-element node.
	IsComposite(f Fiber) bool

	// DisplayName returns the component name reported for f, or "".
	DisplayName(f Fiber) string

	// Traverse visits nodes starting from f, upward through ancestors
	// when up is true. The visitor returns true to stop early. f itself
	// is not visited.
	Traverse(f Fiber, visit func(Fiber) bool, up bool)

	// OwnerStack fetches the asynchronous owner stack for f. The call
	// blocks until the page produces it; callers decide how to wait.
	OwnerStack(ctx context.Context, f Fiber) ([]attribution.Frame, error)

	// SourceResolver classifies and normalizes reported file paths.
	attribution.SourceResolver
}
