// Package naming classifies component names reported by framework
// instrumentation, separating authorial component names from internal
// framework and library artifacts.
package naming

import "strings"

// frameworkInternalNames are meta-framework boundary and router components
// that render around user code but are never authored by the user.
var frameworkInternalNames = map[string]bool{
	"AppRouter":                 true,
	"Router":                    true,
	"InnerLayoutRouter":         true,
	"OuterLayoutRouter":         true,
	"RedirectBoundary":          true,
	"RedirectErrorBoundary":     true,
	"NotFoundBoundary":          true,
	"NotFoundErrorBoundary":     true,
	"LoadingBoundary":           true,
	"ErrorBoundary":             true,
	"ErrorBoundaryHandler":      true,
	"RenderFromTemplateContext": true,
	"ScrollAndFocusHandler":     true,
	"HotReload":                 true,
	"ReactDevOverlay":           true,
	"DevRootNotFoundBoundary":   true,
	"ServerRoot":                true,
	"Head":                      true,
}

// reactInternalNames are base-framework wrapper types that carry no source
// location of their own.
var reactInternalNames = map[string]bool{
	"Fragment":     true,
	"Suspense":     true,
	"SuspenseList": true,
	"StrictMode":   true,
	"Profiler":     true,
	"Activity":     true,
}

// slotMarkerNames are slot/clone pass-through markers used by headless UI
// libraries. They forward rendering to a child and are meaningless as an
// attribution target.
var slotMarkerNames = map[string]bool{
	"Slot":      true,
	"SlotClone": true,
}

// primitivePrefix marks structural primitives (e.g. "Primitive.div") that
// wrap a bare host element.
const primitivePrefix = "Primitive."

// isDenied applies the checks shared by both predicates: trivial names,
// underscore-prefixed internals, deny-listed framework names, and
// structural primitives.
func isDenied(name string) bool {
	if len(name) <= 1 {
		return true
	}
	if strings.HasPrefix(name, "_") {
		return true
	}
	if frameworkInternalNames[name] || reactInternalNames[name] {
		return true
	}
	if strings.HasPrefix(name, primitivePrefix) {
		return true
	}
	return false
}

// IsSourceComponentName reports whether name is worth showing as the
// authorial function name in a formatted stack line. It is stricter than
// IsUsefulComponentName: component names in source are uppercase by
// convention, and provider/context wrappers are framework plumbing rather
// than the component the user wrote.
func IsSourceComponentName(name string) bool {
	if isDenied(name) {
		return false
	}
	if name[0] < 'A' || name[0] > 'Z' {
		return false
	}
	if strings.Contains(name, "Provider") && strings.Contains(name, "Context") {
		return false
	}
	return true
}

// IsUsefulComponentName reports whether name is worth showing in a bare
// name list when no source locations are available. Casing is not enforced
// at that layer (minified builds lowercase function names), but slot/clone
// markers are excluded.
func IsUsefulComponentName(name string) bool {
	if isDenied(name) {
		return false
	}
	if slotMarkerNames[name] {
		return false
	}
	return true
}
