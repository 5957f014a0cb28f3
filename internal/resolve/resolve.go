// Package resolve orchestrates the attribution pipeline: element preview,
// owner-stack formatting, and the fallback ladder applied when the
// instrumentation degrades or fails.
package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/standardbeagle/pinpoint/internal/attribution"
	"github.com/standardbeagle/pinpoint/internal/debug"
	"github.com/standardbeagle/pinpoint/internal/dom"
	"github.com/standardbeagle/pinpoint/internal/instrument"
	"github.com/standardbeagle/pinpoint/internal/naming"
)

const (
	// maxAttrValueLen caps rendered attribute values in the preview.
	maxAttrValueLen = 50
	// maxTextLen caps rendered visible text in the preview.
	maxTextLen = 100

	// noComponentSuffix is appended to the preview when no component can
	// be attributed to the element.
	noComponentSuffix = "\n  (no component detected)"
)

// Resolver produces one attribution report per element.
type Resolver struct {
	// Instr is the injected instrumentation capability; nil means the
	// host page exposes none.
	Instr instrument.Instrumentation

	// MaxStackLines caps formatted stack lines; 0 means the default.
	MaxStackLines int

	// MaxAncestorNames caps the bare-name fallback; 0 means the default.
	MaxAncestorNames int
}

// DefaultMaxAncestorNames is the ancestor-name fallback cap applied when
// MaxAncestorNames is 0.
const DefaultMaxAncestorNames = 3

// Resolve returns the attribution report for el. It blocks only on the
// instrumentation's owner-stack lookup; every instrumentation failure is
// degraded into a weaker report rather than an error.
func (r *Resolver) Resolve(ctx context.Context, el dom.Element) string {
	preview := Preview(el)

	if r.Instr == nil || !r.Instr.Active() {
		return preview + noComponentSuffix
	}
	fiber := r.Instr.FiberFor(el)
	if fiber == nil {
		return preview + noComponentSuffix
	}

	frames, err := r.Instr.OwnerStack(ctx, fiber)
	if err == nil && attribution.HasSourceFiles(frames, r.Instr) {
		lines := attribution.FormatStack(frames, r.Instr, r.MaxStackLines)
		return appendLines(preview, lines)
	}
	if err != nil {
		debug.Log("resolve", "owner stack lookup failed: %v", err)
	}

	// No source locations available: fall back to bare component names
	// collected from the composition tree.
	if names := r.componentNames(fiber); len(names) > 0 {
		var lines []string
		for _, name := range names {
			lines = append(lines, "in "+name)
		}
		return appendLines(preview, lines)
	}
	return preview
}

// componentNames collects up to MaxAncestorNames useful composite names,
// starting at fiber and walking outward.
func (r *Resolver) componentNames(fiber instrument.Fiber) []string {
	max := r.MaxAncestorNames
	if max <= 0 {
		max = DefaultMaxAncestorNames
	}

	var names []string
	collect := func(f instrument.Fiber) bool {
		if r.Instr.IsComposite(f) {
			if name := r.Instr.DisplayName(f); naming.IsUsefulComponentName(name) {
				names = append(names, name)
			}
		}
		return len(names) >= max
	}
	if !collect(fiber) {
		r.Instr.Traverse(fiber, collect, true)
	}
	return names
}

// NearestComponentName returns the first useful composite name among el's
// ancestor composition nodes, excluding the node mapped to el itself.
// Used synchronously for the overlay label; "" when nothing qualifies.
func (r *Resolver) NearestComponentName(el dom.Element) string {
	if r.Instr == nil || !r.Instr.Active() {
		return ""
	}
	fiber := r.Instr.FiberFor(el)
	if fiber == nil {
		return ""
	}

	var found string
	r.Instr.Traverse(fiber, func(f instrument.Fiber) bool {
		if !r.Instr.IsComposite(f) {
			return false
		}
		if name := r.Instr.DisplayName(f); naming.IsUsefulComponentName(name) {
			found = name
			return true
		}
		return false
	}, true)
	return found
}

// Preview renders a compact textual description of el: tag, attributes,
// and visible text, each bounded.
func Preview(el dom.Element) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(strings.ToLower(el.TagName()))
	for _, a := range el.Attrs() {
		b.WriteString(fmt.Sprintf(" %s=%q", a.Name, truncate(a.Value, maxAttrValueLen, true)))
	}

	text := truncate(el.VisibleText(), maxTextLen, false)
	if text == "" {
		b.WriteString(" />")
		return b.String()
	}
	b.WriteString(">\n  ")
	b.WriteString(text)
	b.WriteString("\n</")
	b.WriteString(strings.ToLower(el.TagName()))
	b.WriteString(">")
	return b.String()
}

func truncate(s string, max int, marker bool) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if marker {
		return string(runes[:max]) + "..."
	}
	return string(runes[:max])
}

func appendLines(preview string, lines []string) string {
	var b strings.Builder
	b.WriteString(preview)
	for _, line := range lines {
		b.WriteString("\n  ")
		b.WriteString(line)
	}
	return b.String()
}
