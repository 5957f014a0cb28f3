// Package attribution defines owner-stack frames and formats them into the
// bounded, human-readable text block shown to the controller.
package attribution

import (
	"fmt"

	"github.com/standardbeagle/pinpoint/internal/naming"
)

// Frame is one entry of an owner stack: the component invocation that
// produced a rendered element, ordered most-proximate-to-element first.
type Frame struct {
	IsServerRendered bool
	FileName         string
	FunctionName     string
	LineNumber       int
	ColumnNumber     int
}

// SourceResolver classifies and normalizes file paths reported by the
// instrumentation. Bundler output mixes user source with node_modules and
// virtual modules; only the instrumentation knows which is which.
type SourceResolver interface {
	IsSourceFile(fileName string) bool
	NormalizeFileName(fileName string) string
}

// DefaultMaxLines is the stack line cap applied when callers pass 0.
const DefaultMaxLines = 3

// FormatStack renders at most maxLines attribution lines from frames.
//
// Server-rendered frames always emit a line and count toward the cap, even
// without a file name. Client frames emit only when their file classifies
// as genuine source; non-source frames are skipped without consuming a
// slot. Remaining frames past the cap are dropped with no truncation
// marker.
func FormatStack(frames []Frame, src SourceResolver, maxLines int) []string {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}

	var lines []string
	for _, f := range frames {
		if len(lines) >= maxLines {
			break
		}
		if f.IsServerRendered {
			fn := f.FunctionName
			if fn == "" {
				fn = "<anonymous>"
			}
			lines = append(lines, fmt.Sprintf("in %s (at Server)", fn))
			continue
		}
		if f.FileName == "" || src == nil || !src.IsSourceFile(f.FileName) {
			continue
		}
		loc := fmt.Sprintf("%s:%d:%d", src.NormalizeFileName(f.FileName), f.LineNumber, f.ColumnNumber)
		if naming.IsSourceComponentName(f.FunctionName) {
			lines = append(lines, fmt.Sprintf("in %s (at %s)", f.FunctionName, loc))
		} else {
			lines = append(lines, fmt.Sprintf("in %s", loc))
		}
	}
	return lines
}

// HasSourceFiles reports whether frames contain anything FormatStack would
// render: a server-rendered frame or a file classified as source. Callers
// branch on this to pick between the stack output and the bare-name
// fallback.
func HasSourceFiles(frames []Frame, src SourceResolver) bool {
	for _, f := range frames {
		if f.IsServerRendered {
			return true
		}
		if f.FileName != "" && src != nil && src.IsSourceFile(f.FileName) {
			return true
		}
	}
	return false
}
