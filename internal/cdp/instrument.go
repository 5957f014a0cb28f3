package cdp

import (
	"context"
	"fmt"
	"strings"

	"github.com/standardbeagle/pinpoint/internal/attribution"
	"github.com/standardbeagle/pinpoint/internal/debug"
	"github.com/standardbeagle/pinpoint/internal/dom"
	"github.com/standardbeagle/pinpoint/internal/instrument"
)

// Instrument implements instrument.Instrumentation against the React
// fiber internals reachable from the attached page.
type Instrument struct {
	page *Page

	// ProjectRoot, when set, is stripped from reported file paths during
	// normalization.
	ProjectRoot string
}

// NewInstrument creates the instrumentation capability for page.
func NewInstrument(page *Page) *Instrument {
	return &Instrument{page: page}
}

// fiberSnapshot is the composition-tree walk captured for one element:
// nodes[0] is the fiber mapped to the element, nodes[1:] its ancestors.
type fiberSnapshot struct {
	ref   string
	nodes []fiberNode
}

type fiberNode struct {
	Name      string `json:"name"`
	Composite bool   `json:"composite"`
}

func (i *Instrument) Active() bool {
	var active bool
	if err := i.page.eval(instrumentationActiveScript, &active); err != nil {
		debug.Log("cdp", "instrumentation probe failed: %v", err)
		return false
	}
	return active
}

func (i *Instrument) FiberFor(el dom.Element) instrument.Fiber {
	e, ok := el.(*element)
	if !ok {
		return nil
	}
	var snap *struct {
		Nodes []fiberNode `json:"nodes"`
	}
	if err := i.page.eval(fiberSnapshotScript, &snap, e.ref); err != nil {
		debug.Log("cdp", "fiber snapshot failed: %v", err)
		return nil
	}
	if snap == nil || len(snap.Nodes) == 0 {
		return nil
	}
	return &fiberSnapshot{ref: e.ref, nodes: snap.Nodes}
}

func (i *Instrument) IsComposite(f instrument.Fiber) bool {
	switch v := f.(type) {
	case *fiberSnapshot:
		return v.nodes[0].Composite
	case *fiberNode:
		return v.Composite
	default:
		return false
	}
}

func (i *Instrument) DisplayName(f instrument.Fiber) string {
	switch v := f.(type) {
	case *fiberSnapshot:
		return v.nodes[0].Name
	case *fiberNode:
		return v.Name
	default:
		return ""
	}
}

// Traverse walks the captured ancestors of f. Only upward traversal is
// meaningful for a snapshot; downward requests visit nothing.
func (i *Instrument) Traverse(f instrument.Fiber, visit func(instrument.Fiber) bool, up bool) {
	snap, ok := f.(*fiberSnapshot)
	if !ok || !up {
		return
	}
	for idx := 1; idx < len(snap.nodes); idx++ {
		if visit(&snap.nodes[idx]) {
			return
		}
	}
}

type ownerFrame struct {
	File string `json:"file"`
	Fn   string `json:"fn"`
	Line int    `json:"line"`
	Col  int    `json:"col"`
}

// OwnerStack fetches the debug-owner chain for the element behind f. The
// page evaluation is the pipeline's one suspension point.
func (i *Instrument) OwnerStack(ctx context.Context, f instrument.Fiber) ([]attribution.Frame, error) {
	snap, ok := f.(*fiberSnapshot)
	if !ok {
		return nil, fmt.Errorf("foreign fiber handle %T", f)
	}

	done := make(chan struct{})
	var raw []ownerFrame
	var err error
	go func() {
		defer close(done)
		err = i.page.eval(ownerStackScript, &raw, snap.ref)
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}
	if err != nil {
		return nil, fmt.Errorf("owner stack lookup: %w", err)
	}

	frames := make([]attribution.Frame, 0, len(raw))
	for _, fr := range raw {
		frames = append(frames, attribution.Frame{
			FileName:     fr.File,
			FunctionName: fr.Fn,
			LineNumber:   fr.Line,
			ColumnNumber: fr.Col,
		})
	}
	return frames, nil
}

// IsSourceFile classifies bundler-reported paths: project source counts,
// dependency and bundler-internal modules do not.
func (i *Instrument) IsSourceFile(fileName string) bool {
	if fileName == "" || fileName == "<anonymous>" {
		return false
	}
	if strings.Contains(fileName, "node_modules") {
		return false
	}
	return true
}

// NormalizeFileName strips bundler URL schemes and the project root so
// reports show workspace-relative paths.
func (i *Instrument) NormalizeFileName(fileName string) string {
	for _, prefix := range []string{"webpack-internal:///", "webpack://", "file://"} {
		fileName = strings.TrimPrefix(fileName, prefix)
	}
	fileName = strings.TrimPrefix(fileName, "./")
	if i.ProjectRoot != "" {
		fileName = strings.TrimPrefix(fileName, strings.TrimSuffix(i.ProjectRoot, "/")+"/")
	}
	return fileName
}
