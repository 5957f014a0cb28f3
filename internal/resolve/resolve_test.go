package resolve

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/standardbeagle/pinpoint/internal/attribution"
	"github.com/standardbeagle/pinpoint/internal/dom"
	"github.com/standardbeagle/pinpoint/internal/dom/domtest"
	"github.com/standardbeagle/pinpoint/internal/instrument"
)

// fakeFiber is a test composition node: a name, a composite flag, and a
// parent link the fake instrumentation walks.
type fakeFiber struct {
	name      string
	composite bool
	parent    *fakeFiber
}

// fakeInstr implements instrument.Instrumentation against a fixed mapping
// of elements to fibers.
type fakeInstr struct {
	active   bool
	fibers   map[dom.Element]*fakeFiber
	stack    []attribution.Frame
	stackErr error
}

func (f *fakeInstr) Active() bool { return f.active }

func (f *fakeInstr) FiberFor(el dom.Element) instrument.Fiber {
	for mapped, fiber := range f.fibers {
		if mapped.SameAs(el) {
			return fiber
		}
	}
	return nil
}

func (f *fakeInstr) IsComposite(fb instrument.Fiber) bool {
	return fb.(*fakeFiber).composite
}

func (f *fakeInstr) DisplayName(fb instrument.Fiber) string {
	return fb.(*fakeFiber).name
}

func (f *fakeInstr) Traverse(fb instrument.Fiber, visit func(instrument.Fiber) bool, up bool) {
	if !up {
		return
	}
	for cur := fb.(*fakeFiber).parent; cur != nil; cur = cur.parent {
		if visit(cur) {
			return
		}
	}
}

func (f *fakeInstr) OwnerStack(ctx context.Context, fb instrument.Fiber) ([]attribution.Frame, error) {
	return f.stack, f.stackErr
}

func (f *fakeInstr) IsSourceFile(name string) bool {
	return strings.Contains(name, "src/")
}

func (f *fakeInstr) NormalizeFileName(name string) string { return name }

func TestPreview(t *testing.T) {
	doc := domtest.NewDocument()

	el := doc.NewElement("button").WithAttr("class", "primary").WithText("Save")
	got := Preview(el)
	want := "<button class=\"primary\">\n  Save\n</button>"
	if got != want {
		t.Errorf("Preview() = %q, want %q", got, want)
	}

	empty := doc.NewElement("img").WithAttr("src", "/logo.png")
	if got := Preview(empty); got != `<img src="/logo.png" />` {
		t.Errorf("Preview() = %q", got)
	}
}

func TestPreview_Truncation(t *testing.T) {
	doc := domtest.NewDocument()
	longVal := strings.Repeat("v", 80)
	longText := strings.Repeat("t", 150)
	el := doc.NewElement("div").WithAttr("data-x", longVal).WithText(longText)

	got := Preview(el)
	wantAttr := `data-x="` + strings.Repeat("v", 50) + `..."`
	if !strings.Contains(got, wantAttr) {
		t.Errorf("attribute not truncated to 50 chars with marker: %q", got)
	}
	if strings.Contains(got, strings.Repeat("t", 101)) {
		t.Errorf("text not truncated to 100 chars: %q", got)
	}
	if !strings.Contains(got, strings.Repeat("t", 100)) {
		t.Errorf("text over-truncated: %q", got)
	}
}

func TestResolve_NoInstrumentation(t *testing.T) {
	doc := domtest.NewDocument()
	el := doc.NewElement("div").WithAttr("id", "app")

	tests := []struct {
		name  string
		instr instrument.Instrumentation
	}{
		{"nil capability", nil},
		{"inactive capability", &fakeInstr{active: false}},
		{"unmapped element", &fakeInstr{active: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resolver{Instr: tt.instr}
			got := r.Resolve(context.Background(), el)
			want := Preview(el) + "\n  (no component detected)"
			if got != want {
				t.Errorf("Resolve() = %q, want %q", got, want)
			}
		})
	}
}

func TestResolve_StackWithSourceFiles(t *testing.T) {
	doc := domtest.NewDocument()
	el := doc.NewElement("span")

	instr := &fakeInstr{
		active: true,
		fibers: map[dom.Element]*fakeFiber{el: {}},
		stack: []attribution.Frame{
			{FunctionName: "UserCard", FileName: "src/UserCard.tsx", LineNumber: 7, ColumnNumber: 3},
			{FunctionName: "App", FileName: "src/App.tsx", LineNumber: 20, ColumnNumber: 9},
		},
	}

	r := &Resolver{Instr: instr}
	got := r.Resolve(context.Background(), el)
	want := Preview(el) +
		"\n  in UserCard (at src/UserCard.tsx:7:3)" +
		"\n  in App (at src/App.tsx:20:9)"
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestResolve_NameFallbackWhenNoSourceFiles(t *testing.T) {
	doc := domtest.NewDocument()
	el := doc.NewElement("span")

	root := &fakeFiber{name: "App", composite: true}
	mid := &fakeFiber{name: "Suspense", composite: true, parent: root}
	leaf := &fakeFiber{name: "UserCard", composite: true, parent: mid}
	host := &fakeFiber{name: "span", parent: leaf}

	instr := &fakeInstr{
		active: true,
		fibers: map[dom.Element]*fakeFiber{el: host},
		stack: []attribution.Frame{
			{FunctionName: "bundled", FileName: "node_modules/lib/index.js", LineNumber: 1, ColumnNumber: 1},
		},
	}

	r := &Resolver{Instr: instr}
	got := r.Resolve(context.Background(), el)
	// "Suspense" is filtered out as a framework internal.
	want := Preview(el) + "\n  in UserCard\n  in App"
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestResolve_NameFallbackOnStackError(t *testing.T) {
	doc := domtest.NewDocument()
	el := doc.NewElement("span")

	root := &fakeFiber{name: "TaskBoard", composite: true}
	host := &fakeFiber{parent: root}

	instr := &fakeInstr{
		active:   true,
		fibers:   map[dom.Element]*fakeFiber{el: host},
		stackErr: errors.New("devtools hook gone"),
	}

	r := &Resolver{Instr: instr}
	got := r.Resolve(context.Background(), el)
	if got != Preview(el)+"\n  in TaskBoard" {
		t.Errorf("Resolve() = %q", got)
	}
}

func TestResolve_BarePreviewWhenNothingFound(t *testing.T) {
	doc := domtest.NewDocument()
	el := doc.NewElement("span")

	host := &fakeFiber{}
	instr := &fakeInstr{
		active:   true,
		fibers:   map[dom.Element]*fakeFiber{el: host},
		stackErr: errors.New("rejected"),
	}

	r := &Resolver{Instr: instr}
	if got := r.Resolve(context.Background(), el); got != Preview(el) {
		t.Errorf("Resolve() = %q, want bare preview", got)
	}
}

func TestResolve_AncestorNameCap(t *testing.T) {
	doc := domtest.NewDocument()
	el := doc.NewElement("span")

	var parent *fakeFiber
	for i := 0; i < 6; i++ {
		parent = &fakeFiber{name: "Comp" + string(rune('A'+i)), composite: true, parent: parent}
	}
	host := &fakeFiber{parent: parent}

	instr := &fakeInstr{
		active:   true,
		fibers:   map[dom.Element]*fakeFiber{el: host},
		stackErr: errors.New("rejected"),
	}

	r := &Resolver{Instr: instr}
	got := r.Resolve(context.Background(), el)
	if n := strings.Count(got, "\n  in "); n != 3 {
		t.Errorf("expected 3 fallback names, got %d in %q", n, got)
	}
}

func TestNearestComponentName(t *testing.T) {
	doc := domtest.NewDocument()
	el := doc.NewElement("div")

	root := &fakeFiber{name: "App", composite: true}
	card := &fakeFiber{name: "UserCard", composite: true, parent: root}
	// The node mapped to the element is itself composite, but it must be
	// excluded from the walk.
	mapped := &fakeFiber{name: "Clicked", composite: true, parent: card}

	instr := &fakeInstr{active: true, fibers: map[dom.Element]*fakeFiber{el: mapped}}
	r := &Resolver{Instr: instr}

	if got := r.NearestComponentName(el); got != "UserCard" {
		t.Errorf("NearestComponentName() = %q, want %q", got, "UserCard")
	}

	if got := (&Resolver{}).NearestComponentName(el); got != "" {
		t.Errorf("expected empty name without instrumentation, got %q", got)
	}
}
