package cdp

import (
	"testing"

	"github.com/standardbeagle/pinpoint/internal/instrument"
)

func TestInstrument_IsSourceFile(t *testing.T) {
	i := &Instrument{}
	tests := []struct {
		file string
		want bool
	}{
		{"", false},
		{"<anonymous>", false},
		{"node_modules/react-dom/index.js", false},
		{"webpack-internal:///./node_modules/ui/button.js", false},
		{"src/components/UserCard.tsx", true},
		{"webpack-internal:///./src/App.tsx", true},
	}
	for _, tt := range tests {
		if got := i.IsSourceFile(tt.file); got != tt.want {
			t.Errorf("IsSourceFile(%q) = %v, want %v", tt.file, got, tt.want)
		}
	}
}

func TestInstrument_NormalizeFileName(t *testing.T) {
	i := &Instrument{ProjectRoot: "/home/dev/app"}
	tests := []struct {
		file string
		want string
	}{
		{"webpack-internal:///./src/App.tsx", "src/App.tsx"},
		{"webpack://src/App.tsx", "src/App.tsx"},
		{"file:///home/dev/app/src/App.tsx", "src/App.tsx"},
		{"src/App.tsx", "src/App.tsx"},
	}
	for _, tt := range tests {
		if got := i.NormalizeFileName(tt.file); got != tt.want {
			t.Errorf("NormalizeFileName(%q) = %q, want %q", tt.file, got, tt.want)
		}
	}
}

func TestInstrument_SnapshotTraversal(t *testing.T) {
	i := &Instrument{}
	snap := &fiberSnapshot{
		ref: "el-1",
		nodes: []fiberNode{
			{Name: "div", Composite: false},
			{Name: "UserCard", Composite: true},
			{Name: "App", Composite: true},
		},
	}

	if i.IsComposite(snap) {
		t.Error("host fiber misreported as composite")
	}
	if got := i.DisplayName(snap); got != "div" {
		t.Errorf("DisplayName(snapshot) = %q", got)
	}

	var visited []string
	i.Traverse(snap, func(f instrument.Fiber) bool {
		visited = append(visited, i.DisplayName(f))
		return false
	}, true)
	if len(visited) != 2 || visited[0] != "UserCard" || visited[1] != "App" {
		t.Errorf("Traverse visited %v", visited)
	}

	// Downward traversal is not supported for snapshots.
	i.Traverse(snap, func(instrument.Fiber) bool {
		t.Error("downward traversal must visit nothing")
		return true
	}, false)
}
