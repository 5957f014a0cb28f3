package gateway

import (
	"encoding/json"
	"errors"
	"testing"
)

// captureTransport records posted frames.
type captureTransport struct {
	frames [][]byte
	err    error
}

func (t *captureTransport) Post(data []byte) error {
	t.frames = append(t.frames, data)
	return t.err
}

func TestGateway_DispatchToggle(t *testing.T) {
	g := New(nil)

	var got []bool
	g.OnToggle(func(active bool) { got = append(got, active) })

	g.HandleRaw([]byte(`{"source":"click-to-component","type":"toggle-inspect","payload":{"active":true}}`))
	g.HandleRaw([]byte(`{"source":"click-to-component","type":"toggle-inspect","payload":{"active":false}}`))

	if len(got) != 2 || !got[0] || got[1] {
		t.Errorf("toggle dispatch = %v, want [true false]", got)
	}
}

func TestGateway_DropsForeignSource(t *testing.T) {
	g := New(nil)

	called := false
	g.OnToggle(func(bool) { called = true })

	g.HandleRaw([]byte(`{"source":"other-tool","type":"toggle-inspect","payload":{"active":true}}`))
	g.HandleRaw([]byte(`{"type":"toggle-inspect","payload":{"active":true}}`))

	if called {
		t.Error("toggle handler must not run for foreign or missing source")
	}
}

func TestGateway_IgnoresUnknownTypeAndGarbage(t *testing.T) {
	g := New(nil)
	g.OnToggle(func(bool) { t.Error("unexpected dispatch") })

	g.HandleRaw([]byte(`{"source":"click-to-component","type":"future-thing","payload":{}}`))
	g.HandleRaw([]byte(`not json at all`))
	g.HandleRaw(nil)
}

func TestGateway_Send(t *testing.T) {
	tr := &captureTransport{}
	g := New(tr)

	g.Send(TypeComponentDetected, DetectedPayload{Markdown: "<div />"})

	if len(tr.frames) != 1 {
		t.Fatalf("expected 1 posted frame, got %d", len(tr.frames))
	}
	var msg Message
	if err := json.Unmarshal(tr.frames[0], &msg); err != nil {
		t.Fatalf("posted frame is not valid JSON: %v", err)
	}
	if msg.Source != Source || msg.Type != TypeComponentDetected {
		t.Errorf("unexpected envelope: %+v", msg)
	}
	var p DetectedPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil || p.Markdown != "<div />" {
		t.Errorf("unexpected payload: %s", msg.Payload)
	}
}

func TestGateway_SendSwallowsTransportErrors(t *testing.T) {
	tr := &captureTransport{err: errors.New("no parent context")}
	g := New(tr)

	// Must not panic or surface the error.
	g.Send(TypeComponentDetected, DetectedPayload{Markdown: "x"})

	// Nil transport is also fine.
	New(nil).Send(TypeComponentDetected, DetectedPayload{Markdown: "x"})
}
