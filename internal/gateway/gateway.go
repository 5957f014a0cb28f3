// Package gateway validates and dispatches the cross-context control
// messages exchanged with the embedding controller. The channel is shared
// with unrelated traffic, so only messages carrying the protocol source
// tag are this system's concern.
package gateway

import (
	"encoding/json"
	"sync"

	"github.com/standardbeagle/pinpoint/internal/debug"
)

// Source is the protocol tag carried by every message in both directions.
const Source = "click-to-component"

// Message types.
const (
	TypeToggleInspect     = "toggle-inspect"
	TypeComponentDetected = "component-detected"
)

// Message is the wire envelope.
type Message struct {
	Source  string          `json:"source"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// TogglePayload is the inbound toggle-inspect payload.
type TogglePayload struct {
	Active bool `json:"active"`
}

// DetectedPayload is the outbound component-detected payload.
type DetectedPayload struct {
	Markdown string `json:"markdown"`
}

// Transport posts raw outbound frames toward the controller context.
type Transport interface {
	Post(data []byte) error
}

// Gateway routes inbound frames to handlers and sends outbound messages.
type Gateway struct {
	mu        sync.Mutex
	transport Transport
	onToggle  func(active bool)
}

// New creates a gateway over the given transport. A nil transport is
// allowed; Send then drops messages.
func New(t Transport) *Gateway {
	return &Gateway{transport: t}
}

// OnToggle registers the handler for toggle-inspect messages.
func (g *Gateway) OnToggle(fn func(active bool)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onToggle = fn
}

// HandleRaw processes one inbound frame. Frames that are not valid JSON,
// carry a different source tag, or have an unknown type are silently
// dropped; unknown types keep the protocol forward compatible.
func (g *Gateway) HandleRaw(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		debug.Trace("gateway", "dropping unparseable frame: %v", err)
		return
	}
	if msg.Source != Source {
		return
	}

	switch msg.Type {
	case TypeToggleInspect:
		var p TogglePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			debug.Log("gateway", "bad toggle payload: %v", err)
			return
		}
		g.mu.Lock()
		fn := g.onToggle
		g.mu.Unlock()
		if fn != nil {
			fn(p.Active)
		}
	default:
		debug.Trace("gateway", "ignoring message type %q", msg.Type)
	}
}

// Send posts a message to the controller. Failures are swallowed: a
// detached or restricted controller degrades delivery, never the caller.
func (g *Gateway) Send(typ string, payload any) {
	g.mu.Lock()
	t := g.transport
	g.mu.Unlock()
	if t == nil {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		debug.Error("gateway", "failed to marshal %s payload: %v", typ, err)
		return
	}
	data, err := json.Marshal(Message{Source: Source, Type: typ, Payload: raw})
	if err != nil {
		debug.Error("gateway", "failed to marshal %s message: %v", typ, err)
		return
	}
	if err := t.Post(data); err != nil {
		debug.Log("gateway", "failed to post %s message: %v", typ, err)
	}
}
