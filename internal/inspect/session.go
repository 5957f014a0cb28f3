// Package inspect owns the inspect-mode lifecycle: activation, pointer
// event wiring, and selection handling. One session per page; transitions
// are idempotent.
package inspect

import (
	"context"
	"sync"

	"github.com/standardbeagle/pinpoint/internal/debug"
	"github.com/standardbeagle/pinpoint/internal/dom"
	"github.com/standardbeagle/pinpoint/internal/gateway"
	"github.com/standardbeagle/pinpoint/internal/overlay"
	"github.com/standardbeagle/pinpoint/internal/resolve"
)

// Sender delivers outbound protocol messages. Implemented by
// gateway.Gateway.
type Sender interface {
	Send(typ string, payload any)
}

// Config wires a session's collaborators.
type Config struct {
	Doc      dom.Document
	Resolver *resolve.Resolver
	Sender   Sender

	// Overlay configures highlight appearance. Overlay.Label defaults to
	// the resolver's nearest-component lookup.
	Overlay overlay.Config
}

// Session is the inspect-mode state machine. It is created once and
// toggled between idle and active by controller messages.
type Session struct {
	mu sync.Mutex

	doc        dom.Document
	resolver   *resolve.Resolver
	sender     Sender
	overlayCfg overlay.Config

	active      bool
	hl          *overlay.Highlight
	last        dom.Element
	removeHover func()
	removeClick func()
}

// New creates an idle session.
func New(cfg Config) *Session {
	s := &Session{
		doc:        cfg.Doc,
		resolver:   cfg.Resolver,
		sender:     cfg.Sender,
		overlayCfg: cfg.Overlay,
	}
	if s.overlayCfg.Label == nil && cfg.Resolver != nil {
		s.overlayCfg.Label = cfg.Resolver.NearestComponentName
	}
	return s
}

// HandleToggle applies a toggle-inspect request. Requesting the current
// state is a no-op.
func (s *Session) HandleToggle(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if active {
		s.activateLocked()
	} else {
		s.deactivateLocked()
	}
}

// Active reports whether inspect mode is on.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Session) activateLocked() {
	if s.active {
		return
	}

	s.hl = overlay.New(s.doc, s.overlayCfg)
	s.doc.SetCursor("crosshair")
	// Capturing phase: the inspector must observe pointer events before
	// the host page's own handlers can consume them.
	s.removeHover = s.doc.AddListener(dom.PointerMove, true, s.onHover)
	s.removeClick = s.doc.AddListener(dom.Click, true, s.onClick)
	s.active = true
	debug.Log("inspect", "inspect mode activated")
}

func (s *Session) deactivateLocked() {
	if !s.active {
		return
	}

	if s.removeHover != nil {
		s.removeHover()
		s.removeHover = nil
	}
	if s.removeClick != nil {
		s.removeClick()
		s.removeClick = nil
	}
	s.doc.ClearCursor()
	if s.hl != nil {
		s.hl.Hide()
		s.hl.Destroy()
		s.hl = nil
	}
	s.last = nil
	s.active = false
	debug.Log("inspect", "inspect mode deactivated")
}

func (s *Session) onHover(ev dom.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}

	target := ev.Target()
	if target == nil || s.doc.OwnsNode(target) {
		return
	}
	// Re-entry onto the tracked element: skip the redundant layout work.
	if s.last != nil && s.last.SameAs(target) {
		return
	}
	s.last = target
	s.hl.Position(target)
}

func (s *Session) onClick(ev dom.Event) {
	// The host page must never react to a selection click.
	ev.PreventDefault()
	ev.StopPropagation()

	target := ev.Target()
	if target == nil {
		return
	}

	s.mu.Lock()
	if !s.active || s.doc.OwnsNode(target) {
		s.mu.Unlock()
		return
	}
	// Deactivate before resolving so the user gets instant feedback that
	// inspection ended; the report follows asynchronously.
	s.deactivateLocked()
	resolver := s.resolver
	sender := s.sender
	s.mu.Unlock()

	go func() {
		report := resolver.Resolve(context.Background(), target)
		if sender != nil {
			sender.Send(gateway.TypeComponentDetected, gateway.DetectedPayload{Markdown: report})
		}
	}()
}
