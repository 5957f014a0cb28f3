// Package cdp drives a real browser page over the Chrome DevTools
// Protocol, implementing the inspector's document and instrumentation
// interfaces against the live preview.
package cdp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/standardbeagle/pinpoint/internal/debug"
	"github.com/standardbeagle/pinpoint/internal/dom"
)

// Options configures the browser attachment.
type Options struct {
	// ControlURL is the DevTools websocket URL of a running browser.
	// Empty launches a new browser via rod's launcher.
	ControlURL string

	// PageURL is the preview page to attach to. An existing tab with this
	// URL prefix is reused; otherwise a new page is opened.
	PageURL string

	// Headless applies only when launching a browser. Inspection is an
	// interactive activity, so the default is headed.
	Headless bool

	// PollInterval is the event pump interval. Default: 50ms.
	PollInterval time.Duration
}

// Client owns the browser connection and the attached page.
type Client struct {
	browser *rod.Browser
	page    *Page
}

// Connect attaches to (or launches) a browser and binds the preview page.
func Connect(ctx context.Context, opts Options) (*Client, error) {
	if opts.PageURL == "" {
		return nil, errors.New("page URL is required")
	}

	controlURL := opts.ControlURL
	if controlURL == "" {
		url, err := launcher.New().Headless(opts.Headless).Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to browser: %w", err)
	}
	debug.Log("cdp", "browser connected at %s", controlURL)

	page, err := findOrOpenPage(browser, opts.PageURL)
	if err != nil {
		browser.Close()
		return nil, err
	}

	p := newPage(page, opts.PollInterval)
	if err := p.install(); err != nil {
		browser.Close()
		return nil, fmt.Errorf("install page script: %w", err)
	}

	return &Client{browser: browser, page: p}, nil
}

// Page returns the attached page.
func (c *Client) Page() *Page { return c.page }

// Close stops the event pump and disconnects from the browser.
func (c *Client) Close() error {
	c.page.stopPump()
	return c.browser.Close()
}

func findOrOpenPage(browser *rod.Browser, pageURL string) (*rod.Page, error) {
	pages, err := browser.Pages()
	if err == nil {
		for _, p := range pages {
			info, err := p.Info()
			if err != nil {
				continue
			}
			if strings.HasPrefix(info.URL, pageURL) {
				debug.Log("cdp", "attached to existing page %s", info.URL)
				return p, nil
			}
		}
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		return nil, fmt.Errorf("open page %s: %w", pageURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		debug.Warn("cdp", "page load wait failed: %v", err)
	}
	return page, nil
}

// Page implements dom.Document over a live browser page.
type Page struct {
	page *rod.Page
	poll time.Duration

	mu        sync.Mutex
	listeners map[dom.EventKind][]*pageListener
	nextID    int
	cursorSet bool

	pumpStop chan struct{}
	pumpWG   sync.WaitGroup
}

type pageListener struct {
	id      int
	capture bool
	h       func(dom.Event)
}

func newPage(page *rod.Page, poll time.Duration) *Page {
	if poll <= 0 {
		poll = 50 * time.Millisecond
	}
	return &Page{
		page:      page,
		poll:      poll,
		listeners: make(map[dom.EventKind][]*pageListener),
	}
}

func (p *Page) install() error {
	var ok bool
	return p.eval(installScript, &ok)
}

// eval runs a JS function in the page and unmarshals the by-value result
// into out (which may be nil).
func (p *Page) eval(js string, out any, args ...interface{}) error {
	res, err := p.page.Evaluate(&rod.EvalOptions{
		JS:           js,
		JSArgs:       args,
		ByValue:      true,
		AwaitPromise: true,
	})
	if err != nil {
		return err
	}
	if out == nil || res == nil {
		return nil
	}
	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func eventKindName(kind dom.EventKind) string {
	switch kind {
	case dom.PointerMove:
		return "pointermove"
	case dom.Click:
		return "click"
	default:
		return ""
	}
}

// QuerySelector resolves a CSS selector to an element handle, or nil when
// nothing matches.
func (p *Page) QuerySelector(selector string) (dom.Element, error) {
	var ref string
	if err := p.eval(querySelectorScript, &ref, selector); err != nil {
		return nil, fmt.Errorf("query selector %q: %w", selector, err)
	}
	if ref == "" {
		return nil, nil
	}
	return &element{p: p, ref: ref}, nil
}

func (p *Page) AppendNode(tag string) dom.Node {
	var ref string
	if err := p.eval(appendNodeScript, &ref, tag); err != nil {
		debug.Error("cdp", "failed to create overlay node: %v", err)
		return &node{}
	}
	return &node{p: p, ref: ref}
}

func (p *Page) OwnsNode(el dom.Element) bool {
	e, ok := el.(*element)
	if !ok {
		return false
	}
	var owned bool
	if err := p.eval(ownsNodeScript, &owned, e.ref); err != nil {
		debug.Log("cdp", "owns-node check failed: %v", err)
		return false
	}
	return owned
}

func (p *Page) SetCursor(cursor string) {
	var ok bool
	if err := p.eval(setCursorScript, &ok, cursor); err != nil {
		debug.Log("cdp", "set cursor failed: %v", err)
		return
	}
	p.mu.Lock()
	p.cursorSet = true
	p.mu.Unlock()
}

func (p *Page) ClearCursor() {
	p.mu.Lock()
	set := p.cursorSet
	p.cursorSet = false
	p.mu.Unlock()
	if !set {
		return
	}
	var ok bool
	if err := p.eval(setCursorScript, &ok, ""); err != nil {
		debug.Log("cdp", "clear cursor failed: %v", err)
	}
}

// AddListener registers h and enables page-side capture of the event
// kind. Selection-click suppression happens in the page's capture phase,
// so the dom.Event control methods are satisfied there rather than by a
// round trip.
func (p *Page) AddListener(kind dom.EventKind, capture bool, h func(dom.Event)) func() {
	p.mu.Lock()
	p.nextID++
	l := &pageListener{id: p.nextID, capture: capture, h: h}
	first := len(p.listeners[kind]) == 0
	p.listeners[kind] = append(p.listeners[kind], l)
	p.ensurePumpLocked()
	p.mu.Unlock()

	if first {
		p.setCapture(kind, true)
	}

	id := l.id
	return func() {
		p.mu.Lock()
		ls := p.listeners[kind]
		for i, other := range ls {
			if other.id == id {
				p.listeners[kind] = append(ls[:i], ls[i+1:]...)
				break
			}
		}
		empty := len(p.listeners[kind]) == 0
		p.mu.Unlock()
		if empty {
			p.setCapture(kind, false)
		}
	}
}

func (p *Page) setCapture(kind dom.EventKind, enabled bool) {
	var ok bool
	if err := p.eval(setCaptureScript, &ok, eventKindName(kind), enabled); err != nil {
		debug.Log("cdp", "set capture %s=%v failed: %v", eventKindName(kind), enabled, err)
	}
}

func (p *Page) ensurePumpLocked() {
	if p.pumpStop != nil {
		return
	}
	p.pumpStop = make(chan struct{})
	p.pumpWG.Add(1)
	go p.pump(p.pumpStop)
}

func (p *Page) stopPump() {
	p.mu.Lock()
	stop := p.pumpStop
	p.pumpStop = nil
	p.mu.Unlock()
	if stop != nil {
		close(stop)
		p.pumpWG.Wait()
	}
}

type pumpedEvent struct {
	Kind string `json:"kind"`
	Ref  string `json:"ref"`
}

// pump polls the page's event buffer and fans events out to listeners.
func (p *Page) pump(stop chan struct{}) {
	defer p.pumpWG.Done()

	ticker := time.NewTicker(p.poll)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			var events []pumpedEvent
			if err := p.eval(drainScript, &events); err != nil {
				debug.Trace("cdp", "event drain failed: %v", err)
				continue
			}
			for _, ev := range events {
				p.dispatch(ev)
			}
		}
	}
}

func (p *Page) dispatch(ev pumpedEvent) {
	var kind dom.EventKind
	switch ev.Kind {
	case "pointermove":
		kind = dom.PointerMove
	case "click":
		kind = dom.Click
	default:
		return
	}

	p.mu.Lock()
	ls := make([]*pageListener, len(p.listeners[kind]))
	copy(ls, p.listeners[kind])
	p.mu.Unlock()

	event := &pageEvent{target: &element{p: p, ref: ev.Ref}}
	for _, l := range ls {
		l.h(event)
	}
}

// pageEvent is a pumped pointer event. Default-action and propagation
// suppression already happened in the page's capture listener, so the
// control methods are no-ops here.
type pageEvent struct {
	target dom.Element
}

func (e *pageEvent) Target() dom.Element { return e.target }
func (e *pageEvent) PreventDefault()     {}
func (e *pageEvent) StopPropagation()    {}

// node is an inspector-owned element in the page.
type node struct {
	p   *Page
	ref string
}

func (n *node) SetStyle(prop, value string) {
	if n.p == nil {
		return
	}
	var ok bool
	if err := n.p.eval(setStyleScript, &ok, n.ref, prop, value); err != nil {
		debug.Trace("cdp", "set style failed: %v", err)
	}
}

func (n *node) SetText(text string) {
	if n.p == nil {
		return
	}
	var ok bool
	if err := n.p.eval(setTextScript, &ok, n.ref, text); err != nil {
		debug.Trace("cdp", "set text failed: %v", err)
	}
}

func (n *node) Remove() {
	if n.p == nil {
		return
	}
	var ok bool
	if err := n.p.eval(removeNodeScript, &ok, n.ref); err != nil {
		debug.Trace("cdp", "remove node failed: %v", err)
	}
}
