// Package overlay renders the in-page highlight that tracks the hovered
// element while inspect mode is active.
package overlay

import (
	"fmt"

	"github.com/standardbeagle/pinpoint/internal/dom"
)

// Config configures the highlight appearance.
type Config struct {
	// BorderColor is the highlight rectangle border color.
	// Default: "#0a84ff"
	BorderColor string

	// FillColor is the highlight rectangle fill.
	// Default: "rgba(10, 132, 255, 0.15)"
	FillColor string

	// LabelBackground and LabelColor style the component-name label.
	// Defaults: "#0a84ff", "#ffffff"
	LabelBackground string
	LabelColor      string

	// Label produces the label text for an element. When nil or when it
	// returns "", the element's tag name is shown instead.
	Label func(el dom.Element) string
}

// DefaultConfig returns the default highlight configuration.
func DefaultConfig() Config {
	return Config{
		BorderColor:     "#0a84ff",
		FillColor:       "rgba(10, 132, 255, 0.15)",
		LabelBackground: "#0a84ff",
		LabelColor:      "#ffffff",
	}
}

// Highlight owns one rectangle node and one label node appended to the
// host document, hidden until positioned. The rectangle sits above page
// content but is transparent to interaction.
type Highlight struct {
	doc   dom.Document
	box   dom.Node
	label dom.Node
	cfg   Config
}

// New creates the highlight nodes in doc, hidden.
func New(doc dom.Document, cfg Config) *Highlight {
	if cfg.BorderColor == "" {
		cfg.BorderColor = "#0a84ff"
	}
	if cfg.FillColor == "" {
		cfg.FillColor = "rgba(10, 132, 255, 0.15)"
	}
	if cfg.LabelBackground == "" {
		cfg.LabelBackground = "#0a84ff"
	}
	if cfg.LabelColor == "" {
		cfg.LabelColor = "#ffffff"
	}

	h := &Highlight{doc: doc, cfg: cfg}

	h.box = doc.AppendNode("div")
	h.box.SetStyle("position", "fixed")
	h.box.SetStyle("display", "none")
	h.box.SetStyle("pointer-events", "none")
	h.box.SetStyle("z-index", "2147483647")
	h.box.SetStyle("border", "2px solid "+cfg.BorderColor)
	h.box.SetStyle("background", cfg.FillColor)
	h.box.SetStyle("box-sizing", "border-box")

	h.label = doc.AppendNode("div")
	h.label.SetStyle("position", "fixed")
	h.label.SetStyle("display", "none")
	h.label.SetStyle("pointer-events", "none")
	h.label.SetStyle("z-index", "2147483647")
	h.label.SetStyle("background", cfg.LabelBackground)
	h.label.SetStyle("color", cfg.LabelColor)
	h.label.SetStyle("font", "11px/1.4 monospace")
	h.label.SetStyle("padding", "1px 4px")
	h.label.SetStyle("border-radius", "2px")

	return h
}

// Position moves the highlight over el and shows it. The label shows the
// nearest component name when one is known, otherwise the tag name.
func (h *Highlight) Position(el dom.Element) {
	if h.box == nil {
		return
	}

	r := el.BoundingBox()
	h.box.SetStyle("top", px(r.Top))
	h.box.SetStyle("left", px(r.Left))
	h.box.SetStyle("width", px(r.Width))
	h.box.SetStyle("height", px(r.Height))
	h.box.SetStyle("display", "block")

	text := ""
	if h.cfg.Label != nil {
		text = h.cfg.Label(el)
	}
	if text == "" {
		text = el.TagName()
	}
	h.label.SetText(text)
	h.label.SetStyle("top", px(r.Top-20))
	h.label.SetStyle("left", px(r.Left))
	h.label.SetStyle("display", "block")
}

// Hide hides the highlight without destroying its nodes.
func (h *Highlight) Hide() {
	if h.box == nil {
		return
	}
	h.box.SetStyle("display", "none")
	h.label.SetStyle("display", "none")
}

// Destroy removes the highlight nodes. Safe to call more than once.
func (h *Highlight) Destroy() {
	if h.box == nil {
		return
	}
	h.box.Remove()
	h.label.Remove()
	h.box = nil
	h.label = nil
}

func px(v float64) string {
	return fmt.Sprintf("%gpx", v)
}
