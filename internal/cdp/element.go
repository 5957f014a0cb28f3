package cdp

import (
	"github.com/standardbeagle/pinpoint/internal/debug"
	"github.com/standardbeagle/pinpoint/internal/dom"
)

// element is a live-page element handle addressed by its page-side ref.
// Every accessor reads fresh state; the hovered element's box changes as
// the page reflows, so nothing is cached.
type element struct {
	p   *Page
	ref string
}

type elementInfo struct {
	Tag   string `json:"tag"`
	Attrs []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"attrs"`
	Text string `json:"text"`
	Rect struct {
		Top    float64 `json:"top"`
		Left   float64 `json:"left"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	} `json:"rect"`
	Parent string `json:"parent"`
}

func (e *element) info() *elementInfo {
	var info *elementInfo
	if err := e.p.eval(elementInfoScript, &info, e.ref); err != nil {
		debug.Trace("cdp", "element info failed for %s: %v", e.ref, err)
		return nil
	}
	return info
}

func (e *element) TagName() string {
	if info := e.info(); info != nil {
		return info.Tag
	}
	return ""
}

func (e *element) Attrs() []dom.Attr {
	info := e.info()
	if info == nil {
		return nil
	}
	attrs := make([]dom.Attr, 0, len(info.Attrs))
	for _, a := range info.Attrs {
		attrs = append(attrs, dom.Attr{Name: a.Name, Value: a.Value})
	}
	return attrs
}

func (e *element) VisibleText() string {
	if info := e.info(); info != nil {
		return info.Text
	}
	return ""
}

func (e *element) BoundingBox() dom.Rect {
	info := e.info()
	if info == nil {
		return dom.Rect{}
	}
	return dom.Rect{
		Top:    info.Rect.Top,
		Left:   info.Rect.Left,
		Width:  info.Rect.Width,
		Height: info.Rect.Height,
	}
}

func (e *element) Parent() dom.Element {
	info := e.info()
	if info == nil || info.Parent == "" {
		return nil
	}
	return &element{p: e.p, ref: info.Parent}
}

// SameAs compares page-side refs: the registry hands out one ref per
// element identity, so equal refs mean the same element.
func (e *element) SameAs(other dom.Element) bool {
	o, ok := other.(*element)
	return ok && o.ref == e.ref
}
