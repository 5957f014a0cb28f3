// Package tools exposes the inspector to MCP clients: selector-driven
// element resolution and instrumentation probing over a shared browser
// attachment.
package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/pinpoint/internal/cdp"
	"github.com/standardbeagle/pinpoint/internal/config"
	"github.com/standardbeagle/pinpoint/internal/debug"
	"github.com/standardbeagle/pinpoint/internal/resolve"
)

// InspectorTools holds the lazily-created browser attachment shared by
// all tool invocations. The attachment survives between calls so
// repeated inspections don't pay the connect cost each time.
type InspectorTools struct {
	cfg *config.Config

	mu       sync.Mutex
	client   *cdp.Client
	resolver *resolve.Resolver
}

// NewInspectorTools creates the tool backend. No browser connection is
// made until the first tool call needs one.
func NewInspectorTools(cfg *config.Config) *InspectorTools {
	return &InspectorTools{cfg: cfg}
}

// Close tears down the browser attachment if one was made.
func (t *InspectorTools) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client != nil {
		t.client.Close()
		t.client = nil
		t.resolver = nil
	}
}

// attach returns the shared attachment, connecting on first use. The
// optional page URL overrides the configured one for this attachment.
func (t *InspectorTools) attach(ctx context.Context, pageURL string) (*cdp.Client, *resolve.Resolver, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.client != nil {
		return t.client, t.resolver, nil
	}

	url := t.cfg.Page.URL
	if pageURL != "" {
		url = pageURL
	}
	client, err := cdp.Connect(ctx, cdp.Options{
		ControlURL: t.cfg.Browser.ControlURL,
		PageURL:    url,
		Headless:   t.cfg.Browser.Headless,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to attach to preview: %w", err)
	}

	instr := cdp.NewInstrument(client.Page())
	instr.ProjectRoot = t.cfg.Page.ProjectRoot
	t.client = client
	t.resolver = &resolve.Resolver{
		Instr:            instr,
		MaxStackLines:    t.cfg.Inspect.MaxStackLines,
		MaxAncestorNames: t.cfg.Inspect.MaxAncestorNames,
	}
	debug.Log("tools", "attached to %s", url)
	return t.client, t.resolver, nil
}

// InspectInput defines input for the inspect tool.
type InspectInput struct {
	Selector string `json:"selector" jsonschema:"CSS selector of the element to resolve"`
	Page     string `json:"page,omitempty" jsonschema:"Preview page URL (defaults to configured page)"`
}

// InspectOutput defines output for inspect.
type InspectOutput struct {
	Matched   bool   `json:"matched"`
	Report    string `json:"report,omitempty"`
	Component string `json:"component,omitempty"`
}

// ProbeInput defines input for the probe tool.
type ProbeInput struct {
	Page string `json:"page,omitempty" jsonschema:"Preview page URL (defaults to configured page)"`
}

// ProbeOutput defines output for probe.
type ProbeOutput struct {
	InstrumentationActive bool   `json:"instrumentation_active"`
	Detail                string `json:"detail"`
}

// RegisterInspectorTools adds the inspector tools to the server.
func RegisterInspectorTools(server *mcp.Server, t *InspectorTools) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "inspect",
		Description: `Resolve a rendered element to the source component that produced it.

Returns a report with the element preview and, when framework
instrumentation is available, source locations (file:line) or component
names. Degrades to the element preview alone on uninstrumented pages.
Example: inspect {selector: "#save-button"}`,
	}, t.handleInspect)

	mcp.AddTool(server, &mcp.Tool{
		Name: "probe",
		Description: `Check whether the preview page carries usable framework
instrumentation. When false, inspect still works but reports element
previews without source locations.
Example: probe {}`,
	}, t.handleProbe)
}

func (t *InspectorTools) handleInspect(ctx context.Context, req *mcp.CallToolRequest, input InspectInput) (*mcp.CallToolResult, InspectOutput, error) {
	if input.Selector == "" {
		return nil, InspectOutput{}, fmt.Errorf("selector is required")
	}

	client, resolver, err := t.attach(ctx, input.Page)
	if err != nil {
		return nil, InspectOutput{}, err
	}

	el, err := client.Page().QuerySelector(input.Selector)
	if err != nil {
		return nil, InspectOutput{}, err
	}
	if el == nil {
		return nil, InspectOutput{Matched: false}, nil
	}

	report := resolver.Resolve(ctx, el)
	return nil, InspectOutput{
		Matched:   true,
		Report:    report,
		Component: resolver.NearestComponentName(el),
	}, nil
}

func (t *InspectorTools) handleProbe(ctx context.Context, req *mcp.CallToolRequest, input ProbeInput) (*mcp.CallToolResult, ProbeOutput, error) {
	_, resolver, err := t.attach(ctx, input.Page)
	if err != nil {
		return nil, ProbeOutput{}, err
	}

	active := resolver.Instr != nil && resolver.Instr.Active()
	detail := "no framework instrumentation detected; reports degrade to element previews"
	if active {
		detail = "framework instrumentation detected; reports can include component names and source locations"
	}
	return nil, ProbeOutput{InstrumentationActive: active, Detail: detail}, nil
}
