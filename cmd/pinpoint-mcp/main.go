// Command pinpoint-mcp serves the inspector's tools over the Model
// Context Protocol, so coding agents can resolve rendered elements to
// source components without the interactive overlay.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/pinpoint/internal/config"
	"github.com/standardbeagle/pinpoint/internal/debug"
	"github.com/standardbeagle/pinpoint/internal/tools"
)

const (
	serverName    = "pinpoint-mcp"
	serverVersion = "0.1.0"
)

func main() {
	var (
		pageURL     string
		browserURL  string
		verbose     bool
		showVersion bool
	)
	flag.StringVar(&pageURL, "page", "", "Preview page URL (overrides config)")
	flag.StringVar(&browserURL, "browser", "", "DevTools websocket URL of a running browser")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&showVersion, "version", false, "Show version")
	flag.Parse()

	if showVersion {
		fmt.Printf("%s v%s\n", serverName, serverVersion)
		return
	}

	_ = godotenv.Load()
	if verbose {
		debug.Enable()
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if pageURL != "" {
		cfg.Page.URL = pageURL
	}
	if browserURL != "" {
		cfg.Browser.ControlURL = browserURL
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancel()

	it := tools.NewInspectorTools(cfg)
	defer it.Close()

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: serverVersion,
		},
		&mcp.ServerOptions{
			Instructions: `Source-component attribution for live preview pages.

Attaches to the preview page over the Chrome DevTools Protocol and maps
rendered elements back to the source components that produced them.

Available tools:
- inspect: Resolve a CSS selector to its source component (file:line
  when framework instrumentation is available)
- probe: Check whether the page carries usable instrumentation`,
		},
	)

	tools.RegisterInspectorTools(server, it)

	// stdout carries the protocol; logs go to stderr.
	log.SetOutput(os.Stderr)
	log.Printf("Starting %s v%s", serverName, serverVersion)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		if ctx.Err() == nil {
			log.Fatalf("Server error: %v", err)
		}
	}

	log.Println("Server shutdown complete")
}
