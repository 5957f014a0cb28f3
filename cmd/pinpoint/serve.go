package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/standardbeagle/pinpoint/internal/cdp"
	"github.com/standardbeagle/pinpoint/internal/config"
	"github.com/standardbeagle/pinpoint/internal/debug"
	"github.com/standardbeagle/pinpoint/internal/gateway"
	"github.com/standardbeagle/pinpoint/internal/inspect"
	"github.com/standardbeagle/pinpoint/internal/overlay"
	"github.com/standardbeagle/pinpoint/internal/resolve"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Attach to the preview page and serve the controller channel",
	Long: `Attach to the preview page and serve the websocket channel the
controller toggles inspect mode through.

The controller connects to ws://<listen>` + gateway.WSPath + ` and exchanges
click-to-component protocol messages: toggle-inspect in, component-detected out.`,
	RunE: runServe,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default " + config.ConfigFileName + " in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(config.ConfigFileName); err == nil {
			return fmt.Errorf("%s already exists", config.ConfigFileName)
		}
		if err := config.WriteDefaultConfig(config.ConfigFileName); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", config.ConfigFileName)
		return nil
	},
}

func init() {
	serveCmd.Flags().String("page", "", "Preview page URL (overrides config)")
	serveCmd.Flags().String("listen", "", "Controller channel listen address (overrides config)")
	serveCmd.Flags().String("browser", "", "DevTools websocket URL of a running browser")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("page"); v != "" {
		cfg.Page.URL = v
	}
	if v, _ := cmd.Flags().GetString("listen"); v != "" {
		cfg.Gateway.Listen = v
	}
	if v, _ := cmd.Flags().GetString("browser"); v != "" {
		cfg.Browser.ControlURL = v
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client, err := cdp.Connect(ctx, cdp.Options{
		ControlURL: cfg.Browser.ControlURL,
		PageURL:    cfg.Page.URL,
		Headless:   cfg.Browser.Headless,
	})
	if err != nil {
		return fmt.Errorf("failed to attach to preview: %w", err)
	}
	defer client.Close()

	instr := cdp.NewInstrument(client.Page())
	instr.ProjectRoot = cfg.Page.ProjectRoot
	resolver := &resolve.Resolver{
		Instr:            instr,
		MaxStackLines:    cfg.Inspect.MaxStackLines,
		MaxAncestorNames: cfg.Inspect.MaxAncestorNames,
	}

	ws := gateway.NewWSServer()
	defer ws.Close()
	gw := gateway.New(ws)
	ws.OnMessage(gw.HandleRaw)

	session := inspect.New(inspect.Config{
		Doc:      client.Page(),
		Resolver: resolver,
		Sender:   gw,
		Overlay: overlay.Config{
			BorderColor:     cfg.Overlay.BorderColor,
			FillColor:       cfg.Overlay.FillColor,
			LabelBackground: cfg.Overlay.LabelBackground,
			LabelColor:      cfg.Overlay.LabelColor,
		},
	})
	gw.OnToggle(session.HandleToggle)

	mux := http.NewServeMux()
	mux.Handle(gateway.WSPath, ws)
	server := &http.Server{Addr: cfg.Gateway.Listen, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		debug.Info("serve", "controller channel on ws://%s%s", cfg.Gateway.Listen, gateway.WSPath)
		fmt.Printf("pinpoint attached to %s\n", cfg.Page.URL)
		fmt.Printf("controller channel: ws://%s%s\n", cfg.Gateway.Listen, gateway.WSPath)
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("controller channel failed: %w", err)
		}
	case sig := <-sigCh:
		debug.Info("serve", "received %v, shutting down", sig)
		session.HandleToggle(false)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)
	}
	return nil
}
