package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/standardbeagle/pinpoint/internal/cdp"
	"github.com/standardbeagle/pinpoint/internal/config"
	"github.com/standardbeagle/pinpoint/internal/resolve"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <selector>",
	Short: "Resolve one element to its source component and exit",
	Long: `Resolve the first element matching a CSS selector to its source
component and print the report, without entering interactive inspect
mode. Useful from scripts and editor integrations.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("page", "", "Preview page URL (overrides config)")
	inspectCmd.Flags().String("browser", "", "DevTools websocket URL of a running browser")
	inspectCmd.Flags().Duration("timeout", 30*time.Second, "Overall resolution timeout")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	selector := args[0]

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("page"); v != "" {
		cfg.Page.URL = v
	}
	if v, _ := cmd.Flags().GetString("browser"); v != "" {
		cfg.Browser.ControlURL = v
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
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

	el, err := client.Page().QuerySelector(selector)
	if err != nil {
		return err
	}
	if el == nil {
		return fmt.Errorf("no element matches %q", selector)
	}

	instr := cdp.NewInstrument(client.Page())
	instr.ProjectRoot = cfg.Page.ProjectRoot
	resolver := &resolve.Resolver{
		Instr:            instr,
		MaxStackLines:    cfg.Inspect.MaxStackLines,
		MaxAncestorNames: cfg.Inspect.MaxAncestorNames,
	}

	fmt.Println(resolver.Resolve(ctx, el))
	return nil
}
