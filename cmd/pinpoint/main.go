// Command pinpoint attaches to a live preview page and attributes rendered
// elements back to the source components that produced them.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/standardbeagle/pinpoint/internal/debug"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "pinpoint",
	Short: "Source-component attribution for live previews",
	Long: `Pinpoint attaches to a live preview page and lets a controller point
at any rendered element and get back which source-level UI component
produced it, down to file:line when framework instrumentation is
available in the page.

Examples:
  pinpoint serve
  pinpoint serve --page http://localhost:5173
  pinpoint inspect "#save-button"
  pinpoint init`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Best-effort; a missing .env is not an error.
		_ = godotenv.Load()
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			debug.Enable()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pinpoint version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pinpoint v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
