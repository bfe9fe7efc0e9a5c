// Bluetui is a terminal user interface for pairing and connecting Bluetooth
// devices through BlueZ.
//
// Usage:
//
//	bluetui
//
// Devices show up in two lists, unpaired and paired, while a discovery scan
// runs in the background. Arrow keys move around, s rescans, enter pairs or
// connects the selected device, esc closes an error and q quits.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/bluetui/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bluetui",
	Short: "Bluetooth device manager for the terminal",
	Long: `A terminal user interface for discovering, pairing and connecting
Bluetooth devices through BlueZ.

Keys:
  ◀ ▶      switch between the Unpaired and Paired lists
  ▲ ▼      move the selection
  enter    pair (Unpaired) or connect (Paired) the selected device
  s        rescan
  esc      close an error (other keys are ignored while it is shown)
  q        quit
  ctrl+c   quit, also while an error is shown

Settings are read from config.yaml in the bluetui config directory
(~/.config/bluetui on Linux). Logs are appended to bluetui.log.`,
	Version:       version.Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBrowser,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bluetui %s\n", version.Full())
	},
}
