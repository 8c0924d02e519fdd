// Package main provides the entry point for the missioncontrol CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for missioncontrol.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "missioncontrol",
		Short: "Task intake orchestrator",
		Long: `missioncontrol normalizes free-form task requests into a structured intake document.

Each request is cleaned up (whitespace, line endings), urgency words such as
ASAP or URGENT are rewritten in a calmer register, and the assumptions the
request leaves open are listed explicitly.

Run "missioncontrol serve" to expose the HTTP endpoint, or
"missioncontrol orchestrate" to process requests from the command line.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .missioncontrol in current or home directory)")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewOrchestrateCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
