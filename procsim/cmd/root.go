// Package cmd provides the command-line interface for procsim.
package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "procsim",
	Short: "procsim simulates processes moving between scheduling states.",
	Long: `procsim simulates processes moving between the Hold, Ready, Run, ` +
		`Blocked, Suspend, and Done states. Each event is drawn uniformly ` +
		`from a transition catalog and moves the front process of its ` +
		`source state when the target state has room.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
