package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the calgate application
var rootCmd = &cobra.Command{
	Use:   "calgate",
	Short: "Multi-user Google Calendar gateway",
	Long: `calgate performs calendar operations (create, list, update, delete
events) on behalf of multiple end users who authorize it once through
Google's OAuth consent flow.

Each user's delegated credential is stored durably and reused on every
subsequent request, so users never re-authenticate.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "calgate version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
