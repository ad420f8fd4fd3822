package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the reminders-mcp application
var rootCmd = newRootCmd()

// version will be set by main
var version = "dev"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders-mcp",
		Short: "Exposes macOS Reminders to AI assistants over MCP",
		Long: `reminders-mcp drives the macOS Reminders app through AppleScript and
exposes it as a set of Model Context Protocol tools.

It can run as:
  - An MCP server over stdio or streamable HTTP (default: serve over stdio)
  - A small CLI for inspecting lists and reminders`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to a YAML or TOML config file")
	cmd.PersistentFlags().String("osascript", "osascript", "Executable used to run AppleScript. Can also use REMINDERS_OSASCRIPT env var.")
	cmd.PersistentFlags().String("timeout", "30s", "Timeout for a single AppleScript run (0 disables it). Can also use REMINDERS_TIMEOUT env var.")
	cmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error. Can also use REMINDERS_LOG_LEVEL env var.")
	cmd.PersistentFlags().String("log-format", "text", "Log format: text or json. Can also use REMINDERS_LOG_FORMAT env var.")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newListsCmd())
	cmd.AddCommand(newRemindersCmd())
	cmd.AddCommand(newGenerateDocsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "reminders-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the MCP server by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
