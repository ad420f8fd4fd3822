// Package cmd implements the command-line interface for reminders-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server (stdio or streamable HTTP)
//   - lists: Print the names of all Reminders lists
//   - reminders: Print reminders of one or all lists
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
