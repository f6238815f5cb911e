// Package cmd implements the command-line interface for calgate.
//
// This package provides the following commands:
//   - serve: Start the calendar gateway HTTP server
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
