package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage information to the given writer.
func printUsage(w io.Writer) {
	fmt.Fprint(w, `echod - TCP echo/add message server

Usage:
  echod <command> [options]

Commands:
  serve       Start the server
  version     Show version information
  help        Show this message

Use "echod <command> -h" for more information about a command.
`)
}

// printServeUsage prints the serve command usage.
func printServeUsage(w io.Writer) {
	fmt.Fprint(w, `Start the echod server

Usage:
  echod serve [options]

Options:
  -config string
        Path to configuration file
  -address string
        Listen address (overrides config, default "127.0.0.1:8080")
  -max-clients int
        Advisory concurrent client limit (overrides config, default 100)
  -log-level string
        Log level: debug, info, warn, error (overrides config)
  -h, -help
        Show this help message
`)
}

// printVersionUsage prints the version command usage.
func printVersionUsage(w io.Writer) {
	fmt.Fprint(w, `Show version information

Usage:
  echod version [options]

Options:
  -short
        Show only the version number
  -h, -help
        Show this help message
`)
}
