package config

import (
	"fmt"

	"image-labeler/core/server"

	"github.com/spf13/pflag"
)

// RegisterFlags defines the command-line flags LoadConfig understands.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.IntP("port", "p", 8080,
		fmt.Sprintf("Port to run the server on (%d-%d)", server.MinPort, server.MaxPort))
	flags.String("host", "localhost", "Host to bind the server to")
	flags.Bool("no-browser", false, "Don't open browser automatically")
	flags.StringP("dir", "d", ".", "Directory to serve the labeling app from")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "console", "Log format (console, json)")
}
