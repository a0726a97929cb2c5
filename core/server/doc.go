// Package server binds and runs the local HTTP server.
//
// # Configuration
//
// The Config struct holds the bind host, the port (restricted to 1024-65535),
// the directory files are served from and whether a browser should be opened.
// It is built once by core/config and passed by value afterwards.
//
// # Lifecycle
//
// A Server moves through NotStarted, Running and Stopped (clean or error).
// Listen validates the config and binds the socket, reporting ErrInvalidPortRange,
// ErrPortInUse or ErrStartup. Serve blocks until its context is cancelled and then
// shuts the Fiber app down gracefully.
//
// # Usage
//
//	srv := server.New(cfg.Server, logg)
//	if err := srv.Listen(); err != nil {
//	    return err
//	}
//	return srv.Serve(ctx)
package server
