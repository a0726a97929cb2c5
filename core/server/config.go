package server

import (
	"fmt"
	"net"
	"strconv"
)

const (
	// MinPort is the lowest port the server may bind to.
	MinPort = 1024
	// MaxPort is the highest port the server may bind to.
	MaxPort = 65535
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Host is the address the server binds to.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the port where the server will listen.
	Port int `mapstructure:"port" default:"8080"`
	// Root is the directory static files are served from.
	Root string `mapstructure:"root" default:"."`
	// OpenBrowser launches the default browser once the server is listening.
	OpenBrowser bool `mapstructure:"open_browser" default:"true"`
}

// Validate checks the port range. It never touches the network.
func (c Config) Validate() error {
	if c.Port < MinPort || c.Port > MaxPort {
		return fmt.Errorf("%w: got %d", ErrInvalidPortRange, c.Port)
	}
	return nil
}

// Addr returns the host:port pair used to bind the listener.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// URL returns the address users open in their browser.
func (c Config) URL() string {
	return "http://" + c.Addr()
}
