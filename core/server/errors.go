package server

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
)

var (
	// ErrInvalidPortRange is returned when the port is outside [MinPort, MaxPort].
	ErrInvalidPortRange = fmt.Errorf("port must be between %d and %d", MinPort, MaxPort)
	// ErrPortInUse is matched by PortInUseError.
	ErrPortInUse = errors.New("port already in use")
	// ErrStartup covers every other bind or start failure.
	ErrStartup = errors.New("error starting server")
)

// PortInUseError reports a bind failure caused by another process holding the port.
type PortInUseError struct {
	Port int
	Err  error
}

func (e *PortInUseError) Error() string {
	return fmt.Sprintf("port %d is already in use, try a different port: --port %d", e.Port, suggestPort(e.Port))
}

// Is makes errors.Is(err, ErrPortInUse) hold.
func (e *PortInUseError) Is(target error) bool {
	return target == ErrPortInUse
}

func (e *PortInUseError) Unwrap() error {
	return e.Err
}

// classifyListenError maps a net.Listen failure onto PortInUseError or ErrStartup.
func classifyListenError(cfg Config, err error) error {
	if isAddrInUse(err) {
		return &PortInUseError{Port: cfg.Port, Err: err}
	}
	return fmt.Errorf("%w: %w", ErrStartup, err)
}

func isAddrInUse(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE) ||
		errors.Is(err, errAddrInUsePlatform) ||
		strings.Contains(err.Error(), "address already in use")
}

func suggestPort(port int) int {
	if port >= MaxPort {
		return MinPort
	}
	return port + 1
}
