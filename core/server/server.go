package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"image-labeler/core/logger"
	"image-labeler/core/middleware/rayid"
	"image-labeler/core/middleware/requestlog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// ShutdownTimeout bounds how long in-flight requests may take once shutdown starts.
const ShutdownTimeout = 5 * time.Second

// State is the lifecycle stage of a Server.
type State int32

const (
	// StateNotStarted is the state before Serve is called.
	StateNotStarted State = iota
	// StateRunning means the listener is accepting requests.
	StateRunning
	// StateStoppedClean follows a graceful shutdown.
	StateStoppedClean
	// StateStoppedError follows a bind, serve or shutdown failure.
	StateStoppedError
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateStoppedClean:
		return "stopped_clean"
	case StateStoppedError:
		return "stopped_error"
	default:
		return "unknown"
	}
}

// Server wraps a Fiber app bound to a single listener.
type Server struct {
	cfg      Config
	app      *fiber.App
	logger   *zap.Logger
	listener net.Listener
	state    atomic.Int32
}

// New creates a server with the shared middleware stack installed.
// Features are mounted on App() before Serve is called.
func New(cfg Config, logg *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "image-labeler",
		DisableStartupMessage: true, // the command prints its own banner
		ErrorHandler:          errorHandler(logg),
	})

	// RayID must be first so every later log line carries it.
	// Recover sits inside requestlog so panicking requests are logged too.
	app.Use(rayid.New())
	app.Use(requestlog.New(logg))
	app.Use(recover.New())

	return &Server{cfg: cfg, app: app, logger: logg}
}

// App returns the underlying Fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// State reports the current lifecycle stage.
func (s *Server) State() State {
	return State(s.state.Load())
}

// Listen validates the configuration and binds the listening socket.
func (s *Server) Listen() error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		s.state.Store(int32(StateStoppedError))
		return classifyListenError(s.cfg, err)
	}
	s.listener = ln
	return nil
}

// Serve handles requests until ctx is cancelled or the listener fails.
// Cancellation triggers a graceful shutdown and a nil return.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return fmt.Errorf("%w: listener is not bound", ErrStartup)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listener(s.listener)
	}()
	s.state.Store(int32(StateRunning))
	s.logger.Info("Server listening", zap.String("addr", s.listener.Addr().String()))

	select {
	case err := <-errCh:
		if err != nil {
			s.state.Store(int32(StateStoppedError))
			return fmt.Errorf("%w: %w", ErrStartup, err)
		}
		s.state.Store(int32(StateStoppedClean))
		return nil
	case <-ctx.Done():
		s.logger.Info("Shutting down server...")
		err := s.app.ShutdownWithTimeout(ShutdownTimeout)
		// Shutdown is a no-op if the accept loop has not registered yet
		_ = s.listener.Close()
		<-errCh
		if err != nil {
			s.state.Store(int32(StateStoppedError))
			return fmt.Errorf("shutdown: %w", err)
		}
		s.state.Store(int32(StateStoppedClean))
		return nil
	}
}

// errorHandler writes errors as plain text, the same way fiber's default
// handler does, and logs anything that is not a client error.
func errorHandler(logg *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}

		if code >= fiber.StatusInternalServerError {
			logger.WithRayID(logg, c).Error("Request failed", zap.Error(err))
		}

		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		if code >= fiber.StatusInternalServerError {
			return c.Status(code).SendString(fiber.ErrInternalServerError.Message)
		}
		return c.Status(code).SendString(err.Error())
	}
}
