package server_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"image-labeler/core/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// freePort returns a port that was free a moment ago.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestListen_InvalidPort(t *testing.T) {
	srv := server.New(server.Config{Host: "127.0.0.1", Port: 80}, zap.NewNop())

	err := srv.Listen()
	assert.ErrorIs(t, err, server.ErrInvalidPortRange)
	assert.Equal(t, server.StateNotStarted, srv.State())
}

func TestListen_PortInUse(t *testing.T) {
	port := freePort(t)
	cfg := server.Config{Host: "127.0.0.1", Port: port}

	first := server.New(cfg, zap.NewNop())
	require.NoError(t, first.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- first.Serve(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	second := server.New(cfg, zap.NewNop())
	err := second.Listen()
	require.Error(t, err)
	assert.ErrorIs(t, err, server.ErrPortInUse)
	assert.NotErrorIs(t, err, server.ErrStartup)
	assert.Contains(t, err.Error(), "try a different port")
	assert.Equal(t, server.StateStoppedError, second.State())
}

func TestListen_OtherFailure(t *testing.T) {
	srv := server.New(server.Config{Host: "192.0.2.1", Port: 8080}, zap.NewNop())

	err := srv.Listen()
	assert.ErrorIs(t, err, server.ErrStartup)
	assert.NotErrorIs(t, err, server.ErrPortInUse)
}

func TestServe_WithoutListen(t *testing.T) {
	srv := server.New(server.Config{Host: "127.0.0.1", Port: 8080}, zap.NewNop())

	err := srv.Serve(context.Background())
	assert.ErrorIs(t, err, server.ErrStartup)
}

func TestServe_ShutdownOnCancel(t *testing.T) {
	cfg := server.Config{Host: "127.0.0.1", Port: freePort(t)}
	srv := server.New(cfg, zap.NewNop())
	srv.App().Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	require.NoError(t, srv.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		r, err := http.Get(cfg.URL() + "/ping")
		if err != nil {
			return false
		}
		resp = r
		return true
	}, 2*time.Second, 20*time.Millisecond)

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Ray-ID"))
	assert.Equal(t, server.StateRunning, srv.State())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(server.ShutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Equal(t, server.StateStoppedClean, srv.State())
}

func TestErrorHandler_PanicBecomes500(t *testing.T) {
	srv := server.New(server.Config{Host: "127.0.0.1", Port: 8080}, zap.NewNop())
	srv.App().Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})
	srv.App().Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := srv.App().Test(newRequest("/boom"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	// the app keeps serving after a panic
	resp, err = srv.App().Test(newRequest("/ok"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPanicIsRequestLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	srv := server.New(server.Config{Host: "127.0.0.1", Port: 8080}, zap.New(core))
	srv.App().Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := srv.App().Test(newRequest("/boom"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	handled := logs.FilterMessage("Request handled").All()
	require.Len(t, handled, 1)
	assert.Equal(t, zapcore.ErrorLevel, handled[0].Level)
	assert.EqualValues(t, fiber.StatusInternalServerError, handled[0].ContextMap()["status"])
	assert.Equal(t, "/boom", handled[0].ContextMap()["path"])
}

func TestErrorHandler_ClientErrorIsPlainText(t *testing.T) {
	srv := server.New(server.Config{Host: "127.0.0.1", Port: 8080}, zap.NewNop())
	srv.App().Get("/missing", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Error: missing not found")
	})

	resp, err := srv.App().Test(newRequest("/missing"))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Error: missing not found", string(body))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/plain")
}

func newRequest(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}
