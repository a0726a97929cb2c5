package static

import (
	"errors"
	"net/http"

	"image-labeler/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves static files over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the root route and the catch-all file route.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/", h.HandleIndex)
	app.Get("/*", h.HandleFile)
}

// HandleIndex serves index.html for "/".
func (h *Handler) HandleIndex(c *fiber.Ctx) error {
	return h.serve(c, IndexFile)
}

// HandleFile serves any other path relative to the root directory.
func (h *Handler) HandleFile(c *fiber.Ctx) error {
	return h.serve(c, c.Params("*"))
}

func (h *Handler) serve(c *fiber.Ctx, requestPath string) error {
	l := logger.WithRayID(h.service.logger, c)

	file, err := h.service.Lookup(requestPath)
	if err != nil {
		return h.fail(l, requestPath, err)
	}

	c.Set(fiber.HeaderLastModified, file.ModTime.UTC().Format(http.TimeFormat))
	c.Set(fiber.HeaderCacheControl, "no-cache")
	if c.Fresh() {
		return c.SendStatus(fiber.StatusNotModified)
	}

	f, err := h.service.Open(file)
	if err != nil {
		return h.fail(l, requestPath, err)
	}

	l.Debug("Serving file", zap.String("file", file.Name), zap.Int64("size", file.Size))
	c.Set(fiber.HeaderContentType, file.ContentType)
	// fasthttp closes the stream once the body is written
	return c.SendStream(f, int(file.Size))
}

func (h *Handler) fail(l *zap.Logger, requestPath string, err error) error {
	if errors.Is(err, ErrNotFound) {
		name, resolveErr := Resolve(requestPath)
		if resolveErr != nil {
			return fiber.NewError(fiber.StatusNotFound, "Error: file not found")
		}
		return fiber.NewError(fiber.StatusNotFound, "Error: "+name+" not found")
	}
	l.Error("Failed to serve file", zap.String("path", requestPath), zap.Error(err))
	return fiber.ErrInternalServerError
}
