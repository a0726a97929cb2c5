package static

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements loader.Feature for static file serving.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the static feature serving files from root.
func NewFeature(root string, logger *zap.Logger) *Feature {
	svc := NewService(root, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "static"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
