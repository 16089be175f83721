package bundles

import (
	"rom-manager/core/index"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the bundles feature for the directory in cfg.Dir.
func NewFeature(cfg index.Config, databases DatabaseSource, logger *zap.Logger) *Feature {
	svc := NewService(cfg, databases, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "bundles"
}

// IsEnabled reports whether a ROM directory is configured.
func (f *Feature) IsEnabled() bool {
	return f.service.cfg.Dir != ""
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
