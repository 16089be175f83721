package bundles

import (
	"errors"

	apperrors "rom-manager/core/errors"
	"rom-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for bundles.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the bundle routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/bundles")
	group.Get("/", h.HandleList)
	group.Post("/reconcile", h.HandleReconcile)
	group.Get("/:name", h.HandleGet)
}

// HandleList scans the directory and lists its bundles.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	listing, err := h.service.List(c.Context(), l)
	if err != nil {
		l.Error("Bundle scan failed", zap.Error(err))
		return h.fail(c, err)
	}
	return c.JSON(listing)
}

// HandleGet returns one bundle.
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	name := c.Params("name")

	v, err := h.service.Get(c.Context(), name, l)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			l.Error("Bundle lookup failed", zap.String("bundle", name), zap.Error(err))
		}
		return h.fail(c, err)
	}
	return c.JSON(v)
}

// HandleReconcile reconciles the directory. dry_run=true reports without writing.
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	dryRun := c.QueryBool("dry_run", false)

	l.Info("Triggering reconciliation", zap.Bool("dry_run", dryRun))
	report, err := h.service.Reconcile(c.Context(), dryRun, l)
	if err != nil {
		l.Error("Reconciliation failed", zap.Error(err))
		return h.fail(c, err)
	}
	return c.JSON(report)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case apperrors.IsNotFound(err):
		status = fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrNetwork):
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
