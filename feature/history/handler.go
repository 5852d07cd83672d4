package history

import (
	"opsboard/core/logger"
	"opsboard/core/server"
	"opsboard/feature/history/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for history snapshots.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the history routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/history")
	group.Get("/", h.HandleGetHistory)
	group.Post("/", h.HandleSaveHistory)
	group.Post("/archive", h.HandleArchiveDay)
	group.Get("/exports", h.HandleListExports)
	group.Get("/exports/:date", h.HandleGetExport)
}

// HandleGetHistory lists history snapshots.
// @Summary List History
// @Description List snapshots with the status columns visible to the user.
// @Tags history
// @Produce json
// @Param email query string false "User e-mail"
// @Success 200 {object} server.ReadResponse[models.Snapshot]
// @Router /history [get]
func (h *Handler) HandleGetHistory(c *fiber.Ctx) error {
	result := h.service.GetHistory(c.Context(), c.Query("email"))
	if result.Degraded() {
		logger.WithRayID(h.service.logger, c).Warn("History degraded", zap.String("reason", result.Reason()))
	}
	return server.Read(c, result)
}

// HandleSaveHistory writes one snapshot.
// @Summary Save History
// @Tags history
// @Accept json
// @Produce json
// @Param snapshot body models.Snapshot true "Snapshot"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /history [post]
func (h *Handler) HandleSaveHistory(c *fiber.Ctx) error {
	var snap models.Snapshot
	if err := c.BodyParser(&snap); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	id, err := h.service.SaveHistory(c.Context(), snap)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Save history failed", zap.Error(err))
		return server.Fail(c, err)
	}
	return c.JSON(fiber.Map{"id": id})
}

// HandleArchiveDay archives the checklist matrix of one day.
// @Summary Archive Day
// @Description Save one snapshot per active task and export the day when object storage is enabled.
// @Tags history
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD), defaults to today"
// @Param user query string false "User recorded on the snapshots"
// @Success 200 {object} history.ArchiveReport
// @Failure 400 {object} map[string]string
// @Router /history/archive [post]
func (h *Handler) HandleArchiveDay(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		date = h.service.Today()
	}
	report, err := h.service.ArchiveDay(c.Context(), date, c.Query("user"))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Archive day failed", zap.String("date", date), zap.Error(err))
		return server.Fail(c, err)
	}
	return c.JSON(report)
}

// HandleListExports lists the days exported to object storage.
// @Summary List Exports
// @Tags history
// @Produce json
// @Success 200 {array} string
// @Failure 404 {object} map[string]string
// @Router /history/exports [get]
func (h *Handler) HandleListExports(c *fiber.Ctx) error {
	exp := h.service.Exports()
	if exp == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "object storage is disabled"})
	}
	days, err := exp.Days(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("List exports failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	if days == nil {
		days = []string{}
	}
	return c.JSON(days)
}

// HandleGetExport returns one exported day.
// @Summary Get Export
// @Tags history
// @Produce json
// @Param date path string true "Day (YYYY-MM-DD)"
// @Success 200 {array} models.Snapshot
// @Router /history/exports/{date} [get]
func (h *Handler) HandleGetExport(c *fiber.Ctx) error {
	exp := h.service.Exports()
	if exp == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "object storage is disabled"})
	}
	snaps, err := exp.Load(c.Context(), c.Params("date"))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Load export failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(snaps)
}
