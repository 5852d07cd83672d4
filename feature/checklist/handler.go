package checklist

import (
	"opsboard/core/logger"
	"opsboard/core/server"
	"opsboard/feature/checklist/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the checklist.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the checklist routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/checklist")
	group.Get("/tasks", h.HandleGetTasks)
	group.Get("/operations", h.HandleGetOperations)
	group.Get("/status", h.HandleGetStatus)
	group.Put("/status", h.HandleUpdateStatus)
	group.Post("/matrix", h.HandleEnsureMatrix)
}

// HandleGetTasks lists task definitions.
// @Summary List Tasks
// @Tags checklist
// @Produce json
// @Success 200 {object} server.ReadResponse[models.Task]
// @Router /checklist/tasks [get]
func (h *Handler) HandleGetTasks(c *fiber.Ctx) error {
	return server.Read(c, h.service.GetTasks(c.Context()))
}

// HandleGetOperations lists the active operations visible to a user.
// @Summary List Operations
// @Tags checklist
// @Produce json
// @Param email query string false "User e-mail"
// @Success 200 {object} server.ReadResponse[models.Operation]
// @Router /checklist/operations [get]
func (h *Handler) HandleGetOperations(c *fiber.Ctx) error {
	return server.Read(c, h.service.GetOperations(c.Context(), c.Query("email")))
}

// HandleGetStatus lists the status cells of a day.
// @Summary List Status
// @Tags checklist
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} server.ReadResponse[models.StatusCell]
// @Router /checklist/status [get]
func (h *Handler) HandleGetStatus(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		date = h.service.Today()
	}
	return server.Read(c, h.service.GetStatusByDate(c.Context(), date))
}

// HandleUpdateStatus records the status of one cell.
// @Summary Update Status
// @Tags checklist
// @Accept json
// @Produce json
// @Param cell body models.StatusCell true "Cell"
// @Success 200 {object} models.StatusCell
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /checklist/status [put]
func (h *Handler) HandleUpdateStatus(c *fiber.Ctx) error {
	var cell models.StatusCell
	if err := c.BodyParser(&cell); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	saved, err := h.service.UpdateStatusCell(c.Context(), cell)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Update status failed", zap.String("key", cell.Key()), zap.Error(err))
		return server.Fail(c, err)
	}
	return c.JSON(saved)
}

// HandleEnsureMatrix creates the missing cells of a day.
// @Summary Ensure Matrix
// @Tags checklist
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} checklist.MatrixReport
// @Failure 400 {object} map[string]string
// @Router /checklist/matrix [post]
func (h *Handler) HandleEnsureMatrix(c *fiber.Ctx) error {
	report, err := h.service.EnsureDay(c.Context(), c.Query("date"))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Ensure matrix failed", zap.Error(err))
		return server.Fail(c, err)
	}
	return c.JSON(report)
}
