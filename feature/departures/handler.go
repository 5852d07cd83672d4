package departures

import (
	"net/http"

	"opsboard/core/logger"
	"opsboard/core/server"
	"opsboard/feature/departures/models"
	"opsboard/feature/departures/parser"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// EditRequest is the body of an inline edit.
type EditRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ParseResponse is the result of a parse request.
type ParseResponse struct {
	Source string             `json:"source"`
	Items  []models.Departure `json:"items"`
}

// Handler handles HTTP requests for route departures.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the departure routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/departures")
	group.Get("/", h.HandleList)
	group.Get("/unlinked", h.HandleUnlinked)
	group.Get("/routes", h.HandleRoutes)
	group.Put("/", h.HandleSave)
	group.Post("/parse", h.HandleParse)
	group.Post("/import", h.HandleImport)
	group.Patch("/:id", h.HandleEdit)
	group.Delete("/:id", h.HandleDelete)
	group.Post("/:id/archive", h.HandleArchive)
}

// HandleList lists the active departures.
// @Summary List Departures
// @Tags departures
// @Produce json
// @Param live query bool false "Compute the gap of open departures against the current time"
// @Success 200 {object} server.ReadResponse[models.Departure]
// @Router /departures [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	return server.Read(c, h.service.GetDepartures(c.Context(), ReadOptions{Live: c.QueryBool("live")}))
}

// HandleUnlinked lists the departures without an operation.
// @Summary List Unlinked Departures
// @Tags departures
// @Produce json
// @Success 200 {object} server.ReadResponse[models.Departure]
// @Router /departures/unlinked [get]
func (h *Handler) HandleUnlinked(c *fiber.Ctx) error {
	return server.Read(c, h.service.Unlinked(c.Context()))
}

// HandleRoutes lists the route mappings.
// @Summary List Route Mappings
// @Tags departures
// @Produce json
// @Success 200 {object} server.ReadResponse[models.RouteMapping]
// @Router /departures/routes [get]
func (h *Handler) HandleRoutes(c *fiber.Ctx) error {
	return server.Read(c, h.service.GetRouteMappings(c.Context()))
}

// HandleSave creates or updates a departure.
// @Summary Save Departure
// @Tags departures
// @Accept json
// @Produce json
// @Param departure body models.Departure true "Departure"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /departures [put]
func (h *Handler) HandleSave(c *fiber.Ctx) error {
	var d models.Departure
	if err := c.BodyParser(&d); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	id, err := h.service.UpdateDeparture(c.Context(), d)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Save departure failed", zap.String("rota", d.Rota), zap.Error(err))
		return server.Fail(c, err)
	}
	return c.JSON(fiber.Map{"id": id})
}

// HandleEdit changes one field of a departure.
// @Summary Edit Departure
// @Tags departures
// @Accept json
// @Produce json
// @Param id path string true "Departure ID"
// @Param edit body departures.EditRequest true "Edit"
// @Success 200 {object} models.Departure
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /departures/{id} [patch]
func (h *Handler) HandleEdit(c *fiber.Ctx) error {
	var req EditRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	d, err := h.service.ApplyEdit(c.Context(), c.Params("id"), req.Field, req.Value)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Edit departure failed", zap.String("id", c.Params("id")), zap.String("field", req.Field), zap.Error(err))
		return server.Fail(c, err)
	}
	return c.JSON(d)
}

// HandleDelete removes a departure.
// @Summary Delete Departure
// @Tags departures
// @Param id path string true "Departure ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /departures/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.DeleteDeparture(c.Context(), c.Params("id")); err != nil {
		logger.WithRayID(h.service.logger, c).Error("Delete departure failed", zap.String("id", c.Params("id")), zap.Error(err))
		return server.Fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// HandleArchive moves a departure to the history list.
// @Summary Archive Departure
// @Tags departures
// @Produce json
// @Param id path string true "Departure ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /departures/{id}/archive [post]
func (h *Handler) HandleArchive(c *fiber.Ctx) error {
	id, err := h.service.ArchiveDeparture(c.Context(), c.Params("id"))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Archive departure failed", zap.String("id", c.Params("id")), zap.Error(err))
		return server.Fail(c, err)
	}
	return c.JSON(fiber.Map{"id": id})
}

// HandleParse extracts departures from pasted text without saving them.
// @Summary Parse Departures
// @Tags departures
// @Accept plain
// @Produce json
// @Param assist query bool false "Try the language model first"
// @Success 200 {object} departures.ParseResponse
// @Router /departures/parse [post]
func (h *Handler) HandleParse(c *fiber.Ctx) error {
	items, source := h.service.Parse(c.Context(), parser.Decode(c.Body()), c.QueryBool("assist"))
	return c.JSON(ParseResponse{Source: source, Items: items})
}

// HandleImport parses pasted text and saves every departure found.
// @Summary Import Departures
// @Tags departures
// @Accept plain
// @Produce json
// @Param assist query bool false "Try the language model first"
// @Success 200 {object} departures.ImportReport
// @Router /departures/import [post]
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	report := h.service.Import(c.Context(), parser.Decode(c.Body()), c.QueryBool("assist"))
	if report.Failed > 0 {
		logger.WithRayID(h.service.logger, c).Warn("Import finished with failures",
			zap.Int("saved", report.Saved), zap.Int("failed", report.Failed))
	}
	return c.JSON(report)
}
