package handler

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/dvor-map/internal/domain"
	"github.com/dvor-map/internal/pkg/utils"
	"github.com/dvor-map/internal/pkg/validator"
	"github.com/dvor-map/internal/usecase"
	"github.com/dvor-map/internal/usecase/dto"
)

// PanelHandler - обработчик боковой панели выбранного дома
type PanelHandler struct {
	panel  *usecase.SidePanel
	logger *zap.Logger
}

func NewPanelHandler(panel *usecase.SidePanel, logger *zap.Logger) *PanelHandler {
	return &PanelHandler{
		panel:  panel,
		logger: logger,
	}
}

// Get возвращает содержимое панели для выбранного дома
func (h *PanelHandler) Get(c *fiber.Ctx) error {
	building, ok := h.panel.Selected()
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "No building selected"})
	}

	reports := h.panel.Reports()
	return utils.SendSuccess(c, dto.PanelResponse{
		Building: building,
		Reports:  reports,
		Stats:    dto.PanelStatsFrom(reports),
	}, &utils.Meta{Total: len(reports)})
}

// Close закрывает панель и сбрасывает выбор
func (h *PanelHandler) Close(c *fiber.Ctx) error {
	h.panel.Close()
	return utils.SendSuccess(c, fiber.Map{"closed": true}, nil)
}

// SubmitReport принимает жалобу как multipart-форму с опциональным фото
func (h *PanelHandler) SubmitReport(c *fiber.Ctx) error {
	var req dto.ReportCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	input := domain.NewReportInput{
		Category:    req.Category,
		Severity:    domain.Severity(req.Severity),
		Periodicity: domain.Periodicity(req.Periodicity),
		Text:        req.Text,
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Failed to read image"})
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Failed to read image"})
		}
		input.Image = &domain.ImageAttachment{
			Filename: file.Filename,
			Data:     data,
		}
	}

	if err := h.panel.SubmitReport(c.Context(), input); err != nil {
		return utils.SendError(c, err)
	}
	return h.Get(c)
}

// ConfirmProblem - голос "проблема подтверждается" по жалобе
func (h *PanelHandler) ConfirmProblem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid report id"})
	}

	if err := h.panel.ConfirmProblem(c.Context(), int64(id)); err != nil {
		return utils.SendError(c, err)
	}
	return h.Get(c)
}

// ConfirmResolved - голос "проблема решена" по жалобе
func (h *PanelHandler) ConfirmResolved(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid report id"})
	}

	if err := h.panel.ConfirmResolved(c.Context(), int64(id)); err != nil {
		return utils.SendError(c, err)
	}
	return h.Get(c)
}

// ConfirmPositive - голос "дом в порядке" за выбранный дом
func (h *PanelHandler) ConfirmPositive(c *fiber.Ctx) error {
	if err := h.panel.ConfirmPositive(c.Context()); err != nil {
		return utils.SendError(c, err)
	}
	return h.Get(c)
}
