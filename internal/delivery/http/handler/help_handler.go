package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/dvor-map/internal/domain"
	"github.com/dvor-map/internal/pkg/utils"
	"github.com/dvor-map/internal/pkg/validator"
	"github.com/dvor-map/internal/usecase"
	"github.com/dvor-map/internal/usecase/dto"
)

// HelpHandler - обработчик доски соседской помощи
type HelpHandler struct {
	board  *usecase.HelpBoard
	logger *zap.Logger
}

func NewHelpHandler(board *usecase.HelpBoard, logger *zap.Logger) *HelpHandler {
	return &HelpHandler{
		board:  board,
		logger: logger,
	}
}

// List возвращает доску с фильтрами и сортировкой из query-параметров
func (h *HelpHandler) List(c *fiber.Ctx) error {
	filter := usecase.BoardFilter{
		Category:        c.Query("category"),
		Status:          c.Query("status"),
		NoResponsesOnly: c.QueryBool("no_responses_only"),
		Sort:            c.Query("sort"),
	}
	if id := c.QueryInt("building_id"); id > 0 {
		buildingID := int64(id)
		filter.BuildingID = &buildingID
	}

	items, summary, err := h.board.Board(c.Context(), filter)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{
		"items":   items,
		"summary": summary,
	}, &utils.Meta{Total: len(items)})
}

// Create публикует запрос помощи
func (h *HelpHandler) Create(c *fiber.Ctx) error {
	var req dto.HelpCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	created, err := h.board.Create(c.Context(), domain.NewHelpRequestInput{
		BuildingID:  req.BuildingID,
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		Contact:     req.Contact,
	})
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, created, nil)
}

// Close закрывает запрос помощи
func (h *HelpHandler) Close(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid help request id"})
	}

	if err := h.board.Close(c.Context(), int64(id)); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, fiber.Map{"closed": true}, nil)
}

// Respond - отклик "готов помочь" на запрос
func (h *HelpHandler) Respond(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid help request id"})
	}

	if err := h.board.Respond(c.Context(), int64(id)); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, fiber.Map{"responded": true}, nil)
}
