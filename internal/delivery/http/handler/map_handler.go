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

// MapHandler - обработчик событий карты: область, клики, режимы
type MapHandler struct {
	surface *usecase.MapSurface
	logger  *zap.Logger
}

func NewMapHandler(surface *usecase.MapSurface, logger *zap.Logger) *MapHandler {
	return &MapHandler{
		surface: surface,
		logger:  logger,
	}
}

// State возвращает текущий кадр карты целиком
func (h *MapHandler) State(c *fiber.Ctx) error {
	state := h.surface.Render(c.Context())
	return utils.SendSuccess(c, state, &utils.Meta{
		Total: len(state.Markers) + len(state.Clusters),
	})
}

// Viewport принимает смену видимой области. Ответ немедленный:
// перезагрузка планируется в фоне после паузы в движении.
func (h *MapHandler) Viewport(c *fiber.Ctx) error {
	var req dto.ViewportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	h.surface.ObserveViewport(domain.Viewport{
		Bounds: domain.BoundingBox{
			South: req.South,
			West:  req.West,
			North: req.North,
			East:  req.East,
		},
		Zoom: req.Zoom,
	})
	return utils.SendSuccess(c, fiber.Map{"accepted": true}, nil)
}

// Filters меняет активные фильтры отображения
func (h *MapHandler) Filters(c *fiber.Ctx) error {
	var req dto.FiltersRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	if req.Status == "" {
		req.Status = "all"
	}
	h.surface.SetFilters(domain.Filters{
		Status:      req.Status,
		ProblemOnly: req.ProblemOnly,
		Severity:    req.Severity,
	})
	return utils.SendSuccess(c, h.surface.Filters(), nil)
}

// Geolocate центрирует карту на позиции пользователя
func (h *MapHandler) Geolocate(c *fiber.Ctx) error {
	var req dto.PointRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	if err := h.surface.Geolocate(req.Lat, req.Lng); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, fiber.Map{"accepted": true}, nil)
}

// ClickBuilding - ЛКМ по маркеру дома
func (h *MapHandler) ClickBuilding(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid building id"})
	}

	if err := h.surface.PrimaryClickBuilding(c.Context(), int64(id)); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.ModeResponse{Mode: h.surface.Render(c.Context()).Mode}, nil)
}

// ClickPrimary - ЛКМ по пустому месту карты
func (h *MapHandler) ClickPrimary(c *fiber.Ctx) error {
	var req dto.PointRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	h.surface.PrimaryClickMap(domain.Point{Lat: req.Lat, Lng: req.Lng})
	return utils.SendSuccess(c, dto.ModeResponse{Mode: h.surface.Render(c.Context()).Mode}, nil)
}

// ClickSecondary - ПКМ по карте (выбор точки для новой метки)
func (h *MapHandler) ClickSecondary(c *fiber.Ctx) error {
	var req dto.PointRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	h.surface.SecondaryClick(domain.Point{Lat: req.Lat, Lng: req.Lng})
	return utils.SendSuccess(c, dto.ModeResponse{Mode: h.surface.Render(c.Context()).Mode}, nil)
}

// PlaceStart - вход в режим добавления с кнопки
func (h *MapHandler) PlaceStart(c *fiber.Ctx) error {
	h.surface.StartPlacing()
	return utils.SendSuccess(c, dto.ModeResponse{Mode: h.surface.Render(c.Context()).Mode}, nil)
}

// PlaceAddress - черновик адреса в форме добавления
func (h *MapHandler) PlaceAddress(c *fiber.Ctx) error {
	var req dto.AddressDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	h.surface.SetAddressDraft(req.Address)
	return utils.SendSuccess(c, dto.ModeResponse{Mode: h.surface.Render(c.Context()).Mode}, nil)
}

// PlaceConfirm подтверждает добавление метки
func (h *MapHandler) PlaceConfirm(c *fiber.Ctx) error {
	created, err := h.surface.ConfirmPlacement(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.BuildingResponse{Building: *created}, nil)
}

// PlaceCancel отменяет добавление метки
func (h *MapHandler) PlaceCancel(c *fiber.Ctx) error {
	h.surface.CancelPlacement()
	return utils.SendSuccess(c, dto.ModeResponse{Mode: h.surface.Render(c.Context()).Mode}, nil)
}

// RelocateStart включает перенос выбранного дома
func (h *MapHandler) RelocateStart(c *fiber.Ctx) error {
	if err := h.surface.StartRelocation(); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.ModeResponse{Mode: h.surface.Render(c.Context()).Mode}, nil)
}

// RelocateConfirm фиксирует перенос
func (h *MapHandler) RelocateConfirm(c *fiber.Ctx) error {
	updated, err := h.surface.ConfirmRelocation(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.BuildingResponse{Building: *updated}, nil)
}

// RelocateCancel отменяет перенос
func (h *MapHandler) RelocateCancel(c *fiber.Ctx) error {
	h.surface.CancelRelocation()
	return utils.SendSuccess(c, dto.ModeResponse{Mode: h.surface.Render(c.Context()).Mode}, nil)
}

// Select - выбор дома по идентификатору из внешней ссылки
func (h *MapHandler) Select(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid building id"})
	}

	building, err := h.surface.SelectByID(c.Context(), int64(id))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.BuildingResponse{Building: *building}, nil)
}
