package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dvor-map/internal/domain"
	"github.com/dvor-map/internal/domain/repository"
	"github.com/dvor-map/internal/pkg/errors"
	"github.com/dvor-map/internal/pkg/identity"
)

// BoardItem - запрос помощи с количеством откликов и признаком "горячего"
type BoardItem struct {
	Request   domain.HelpRequest `json:"request"`
	Responses int                `json:"responses"`
	Hot       bool               `json:"hot"`
}

// BoardSummary - счётчики шапки доски: "N всего, N без откликов,
// N сегодня". Считаются до фильтров по категории и откликам.
type BoardSummary struct {
	Total       int `json:"total"`
	NoResponses int `json:"no_responses"`
	Today       int `json:"today"`
}

// BoardFilter сужает выдачу доски. Пустые поля ничего не фильтруют.
type BoardFilter struct {
	BuildingID      *int64
	Category        string
	Status          string // "open", "closed" или пусто (все)
	NoResponsesOnly bool   // скрыть запросы, на которые уже откликнулись
	Sort            string // "newest" (по умолчанию), "no_responses", "hot"
}

// HelpBoard - доска соседской помощи. Доска ничего не кеширует: список
// короткий, а отклики должны быть свежими, поэтому каждое открытие
// читает хранилище заново.
type HelpBoard struct {
	store    repository.StoreRepository
	identity *identity.Provider
	logger   *zap.Logger
	now      func() time.Time
}

func NewHelpBoard(store repository.StoreRepository, identity *identity.Provider, logger *zap.Logger) *HelpBoard {
	return &HelpBoard{
		store:    store,
		identity: identity,
		logger:   logger,
		now:      time.Now,
	}
}

// Board загружает запросы, подтягивает отклики и применяет фильтр и
// сортировку. Отказ счётчика откликов одного запроса не роняет доску -
// такой запрос показывается с нулём.
func (h *HelpBoard) Board(ctx context.Context, filter BoardFilter) ([]BoardItem, BoardSummary, error) {
	requests, err := h.store.ListHelpRequests(ctx, filter.BuildingID)
	if err != nil {
		return nil, BoardSummary{}, err
	}

	now := h.now()
	summary := BoardSummary{Total: len(requests)}
	items := make([]BoardItem, 0, len(requests))

	for _, req := range requests {
		responses, err := h.store.HelpResponses(ctx, req.ID)
		if err != nil {
			h.logger.Debug("Failed to load help responses",
				zap.Int64("help_id", req.ID),
				zap.Error(err))
			responses = 0
		}

		if responses == 0 {
			summary.NoResponses++
		}
		if sameDay(req.CreatedAt, now) {
			summary.Today++
		}

		if !matchesFilter(req, filter) {
			continue
		}
		if filter.NoResponsesOnly && responses > 0 {
			continue
		}

		items = append(items, BoardItem{
			Request:   req,
			Responses: responses,
			Hot:       req.Status == domain.HelpOpen && req.IsHot(now),
		})
	}

	sortBoard(items, filter.Sort)
	return items, summary, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func matchesFilter(req domain.HelpRequest, filter BoardFilter) bool {
	if filter.Category != "" && req.Category != filter.Category {
		return false
	}
	switch filter.Status {
	case "open":
		return req.Status != domain.HelpClosed
	case "closed":
		return req.Status == domain.HelpClosed
	}
	return true
}

func sortBoard(items []BoardItem, order string) {
	switch order {
	case "no_responses":
		// сначала запросы без откликов, внутри групп - новые выше
		sort.SliceStable(items, func(i, j int) bool {
			if (items[i].Responses == 0) != (items[j].Responses == 0) {
				return items[i].Responses == 0
			}
			return items[i].Request.CreatedAt.After(items[j].Request.CreatedAt)
		})
	case "hot":
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Hot != items[j].Hot {
				return items[i].Hot
			}
			return items[i].Request.CreatedAt.After(items[j].Request.CreatedAt)
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Request.CreatedAt.After(items[j].Request.CreatedAt)
		})
	}
}

// Create публикует запрос помощи. Форма требует дом, категорию из
// списка, непустые заголовок, описание и контакт; без них до сети
// не доходит.
func (h *HelpBoard) Create(ctx context.Context, input domain.NewHelpRequestInput) (*domain.HelpRequest, error) {
	if input.BuildingID == 0 ||
		strings.TrimSpace(input.Title) == "" ||
		strings.TrimSpace(input.Description) == "" ||
		strings.TrimSpace(input.Contact) == "" ||
		!validHelpCategory(input.Category) {
		return nil, errors.ErrHelpFormIncomplete
	}

	created, err := h.store.CreateHelpRequest(ctx, input)
	if err != nil {
		return nil, err
	}

	h.logger.Info("Help request created",
		zap.Int64("help_id", created.ID),
		zap.String("category", created.Category))
	return created, nil
}

func validHelpCategory(category string) bool {
	for _, c := range domain.HelpCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Close закрывает запрос помощи
func (h *HelpBoard) Close(ctx context.Context, id int64) error {
	return h.store.CloseHelpRequest(ctx, id)
}

// Respond - отклик "готов помочь". Анонимный хеш устройства дедуплицирует
// повторные отклики на стороне хранилища.
func (h *HelpBoard) Respond(ctx context.Context, id int64) error {
	return h.store.RespondToHelp(ctx, id, h.identity.UserHash(ctx))
}
