package repository

import (
	"context"

	"github.com/dvor-map/internal/domain"
)

// StoreRepository определяет операции удалённого хранилища. Хранилище -
// единственный источник правды: статусы и счётчики только читаются.
type StoreRepository interface {
	// Warmup - дешёвый прогревочный запрос перед основным чтением,
	// когда бэкенд может быть в холодном старте. Ошибка игнорируется.
	Warmup(ctx context.Context) error

	// ListBuildings возвращает полный текущий список домов
	ListBuildings(ctx context.Context) ([]domain.Building, error)

	// CreateBuilding создаёт дом по координатам или адресу
	CreateBuilding(ctx context.Context, input domain.CreateBuildingInput) (*domain.Building, error)

	// UpdateBuildingPosition переносит метку дома
	UpdateBuildingPosition(ctx context.Context, id int64, lat, lng float64) (*domain.Building, error)

	// ConfirmPositive - голос "дом в порядке" (раз в сутки на пользователя)
	ConfirmPositive(ctx context.Context, buildingID int64) error

	// ListReports возвращает жалобы дома
	ListReports(ctx context.Context, buildingID int64) ([]domain.Report, error)

	// CreateReport отправляет жалобу (multipart, опциональное фото)
	CreateReport(ctx context.Context, input domain.NewReportInput) (*domain.Report, error)

	// ConfirmProblem подтверждает проблему из жалобы
	ConfirmProblem(ctx context.Context, reportID int64) error

	// ConfirmResolved подтверждает, что проблема решена
	ConfirmResolved(ctx context.Context, reportID int64) error

	// ListHelpRequests возвращает запросы помощи, опционально по дому
	ListHelpRequests(ctx context.Context, buildingID *int64) ([]domain.HelpRequest, error)

	// CreateHelpRequest создаёт запрос помощи
	CreateHelpRequest(ctx context.Context, input domain.NewHelpRequestInput) (*domain.HelpRequest, error)

	// CloseHelpRequest закрывает запрос помощи
	CloseHelpRequest(ctx context.Context, id int64) error

	// RespondToHelp - отклик на запрос; userHash дедуплицирует отклики
	RespondToHelp(ctx context.Context, id int64, userHash string) error

	// HelpResponses возвращает количество откликов на запрос
	HelpResponses(ctx context.Context, id int64) (int, error)
}
