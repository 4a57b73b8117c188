package repository

import (
	"context"
	"time"

	"github.com/dvor-map/internal/domain"
)

// SnapshotRepository - сессионное хранилище движка: последний удачный
// список домов (мгновенная отрисовка после перезапуска), отметка прогрева
// и анонимный идентификатор устройства. Снимок никогда не инвалидируется
// сам по себе - только перезаписывается более свежей удачной загрузкой.
type SnapshotRepository interface {
	// Buildings возвращает сохранённый список домов; nil без ошибки,
	// если снимка ещё нет
	Buildings(ctx context.Context) ([]domain.Building, error)

	// SaveBuildings перезаписывает снимок
	SaveBuildings(ctx context.Context, buildings []domain.Building) error

	// WarmupAt возвращает время последнего прогревочного запроса;
	// нулевое время, если прогрева ещё не было
	WarmupAt(ctx context.Context) (time.Time, error)

	// MarkWarmup фиксирует время прогрева
	MarkWarmup(ctx context.Context, at time.Time) error

	// UserHash возвращает анонимный идентификатор устройства;
	// пустая строка без ошибки, если он ещё не создан
	UserHash(ctx context.Context) (string, error)

	// SaveUserHash сохраняет идентификатор устройства
	SaveUserHash(ctx context.Context, hash string) error
}
