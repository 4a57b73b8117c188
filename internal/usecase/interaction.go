package usecase

import (
	"sync"

	"go.uber.org/zap"

	"github.com/dvor-map/internal/domain"
	"github.com/dvor-map/internal/pkg/errors"
)

// InteractionStateMachine владеет текущим режимом карты и маршрутизирует
// клики. Режимы взаимоисключающие по построению: состояние - один
// tagged-вариант, а не набор независимых флагов.
type InteractionStateMachine struct {
	logger *zap.Logger

	mu   sync.Mutex
	mode domain.InteractionMode
}

func NewInteractionStateMachine(logger *zap.Logger) *InteractionStateMachine {
	return &InteractionStateMachine{
		logger: logger,
		mode:   domain.IdleMode(),
	}
}

// Mode returns a copy of the current mode.
func (m *InteractionStateMachine) Mode() domain.InteractionMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	mode := m.mode
	if m.mode.Pending != nil {
		p := *m.mode.Pending
		mode.Pending = &p
	}
	return mode
}

// SecondaryClick - ПКМ по карте. В Idle сразу включает режим добавления
// с выбранной точкой; в Placing перезаписывает точку; при активном
// переносе игнорируется целиком - перенос имеет приоритет.
func (m *InteractionStateMachine) SecondaryClick(p domain.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode.Kind == domain.ModeRelocating {
		return
	}

	point := p
	if m.mode.Kind != domain.ModePlacing {
		m.logger.Debug("Entering placing mode",
			zap.Float64("lat", p.Lat),
			zap.Float64("lng", p.Lng))
		m.mode = domain.InteractionMode{Kind: domain.ModePlacing, Pending: &point}
		return
	}
	// повторный ПКМ всегда перезаписывает черновые координаты
	m.mode.Pending = &point
}

// PrimaryClickPoint - ЛКМ по пустому месту карты. Возвращает true, если
// клик поглощён переносом (выбрана новая позиция); иначе клик ничего
// не значит и остаётся за обычной навигацией.
func (m *InteractionStateMachine) PrimaryClickPoint(p domain.Point) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode.Kind != domain.ModeRelocating {
		return false
	}
	point := p
	m.mode.Pending = &point
	return true
}

// StartPlacing включает режим добавления без выбранной точки
// (кнопка "Добавить метку")
func (m *InteractionStateMachine) StartPlacing() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = domain.InteractionMode{Kind: domain.ModePlacing}
}

// SetAddressDraft обновляет черновик адреса в режиме добавления
func (m *InteractionStateMachine) SetAddressDraft(address string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode.Kind == domain.ModePlacing {
		m.mode.AddressDraft = address
	}
}

// TakePlacingDraft валидирует черновик добавления и сбрасывает режим
// в Idle. Требуются либо координаты, либо непустой адрес.
func (m *InteractionStateMachine) TakePlacingDraft() (*domain.Point, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode.Kind != domain.ModePlacing {
		return nil, "", errors.ErrNoPendingCoordinates
	}
	pending := m.mode.Pending
	address := m.mode.AddressDraft

	if pending == nil && address == "" {
		return nil, "", errors.ErrNoPendingCoordinates
	}

	m.mode = domain.IdleMode()
	return pending, address, nil
}

// ResumePlacing возвращает черновик после неудачной фиксации: режим
// сбрасывается только успешным созданием
func (m *InteractionStateMachine) ResumePlacing(pending *domain.Point, address string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = domain.InteractionMode{
		Kind:         domain.ModePlacing,
		Pending:      pending,
		AddressDraft: address,
	}
}

// CancelPlacing отменяет добавление, черновик выбрасывается
func (m *InteractionStateMachine) CancelPlacing() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode.Kind == domain.ModePlacing {
		m.mode = domain.IdleMode()
	}
}

// StartRelocating включает перенос выбранного дома. Дом с жалобами
// переносить нельзя - это проверяется до любого сетевого вызова.
// Вход в перенос вытесняет режим добавления.
func (m *InteractionStateMachine) StartRelocating(targetID int64, reportCount int) error {
	if reportCount > 0 {
		return errors.ErrRelocationBlocked
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger.Debug("Entering relocating mode", zap.Int64("building_id", targetID))
	m.mode = domain.InteractionMode{Kind: domain.ModeRelocating, TargetID: targetID}
	return nil
}

// TakeRelocation валидирует перенос и сбрасывает режим в Idle.
// Без выбранной точки подтверждение отклоняется с понятным сообщением.
func (m *InteractionStateMachine) TakeRelocation() (int64, domain.Point, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode.Kind != domain.ModeRelocating {
		return 0, domain.Point{}, errors.ErrNoPendingCoordinates
	}
	if m.mode.Pending == nil {
		return 0, domain.Point{}, errors.ErrNoPendingCoordinates
	}

	id := m.mode.TargetID
	point := *m.mode.Pending
	m.mode = domain.IdleMode()
	return id, point, nil
}

// ResumeRelocating возвращает перенос после неудачной фиксации
func (m *InteractionStateMachine) ResumeRelocating(targetID int64, pending domain.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	point := pending
	m.mode = domain.InteractionMode{
		Kind:     domain.ModeRelocating,
		TargetID: targetID,
		Pending:  &point,
	}
}

// CancelRelocating отменяет перенос, выбранная точка выбрасывается
func (m *InteractionStateMachine) CancelRelocating() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode.Kind == domain.ModeRelocating {
		m.mode = domain.IdleMode()
	}
}

// OnSelectionChanged - боковой канал: выбор другого дома (или сброс
// выбора) принудительно завершает активный перенос без фиксации.
func (m *InteractionStateMachine) OnSelectionChanged(selectedID *int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode.Kind != domain.ModeRelocating {
		return
	}
	if selectedID != nil && *selectedID == m.mode.TargetID {
		return
	}
	m.logger.Debug("Selection changed, cancelling relocation",
		zap.Int64("building_id", m.mode.TargetID))
	m.mode = domain.IdleMode()
}
