package usecase

import "github.com/dvor-map/internal/domain"

// Пороги бейджа запросов помощи
const (
	badgeWarnAt  = 2
	badgePulseAt = 3
	badgeAlertAt = 5
)

var glyphByStatus = map[domain.BuildingStatus]domain.GlyphBase{
	domain.StatusGreen:  domain.GlyphGreen,
	domain.StatusYellow: domain.GlyphYellow,
	domain.StatusOrange: domain.GlyphOrange,
	domain.StatusRed:    domain.GlyphRed,
}

// ResolveIcon вычисляет иконку маркера. Чистая функция без побочных
// эффектов - вызывается на каждый видимый дом при каждой отрисовке.
// Выбранный дом всегда получает "выбранную" иконку независимо от статуса;
// бейдж появляется при первом же активном запросе помощи.
func ResolveIcon(status domain.BuildingStatus, helpCount int, isSelected bool) domain.Glyph {
	base := glyphByStatus[status]
	if base == "" {
		base = domain.GlyphGreen
	}
	if isSelected {
		base = domain.GlyphSelected
	}

	if helpCount <= 0 {
		return domain.Glyph{Base: base}
	}

	tier := domain.BadgeDefault
	switch {
	case helpCount >= badgeAlertAt:
		tier = domain.BadgeAlert
	case helpCount >= badgeWarnAt:
		tier = domain.BadgeWarn
	}

	return domain.Glyph{
		Base: base,
		Badge: &domain.HelpBadge{
			Count: helpCount,
			Tier:  tier,
			Pulse: helpCount >= badgePulseAt,
		},
	}
}
