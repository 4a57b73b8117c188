package domain

// GlyphBase - базовая иконка маркера. Клиент сопоставляет имя с PNG
// из /public (marker-green.png и т.д.).
type GlyphBase string

const (
	GlyphGreen  GlyphBase = "green"
	GlyphYellow GlyphBase = "yellow"
	GlyphOrange GlyphBase = "orange"
	GlyphRed    GlyphBase = "red"
	// GlyphSelected - синий маркер выбранного дома
	GlyphSelected GlyphBase = "blue"
	// GlyphPreview - чёрный маркер предварительной позиции при переносе
	GlyphPreview GlyphBase = "black"
)

// BadgeTier - цветовая ступень бейджа запросов помощи
type BadgeTier string

const (
	BadgeDefault BadgeTier = "default"
	BadgeWarn    BadgeTier = "warn"
	BadgeAlert   BadgeTier = "alert"
)

// HelpBadge - бейдж с количеством активных запросов помощи поверх маркера
type HelpBadge struct {
	Count int       `json:"count"`
	Tier  BadgeTier `json:"tier"`
	Pulse bool      `json:"pulse"`
}

// Glyph - полностью вычисленная иконка маркера
type Glyph struct {
	Base  GlyphBase  `json:"base"`
	Badge *HelpBadge `json:"badge,omitempty"`
}
