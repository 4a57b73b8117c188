package domain

import "strconv"

// bboxPrecision - количество знаков после запятой в ключе области.
// Панорамирование меньше ~10 м не считается сменой области.
const bboxPrecision = 4

// Viewport - видимая область карты вместе с зумом
type Viewport struct {
	Bounds BoundingBox `json:"bounds"`
	Zoom   int         `json:"zoom"`
}

// Filters - активные фильтры отображения домов. Входят в ключ области,
// поэтому смена фильтра тоже инициирует перезагрузку.
type Filters struct {
	// Status: "all" либо конкретный статус дома
	Status string `json:"status"`
	// ProblemOnly скрывает дома без открытых жалоб
	ProblemOnly bool `json:"problem_only"`
	// Severity: пусто либо low|medium|high - показывать только дома,
	// где есть жалобы такой серьёзности
	Severity string `json:"severity"`
}

// DefaultFilters returns the filter set the map starts with.
func DefaultFilters() Filters {
	return Filters{Status: "all"}
}

// Match reports whether the building passes all active filters.
func (f Filters) Match(b Building) bool {
	if f.Status != "" && f.Status != "all" && string(b.EffectiveStatus()) != f.Status {
		return false
	}
	if f.ProblemOnly && !b.HasOpenProblems() {
		return false
	}
	switch f.Severity {
	case "":
	case "high":
		if b.HighCount == 0 {
			return false
		}
	case "medium":
		if b.MediumCount == 0 {
			return false
		}
	case "low":
		if b.LowCount == 0 {
			return false
		}
	}
	return true
}

// ViewportKey - квантованный ключ видимой области + фильтров.
// Два одинаковых ключа означают, что повторная загрузка не нужна.
type ViewportKey struct {
	South       string
	West        string
	North       string
	East        string
	Status      string
	ProblemOnly bool
	Severity    string
}

// NewViewportKey quantizes the viewport to a fixed decimal precision and
// folds in the active filters. Equality on the result is exact.
func NewViewportKey(v Viewport, f Filters) ViewportKey {
	q := func(x float64) string {
		return strconv.FormatFloat(x, 'f', bboxPrecision, 64)
	}
	return ViewportKey{
		South:       q(v.Bounds.South),
		West:        q(v.Bounds.West),
		North:       q(v.Bounds.North),
		East:        q(v.Bounds.East),
		Status:      f.Status,
		ProblemOnly: f.ProblemOnly,
		Severity:    f.Severity,
	}
}
