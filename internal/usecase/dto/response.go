package dto

import "github.com/dvor-map/internal/domain"

// BuildingResponse - дом в ответах на действия (создание, перенос, выбор)
type BuildingResponse struct {
	Building domain.Building `json:"building"`
}

// ModeResponse - текущий режим взаимодействия после клика или отмены
type ModeResponse struct {
	Mode domain.InteractionMode `json:"mode"`
}

// PanelResponse - содержимое боковой панели выбранного дома
type PanelResponse struct {
	Building domain.Building `json:"building"`
	Reports  []domain.Report `json:"reports"`
	Stats    PanelStats      `json:"stats"`
}

// PanelStats - сводка по жалобам выбранного дома
type PanelStats struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
	Open   int `json:"open"`
}

// PanelStatsFrom сводит список жалоб в счётчики шапки панели.
func PanelStatsFrom(reports []domain.Report) PanelStats {
	var s PanelStats
	for _, r := range reports {
		if r.Status != domain.ReportOpen {
			continue
		}
		s.Open++
		switch r.Severity {
		case domain.SeverityHigh:
			s.High++
		case domain.SeverityMedium:
			s.Medium++
		case domain.SeverityLow:
			s.Low++
		}
	}
	return s
}
