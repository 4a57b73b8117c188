package store

import (
	"bytes"
	"strconv"
	"time"

	"github.com/dvor-map/internal/domain"
)

// looseFloat принимает и число, и число в кавычках - старые записи
// хранилища отдают координаты строками.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*f = looseFloat(v)
	return nil
}

// storeTimeLayouts - хранилище отдаёт created_at без зоны; время считаем UTC
var storeTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func parseStoreTime(s string) time.Time {
	for _, layout := range storeTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

type buildingWire struct {
	ID            int64      `json:"id"`
	Lat           looseFloat `json:"lat"`
	Lng           looseFloat `json:"lng"`
	Address       *string    `json:"address"`
	Status        string     `json:"status"`
	HighCount     int        `json:"high_count"`
	MediumCount   int        `json:"medium_count"`
	LowCount      int        `json:"low_count"`
	PositiveCount int        `json:"positive_count"`
	HelpCount     int        `json:"help_count"`
}

func (w buildingWire) toDomain() domain.Building {
	return domain.Building{
		ID:            w.ID,
		Lat:           float64(w.Lat),
		Lng:           float64(w.Lng),
		Address:       w.Address,
		Status:        domain.BuildingStatus(w.Status),
		HighCount:     w.HighCount,
		MediumCount:   w.MediumCount,
		LowCount:      w.LowCount,
		PositiveCount: w.PositiveCount,
		HelpCount:     w.HelpCount,
	}
}

type reportWire struct {
	ID                    int64   `json:"id"`
	BuildingID            int64   `json:"building_id"`
	Category              string  `json:"category"`
	Severity              string  `json:"severity"`
	Periodicity           string  `json:"periodicity"`
	Text                  string  `json:"text"`
	ImagePath             *string `json:"image_path"`
	Status                string  `json:"status"`
	ProblemConfirmations  int     `json:"problem_confirmations"`
	ResolvedConfirmations int     `json:"resolved_confirmations"`
	CreatedAt             string  `json:"created_at"`
}

func (w reportWire) toDomain() domain.Report {
	return domain.Report{
		ID:                    w.ID,
		BuildingID:            w.BuildingID,
		Category:              w.Category,
		Severity:              domain.Severity(w.Severity),
		Periodicity:           domain.Periodicity(w.Periodicity),
		Text:                  w.Text,
		ImagePath:             w.ImagePath,
		Status:                domain.ReportStatus(w.Status),
		ProblemConfirmations:  w.ProblemConfirmations,
		ResolvedConfirmations: w.ResolvedConfirmations,
		CreatedAt:             parseStoreTime(w.CreatedAt),
	}
}

type helpWire struct {
	ID          int64  `json:"id"`
	BuildingID  int64  `json:"building_id"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Contact     string `json:"contact"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

func (w helpWire) toDomain() domain.HelpRequest {
	return domain.HelpRequest{
		ID:          w.ID,
		BuildingID:  w.BuildingID,
		Category:    w.Category,
		Title:       w.Title,
		Description: w.Description,
		Contact:     w.Contact,
		Status:      domain.HelpStatus(w.Status),
		CreatedAt:   parseStoreTime(w.CreatedAt),
	}
}
