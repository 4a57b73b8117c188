package domain

// BuildingStatus - агрегированный статус дома, вычисляется на стороне хранилища
type BuildingStatus string

const (
	StatusGreen  BuildingStatus = "green"
	StatusYellow BuildingStatus = "yellow"
	StatusOrange BuildingStatus = "orange"
	StatusRed    BuildingStatus = "red"
)

// Building - дом на карте. Статус и счётчики приходят только из хранилища,
// локально никогда не пересчитываются. Единственное локально изменяемое
// поле - позиция, и только после подтверждённого переноса.
type Building struct {
	ID            int64          `json:"id"`
	Lat           float64        `json:"lat"`
	Lng           float64        `json:"lng"`
	Address       *string        `json:"address,omitempty"`
	Status        BuildingStatus `json:"status"`
	HighCount     int            `json:"high_count"`
	MediumCount   int            `json:"medium_count"`
	LowCount      int            `json:"low_count"`
	PositiveCount int            `json:"positive_count"`
	HelpCount     int            `json:"help_count"`
}

// EffectiveStatus returns the status with the historical default applied:
// records created before status derivation existed come back empty.
func (b Building) EffectiveStatus() BuildingStatus {
	if b.Status == "" {
		return StatusGreen
	}
	return b.Status
}

// HasOpenProblems reports whether any severity counter is non-zero.
func (b Building) HasOpenProblems() bool {
	return b.HighCount > 0 || b.MediumCount > 0 || b.LowCount > 0
}

// HeatWeight - вес дома для тепловой карты
func (b Building) HeatWeight() float64 {
	return float64(b.HighCount)*3 + float64(b.MediumCount)*2 + float64(b.LowCount)
}

// Position returns the building coordinates as a point.
func (b Building) Position() Point {
	return Point{Lat: b.Lat, Lng: b.Lng}
}

// CreateBuildingInput - параметры создания дома: либо явные координаты,
// либо адрес, который хранилище геокодирует само
type CreateBuildingInput struct {
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
	Address *string  `json:"address,omitempty"`
	Status  string   `json:"status,omitempty"`
}
