package usecase

import "github.com/dvor-map/internal/domain"

// HeatPoint - взвешенная точка тепловой карты
type HeatPoint struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Weight float64 `json:"weight"`
}

// HeatHints - параметры отрисовки теплового слоя на клиенте
type HeatHints struct {
	Radius   int               `json:"radius"`
	Blur     int               `json:"blur"`
	MaxZoom  int               `json:"max_zoom"`
	Max      float64           `json:"max"`
	Gradient map[string]string `json:"gradient"`
}

// DefaultHeatHints returns the fixed 4-stop gradient and blur settings
// the heat overlay is drawn with.
func DefaultHeatHints() HeatHints {
	return HeatHints{
		Radius:  35,
		Blur:    30,
		MaxZoom: 17,
		Max:     10,
		Gradient: map[string]string{
			"0.2": "green",
			"0.4": "yellow",
			"0.6": "orange",
			"1.0": "red",
		},
	}
}

// BuildHeatPoints строит взвешенный список точек для теплового слоя:
// вес = высокие*3 + средние*2 + низкие. Дома без открытых жалоб в слой
// не попадают. Слой не имеет собственного источника данных и
// пересчитывается при каждой смене кеша.
func BuildHeatPoints(buildings []domain.Building) []HeatPoint {
	points := make([]HeatPoint, 0, len(buildings))
	for _, b := range buildings {
		if !b.HasOpenProblems() {
			continue
		}
		points = append(points, HeatPoint{
			Lat:    b.Lat,
			Lng:    b.Lng,
			Weight: b.HeatWeight(),
		})
	}
	return points
}
