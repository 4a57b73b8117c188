package utils

import "math"

const earthRadiusKm = 6371.0

// tileSize - размер тайла веб-меркатора в пикселях
const tileSize = 256.0

// HaversineDistance вычисляет расстояние между двумя точками в километрах
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLng := (lng2 - lng1) * math.Pi / 180.0

	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// ProjectPixel переводит координаты в пиксели веб-меркатора на данном зуме.
// Та же проекция, что использует тайловая подложка, поэтому пиксельные
// расстояния здесь совпадают с экранными.
func ProjectPixel(lat, lng float64, zoom int) (x, y float64) {
	scale := tileSize * math.Exp2(float64(zoom))

	x = (lng + 180.0) / 360.0 * scale

	latRad := lat * math.Pi / 180.0
	y = (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * scale

	return x, y
}

// PixelDistance - расстояние в пикселях между двумя точками на данном зуме
func PixelDistance(lat1, lng1, lat2, lng2 float64, zoom int) float64 {
	x1, y1 := ProjectPixel(lat1, lng1, zoom)
	x2, y2 := ProjectPixel(lat2, lng2, zoom)
	return math.Hypot(x2-x1, y2-y1)
}
