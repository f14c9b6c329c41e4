// Package geo содержит представление координат и расчёт расстояний.
package geo

import "math"

// Coordinates описывает географические координаты точки.
type Coordinates struct {
	Lat float64
	Lon float64
}

const earthRadiusKm = 6371.0

// Distance возвращает расстояние по дуге большого круга между двумя точками
// в километрах, округлённое до одного знака. Если хотя бы одна из точек
// неизвестна или содержит некорректное значение, возвращает nil.
func Distance(a, b *Coordinates) *float64 {
	if a == nil || b == nil {
		return nil
	}
	if !valid(a) || !valid(b) {
		return nil
	}

	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	km := math.Round(earthRadiusKm*c*10) / 10
	return &km
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func valid(c *Coordinates) bool {
	return !math.IsNaN(c.Lat) && !math.IsNaN(c.Lon) &&
		!math.IsInf(c.Lat, 0) && !math.IsInf(c.Lon, 0)
}
