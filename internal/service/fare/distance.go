package fare

import (
	"math"

	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
)

const earthRadiusKm = 6371.0

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// HaversineDistance returns the great-circle distance between two
// coordinates in kilometers.
func HaversineDistance(p1, p2 models.Coordinate) float64 {
	lat1Rad := degreesToRadians(p1.Lat)
	lon1Rad := degreesToRadians(p1.Lng)
	lat2Rad := degreesToRadians(p2.Lat)
	lon2Rad := degreesToRadians(p2.Lng)

	deltaLat := lat2Rad - lat1Rad
	deltaLon := lon2Rad - lon1Rad

	a := math.Pow(math.Sin(deltaLat/2), 2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Pow(math.Sin(deltaLon/2), 2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
