package fare

import (
	"context"

	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
)

// Router produces a driving route between two coordinates. Returns the
// route duration in seconds and distance in meters.
type Router interface {
	Route(ctx context.Context, pickup, dropoff models.Coordinate) (durationSeconds, distanceMeters float64, err error)
}
