package fare

import (
	"context"
	"fmt"
	"math"

	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
	"github.com/Temutjin2k/swiftdrop/pkg/logger"
	wrap "github.com/Temutjin2k/swiftdrop/pkg/logger/wrapper"
	"github.com/Temutjin2k/swiftdrop/pkg/metrics"
)

// Business constants of the pricing model. Named so tests can assert
// against them instead of magic numbers.
const (
	MinimumFare = 200 // price floor in naira
	RatePerHour = 500 // naira per hour of driving

	roadFactor      = 1.4  // great-circle to road distance correction
	averageSpeedKmh = 30.0 // assumed urban driving speed
	minutesPerKm    = 2.0  // last-resort heuristic
)

const serviceName = "swiftdrop"

// Estimator prices a pickup/dropoff pair using a tiered strategy: a
// routed driving route first, pure coordinate math when the routing
// service is unavailable. The last tier is pure computation, so an
// estimate is always produced.
type Estimator struct {
	router Router
	log    logger.Logger
}

func NewEstimator(router Router, log logger.Logger) *Estimator {
	return &Estimator{
		router: router,
		log:    log,
	}
}

// Estimate returns the route figures and the price for a delivery
// between two coordinates.
func (e *Estimator) Estimate(ctx context.Context, pickup, dropoff models.Coordinate) (models.RouteInfo, int) {
	ctx = wrap.WithAction(ctx, "estimate_fare")

	route, price, err := e.estimateRouted(ctx, pickup, dropoff)
	if err == nil {
		metrics.FareEstimatesTotal.WithLabelValues(serviceName, string(route.Method)).Inc()
		return route, price
	}
	e.log.Warn(ctx, fmt.Sprintf("routed estimate failed, falling back: %v", err))

	route, price, ok := estimateHaversine(pickup, dropoff)
	if ok {
		metrics.FareEstimatesTotal.WithLabelValues(serviceName, string(route.Method)).Inc()
		return route, price
	}
	e.log.Warn(ctx, "haversine estimate produced no usable figures, using simple heuristic")

	route, price = estimateSimple(pickup, dropoff)
	metrics.FareEstimatesTotal.WithLabelValues(serviceName, string(route.Method)).Inc()
	return route, price
}

func (e *Estimator) estimateRouted(ctx context.Context, pickup, dropoff models.Coordinate) (models.RouteInfo, int, error) {
	durationSec, distanceM, err := e.router.Route(ctx, pickup, dropoff)
	if err != nil {
		return models.RouteInfo{}, 0, err
	}

	return models.RouteInfo{
		DurationSeconds: durationSec,
		DistanceMeters:  distanceM,
		Method:          types.FareMethodAPI,
	}, priceFromHours(durationSec / 3600), nil
}

// estimateHaversine prices from the great-circle distance with a road
// correction factor. Reports ok=false when the coordinates do not
// yield a finite distance.
func estimateHaversine(pickup, dropoff models.Coordinate) (models.RouteInfo, int, bool) {
	distanceKm := HaversineDistance(pickup, dropoff)
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		return models.RouteInfo{}, 0, false
	}

	estimatedHours := distanceKm * roadFactor / averageSpeedKmh

	return models.RouteInfo{
		DurationSeconds: estimatedHours * 3600,
		DistanceMeters:  distanceKm * roadFactor * 1000,
		Method:          types.FareMethodFallback,
	}, priceFromHours(estimatedHours), true
}

// estimateSimple is the last resort: two minutes per great-circle
// kilometer, nothing that can fail.
func estimateSimple(pickup, dropoff models.Coordinate) (models.RouteInfo, int) {
	distanceKm := HaversineDistance(pickup, dropoff)
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		distanceKm = 0
	}

	estimatedHours := distanceKm * minutesPerKm / 60

	return models.RouteInfo{
		DurationSeconds: estimatedHours * 3600,
		DistanceMeters:  distanceKm * 1000,
		Method:          types.FareMethodSimple,
	}, priceFromHours(estimatedHours)
}

func priceFromHours(hours float64) int {
	price := int(math.Ceil(hours * RatePerHour))
	if price < MinimumFare {
		return MinimumFare
	}
	return price
}
