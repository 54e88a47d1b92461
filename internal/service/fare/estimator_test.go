package fare

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
	"github.com/Temutjin2k/swiftdrop/pkg/logger"
)

var (
	lagos = models.Coordinate{Lat: 6.5244, Lng: 3.3792}
	abuja = models.Coordinate{Lat: 9.0765, Lng: 7.3986}
)

type fakeRouter struct {
	durationSec float64
	distanceM   float64
	err         error
}

func (f *fakeRouter) Route(_ context.Context, _, _ models.Coordinate) (float64, float64, error) {
	return f.durationSec, f.distanceM, f.err
}

func testLogger() logger.Logger {
	return logger.InitLogger("test", "ERROR")
}

func TestHaversineDistance_LagosAbuja(t *testing.T) {
	got := HaversineDistance(lagos, abuja)

	// Lagos to Abuja great-circle is about 526 km.
	if got < 515 || got > 535 {
		t.Fatalf("HaversineDistance(lagos, abuja) = %.2f km, want ~526", got)
	}
}

func TestHaversineDistance_SamePoint(t *testing.T) {
	if got := HaversineDistance(lagos, lagos); got != 0 {
		t.Fatalf("distance to self = %f, want 0", got)
	}
}

func TestEstimate_RoutedTier(t *testing.T) {
	router := &fakeRouter{durationSec: 7200, distanceM: 90000}
	est := NewEstimator(router, testLogger())

	route, price := est.Estimate(context.Background(), lagos, abuja)

	if route.Method != types.FareMethodAPI {
		t.Fatalf("method = %q, want %q", route.Method, types.FareMethodAPI)
	}
	// 2 hours at the hourly rate
	if want := 2 * RatePerHour; price != want {
		t.Errorf("price = %d, want %d", price, want)
	}
	if route.DurationSeconds != 7200 || route.DistanceMeters != 90000 {
		t.Errorf("route figures not taken from router: %+v", route)
	}
}

func TestEstimate_PriceFloor(t *testing.T) {
	// A 1 minute route prices far below the floor.
	router := &fakeRouter{durationSec: 60, distanceM: 500}
	est := NewEstimator(router, testLogger())

	_, price := est.Estimate(context.Background(), lagos, lagos)

	if price != MinimumFare {
		t.Fatalf("price = %d, want floor %d", price, MinimumFare)
	}
}

func TestEstimate_FallbackTier(t *testing.T) {
	router := &fakeRouter{err: errors.New("routing service down")}
	est := NewEstimator(router, testLogger())

	route, price := est.Estimate(context.Background(), lagos, abuja)

	if route.Method == types.FareMethodAPI {
		t.Fatalf("method = %q after router failure", route.Method)
	}
	if route.Method != types.FareMethodFallback {
		t.Fatalf("method = %q, want %q", route.Method, types.FareMethodFallback)
	}

	distanceKm := HaversineDistance(lagos, abuja)
	wantHours := distanceKm * roadFactor / averageSpeedKmh
	wantPrice := int(math.Ceil(wantHours * RatePerHour))
	if price != wantPrice {
		t.Errorf("price = %d, want %d", price, wantPrice)
	}
	if math.Abs(route.DistanceMeters-distanceKm*roadFactor*1000) > 1 {
		t.Errorf("synthesized distance = %f", route.DistanceMeters)
	}
	if math.Abs(route.DurationSeconds-wantHours*3600) > 1 {
		t.Errorf("synthesized duration = %f", route.DurationSeconds)
	}
}

func TestEstimate_SimpleTier(t *testing.T) {
	router := &fakeRouter{err: errors.New("routing service down")}
	est := NewEstimator(router, testLogger())

	// NaN coordinates break the haversine tier too.
	broken := models.Coordinate{Lat: math.NaN(), Lng: math.NaN()}
	route, price := est.Estimate(context.Background(), broken, abuja)

	if route.Method != types.FareMethodSimple {
		t.Fatalf("method = %q, want %q", route.Method, types.FareMethodSimple)
	}
	if price < MinimumFare {
		t.Errorf("price = %d, below floor", price)
	}
}

func TestEstimateSimple_Figures(t *testing.T) {
	route, price := estimateSimple(lagos, abuja)

	distanceKm := HaversineDistance(lagos, abuja)
	wantHours := distanceKm * minutesPerKm / 60
	if wantPrice := int(math.Ceil(wantHours * RatePerHour)); price != wantPrice {
		t.Errorf("price = %d, want %d", price, wantPrice)
	}
	if math.Abs(route.DurationSeconds-distanceKm*120) > 1 {
		t.Errorf("duration = %f, want %f", route.DurationSeconds, distanceKm*120)
	}
}

func TestEstimate_AlwaysAtLeastFloor(t *testing.T) {
	router := &fakeRouter{err: errors.New("down")}
	est := NewEstimator(router, testLogger())

	pairs := [][2]models.Coordinate{
		{lagos, lagos},
		{lagos, abuja},
		{{Lat: 6.45, Lng: 3.40}, {Lat: 6.46, Lng: 3.41}},
	}
	for _, pair := range pairs {
		if _, price := est.Estimate(context.Background(), pair[0], pair[1]); price < MinimumFare {
			t.Errorf("price %d below floor for %+v", price, pair)
		}
	}
}
