package booking

import (
	"context"
	"fmt"

	wrap "github.com/Temutjin2k/swiftdrop/pkg/logger/wrapper"
)

// generateOrderNumber produces an order number unique for the day, e.g.
// ORD_20260830_001.
func (s *BookingService) generateOrderNumber(ctx context.Context) (string, error) {
	now := s.now()
	datePart := now.Format("20060102")

	count, err := s.repo.CountHistoryByDate(ctx, now)
	if err != nil {
		return "", wrap.Error(ctx, err)
	}
	nextSequence := count + 1
	return fmt.Sprintf("ORD_%s_%03d", datePart, nextSequence), nil
}
