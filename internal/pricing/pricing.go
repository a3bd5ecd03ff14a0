// Package pricing holds the pure price and scheduling arithmetic. It has
// no side effects; orders persist the returned values so later catalog
// edits never touch placed orders.
package pricing

import (
	"fmt"
	"math"
	"time"

	"laundromat/internal/domain"
)

// Quote returns ratePerKg * weight at full precision. The stored order
// price keeps this value; use DisplayPrice for rendering.
func Quote(ratePerKg, weight float64) (float64, error) {
	if weight <= 0 {
		return 0, fmt.Errorf("weight must be a positive number of kilograms: %w", domain.ErrInvalidInput)
	}
	return ratePerKg * weight, nil
}

// DisplayPrice rounds a quote to two decimal places for display.
func DisplayPrice(price float64) float64 {
	return math.Round(price*100) / 100
}

// PromisedPickup is the pickup time promised at submission: now plus the
// service's estimated turnaround.
func PromisedPickup(now time.Time, estimatedHours int) time.Time {
	return now.Add(time.Duration(estimatedHours) * time.Hour)
}
