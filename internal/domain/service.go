package domain

import "fmt"

// Service is a named wash offering. Orders snapshot PricePerKg at
// submission time, so editing a service never changes placed orders.
type Service struct {
	ID                 int64
	Name               string
	PricePerKg         float64
	Description        string
	EstimatedTimeHours int
}

func (s *Service) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("service name is required: %w", ErrInvalidInput)
	}
	if s.PricePerKg <= 0 {
		return fmt.Errorf("price per kg must be positive: %w", ErrInvalidInput)
	}
	if s.EstimatedTimeHours <= 0 {
		return fmt.Errorf("estimated time must be positive: %w", ErrInvalidInput)
	}
	return nil
}
