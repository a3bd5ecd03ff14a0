package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundromat/internal/domain"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		name      string
		ratePerKg float64
		weight    float64
		want      float64
		wantErr   error
	}{
		{name: "regular wash three kilos", ratePerKg: 5.0, weight: 3.0, want: 15.0},
		{name: "express wash", ratePerKg: 8.0, weight: 2.5, want: 20.0},
		{name: "fractional weight keeps full precision", ratePerKg: 10.0, weight: 1.234, want: 12.34},
		{name: "zero weight rejected", ratePerKg: 5.0, weight: 0, wantErr: domain.ErrInvalidInput},
		{name: "negative weight rejected", ratePerKg: 5.0, weight: -1, wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Quote(tt.ratePerKg, tt.weight)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteIsExactProduct(t *testing.T) {
	rates := []float64{3.0, 5.0, 8.0, 10.0}
	weights := []float64{0.5, 1.0, 2.75, 3.0, 7.125}
	for _, rate := range rates {
		for _, w := range weights {
			got, err := Quote(rate, w)
			require.NoError(t, err)
			assert.Equal(t, rate*w, got)
		}
	}
}

func TestDisplayPrice(t *testing.T) {
	assert.Equal(t, 15.0, DisplayPrice(15.0))
	assert.Equal(t, 12.34, DisplayPrice(12.339999))
	assert.Equal(t, 0.13, DisplayPrice(0.125001))
}

func TestPromisedPickup(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(24*time.Hour), PromisedPickup(now, 24))
	assert.Equal(t, now.Add(6*time.Hour), PromisedPickup(now, 6))
}
