package receipt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderSummary(t *testing.T) {
	pickup := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	got := OrderSummary(7, "alice", "Regular Wash", 3.0, 15.0, pickup)

	want := "Laundry Service Receipt\n" +
		"Order ID: 7\n" +
		"Customer: alice\n" +
		"Service: Regular Wash\n" +
		"Weight: 3 kg\n" +
		"Amount: RM15.00\n" +
		"Pickup Date: 2024-06-02 10:00\n" +
		"Status: Pending"
	assert.Equal(t, want, got)
}

func TestPaymentSummary(t *testing.T) {
	got := PaymentSummary(7, 15.0)
	assert.Equal(t, "Bank Transfer\nOrder: 7\nAmount: RM15.00\nRef: ORDER7", got)
}

func TestRenderProducesPNG(t *testing.T) {
	artifact, err := NewQRRenderer().Render("hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), artifact[:4])
}
