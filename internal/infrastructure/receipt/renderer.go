// Package receipt renders order summaries into scannable QR artifacts.
// The artifact is opaque to the rest of the system: generated once at
// submission, stored on the order, immutable thereafter.
package receipt

import (
	"fmt"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"laundromat/internal/domain"
)

type Renderer interface {
	Render(text string) ([]byte, error)
}

type qrRenderer struct {
	size int
}

func NewQRRenderer() Renderer {
	return &qrRenderer{size: 256}
}

func (r *qrRenderer) Render(text string) ([]byte, error) {
	png, err := qrcode.Encode(text, qrcode.Medium, r.size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

// OrderSummary is the text encoded into the receipt artifact. It always
// carries status Pending: the artifact captures the order as submitted.
func OrderSummary(orderID int64, customer, service string, weight, price float64, pickup time.Time) string {
	return fmt.Sprintf(
		"Laundry Service Receipt\n"+
			"Order ID: %d\n"+
			"Customer: %s\n"+
			"Service: %s\n"+
			"Weight: %g kg\n"+
			"Amount: RM%.2f\n"+
			"Pickup Date: %s\n"+
			"Status: %s",
		orderID, customer, service, weight, price,
		pickup.Format("2006-01-02 15:04"), domain.StatusPending,
	)
}

// PaymentSummary is the text encoded into the bank-transfer QR shown
// during the online payment flow.
func PaymentSummary(orderID int64, amount float64) string {
	return fmt.Sprintf(
		"Bank Transfer\nOrder: %d\nAmount: RM%.2f\nRef: ORDER%d",
		orderID, amount, orderID,
	)
}
