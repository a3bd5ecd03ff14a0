package domain

import "time"

type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusReady      Status = "Ready for Pickup"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type PaymentMethod string

const (
	PaymentUnset  PaymentMethod = ""
	PaymentCash   PaymentMethod = "Cash"
	PaymentOnline PaymentMethod = "Online Transfer"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

// Order is one customer's drop-off. TotalPrice is Weight times the
// service rate at submission time and is never recomputed. PickupDate
// is the promised pickup set at submission; it is overwritten only when
// the order transitions into Ready for Pickup.
type Order struct {
	ID            int64
	UserID        int64
	ServiceID     int64
	OrderDate     time.Time
	PickupDate    time.Time
	Status        Status
	Weight        float64
	TotalPrice    float64
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	Receipt       []byte
}

// forwardTransitions is the strict lifecycle: monotonic forward
// progression with Cancelled reachable from any non-terminal state.
var forwardTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusReady, StatusCompleted, StatusCancelled},
	StatusProcessing: {StatusReady, StatusCompleted, StatusCancelled},
	StatusReady:      {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransitionTo reports whether the strict lifecycle allows moving to
// next. The permissive mode keeps the counter staff free to set any
// status from any other and bypasses this check.
func (o *Order) CanTransitionTo(next Status) bool {
	for _, s := range forwardTransitions[o.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// RemainingTime renders the customer-facing countdown to pickup.
// Terminal orders have no countdown.
func (o *Order) RemainingTime(now time.Time) string {
	if o.Status.Terminal() {
		return ""
	}
	d := o.PickupDate.Sub(now)
	if d <= 0 {
		return "Ready for pickup"
	}
	return d.Truncate(time.Second).String()
}

// OrderWithCustomer is the admin listing row, joined with the username.
type OrderWithCustomer struct {
	Order
	Customer string
}

// Receipt is the read-only projection of an order joined with its user
// and service, including the QR artifact rendered at submission.
type Receipt struct {
	OrderID       int64
	UserID        int64
	Customer      string
	Service       string
	Weight        float64
	TotalPrice    float64
	OrderDate     time.Time
	PickupDate    time.Time
	Status        Status
	PaymentStatus PaymentStatus
	PaymentMethod PaymentMethod
	Artifact      []byte
}

// PaymentInstructions is shown to the customer during the online
// transfer flow.
type PaymentInstructions struct {
	OrderID   int64
	Bank      string
	Account   string
	Amount    float64
	Reference string
	QR        []byte
}
