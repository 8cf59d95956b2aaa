package entity

import (
	"time"
)

// CheckoutRequest is what the registration workflow hands the payment
// gateway when opening checkout for an event.
type CheckoutRequest struct {
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Receipt     string `json:"receipt"`
	Description string `json:"description"`
	Registrant  Registrant
}

// CheckoutOrder carries everything the browser widget needs to present
// the provider's payment form for a created order.
type CheckoutOrder struct {
	OrderID     string     `json:"order_id"`
	Key         string     `json:"key"`
	Amount      int64      `json:"amount"`
	Currency    string     `json:"currency"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ThemeColor  string     `json:"theme_color"`
	Prefill     Registrant `json:"prefill"`
}

type CheckoutState string

const (
	// CheckoutStatePresented means the widget was opened and the outcome
	// is unknown. Sessions stay in this state forever if the user never
	// completes or the provider never calls back.
	CheckoutStatePresented CheckoutState = "presented"

	// CheckoutStateUnrecorded means the provider confirmed the payment
	// but the registration row could not be written. Money has moved;
	// support reconciles these by hand.
	CheckoutStateUnrecorded CheckoutState = "unrecorded"
)

// CheckoutSession tracks one presented checkout from order creation until
// either a registration row is written (session deleted) or the write
// fails (session kept as unrecorded).
type CheckoutSession struct {
	OrderID    string        `json:"order_id"`
	EventID    int64         `json:"event_id"`
	EventTitle string        `json:"event_title"`
	Amount     int64         `json:"amount"`
	Currency   string        `json:"currency"`
	Registrant Registrant    `json:"registrant"`
	State      CheckoutState `json:"state"`
	PaymentID  string        `json:"payment_id,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}
