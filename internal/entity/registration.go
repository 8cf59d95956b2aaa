package entity

import (
	"time"
)

type RegistrationStatus string

const (
	// RegistrationStatusCompleted is the only status this service writes.
	// Other values may exist in the table from administrative tooling.
	RegistrationStatusCompleted RegistrationStatus = "completed"
)

type Registration struct {
	ID        int64              `json:"id" db:"id"`
	EventID   int64              `json:"event_id" db:"event_id"`
	UserID    string             `json:"user_id,omitempty" db:"user_id"`
	PaymentID string             `json:"payment_id" db:"payment_id"`
	Status    RegistrationStatus `json:"status" db:"status"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
}

// Registrant is the person checking out. Collected on the registration
// form and passed through to the payment provider as prefill.
type Registrant struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
