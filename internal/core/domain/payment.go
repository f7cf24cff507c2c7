package domain

import "time"

// PaymentStatus enumerates the states of a registration payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Payment records a registration fee paid by a user for a race.
type Payment struct {
	ID            string
	UserID        string
	RaceID        string
	Amount        float64
	Currency      string
	Status        PaymentStatus
	TransactionID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
