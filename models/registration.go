package models

import "time"

type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationPending, RegistrationApproved, RegistrationRejected:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// Registration binds a team (or a lone user, for solo tournaments) to a
// tournament. TeamID is nil for solo entries. At most one registration
// exists per (tournament, team) pair, and per (tournament, user) for solo.
type Registration struct {
	ID            int                `json:"id"`
	TournamentID  int                `json:"tournament_id"`
	TeamID        *int               `json:"team_id,omitempty"`
	UserID        int                `json:"user_id"`
	Slot          *int               `json:"slot,omitempty"`
	Status        RegistrationStatus `json:"status"`
	PaymentStatus PaymentStatus      `json:"payment_status"`
	CreatedAt     time.Time          `json:"created_at"`
}

type RegistrationUpdate struct {
	Slot          *int                `json:"slot,omitempty"`
	Status        *RegistrationStatus `json:"status,omitempty"`
	PaymentStatus *PaymentStatus      `json:"payment_status,omitempty"`
}
