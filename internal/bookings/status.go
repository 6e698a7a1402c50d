package bookings

type Status string

const (
	StatusPaymentPending Status = "PAYMENT_PENDING"
	StatusConfirmed      Status = "CONFIRMED"
	StatusPaymentFailed  Status = "PAYMENT_FAILED"
	StatusCancelled      Status = "CANCELLED"
	StatusCheckedIn      Status = "CHECKED_IN"
)

// IsValid checks if the booking status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPaymentPending, StatusConfirmed, StatusPaymentFailed, StatusCancelled, StatusCheckedIn:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo reports whether the status change is allowed.
// PAYMENT_FAILED and CANCELLED are terminal. A checked-in booking can
// still be cancelled, but only an admin revocation takes that path.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPaymentPending:
		return next == StatusConfirmed || next == StatusPaymentFailed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCheckedIn || next == StatusCancelled
	case StatusCheckedIn:
		return next == StatusCancelled
	}
	return false
}

// CanBeCancelled checks if a booking with this status can be cancelled
func (s Status) CanBeCancelled() bool {
	return s.CanTransitionTo(StatusCancelled)
}

// HoldsSeats reports whether seats stay in the ledger for this status.
// Failed payments keep their seats until support releases them.
func (s Status) HoldsSeats() bool {
	return s != StatusCancelled
}

// IsActive checks if the booking still entitles entry
func (s Status) IsActive() bool {
	return s == StatusConfirmed || s == StatusCheckedIn
}
