package bookings

import "testing"

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusPaymentPending, StatusConfirmed, true},
		{StatusPaymentPending, StatusPaymentFailed, true},
		{StatusPaymentPending, StatusCancelled, true},
		{StatusPaymentPending, StatusCheckedIn, false},
		{StatusConfirmed, StatusCheckedIn, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPaymentPending, false},
		{StatusConfirmed, StatusPaymentFailed, false},
		{StatusPaymentFailed, StatusConfirmed, false},
		{StatusPaymentFailed, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCheckedIn, StatusCancelled, true},
		{StatusCheckedIn, StatusConfirmed, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusPaymentPending, StatusConfirmed, StatusPaymentFailed, StatusCancelled, StatusCheckedIn} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("REFUNDED").IsValid() {
		t.Error("unknown status should be invalid")
	}
}

func TestHoldsSeats(t *testing.T) {
	if StatusCancelled.HoldsSeats() {
		t.Error("cancelled bookings must release their seats")
	}
	for _, s := range []Status{StatusPaymentPending, StatusConfirmed, StatusPaymentFailed, StatusCheckedIn} {
		if !s.HoldsSeats() {
			t.Errorf("%s should keep its seats in the ledger", s)
		}
	}
}
