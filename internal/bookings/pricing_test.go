package bookings

import (
	"errors"
	"testing"

	"showbook/internal/showtimes"
	"showbook/internal/venues"
)

func testLayout() venues.SeatLayout {
	return venues.SeatLayout{
		{Row: "A", Seats: 5, SeatType: "Premium"},
		{Row: "B", Seats: 10, SeatType: venues.SeatTypeNormal},
	}
}

func TestResolveOrderTotal(t *testing.T) {
	tiers := showtimes.PriceTiers{"Normal": 200, "Premium": 350.50}

	lines, total, err := ResolveOrderTotal(testLayout(), tiers, []string{"A1", "B3", "B4"})
	if err != nil {
		t.Fatalf("ResolveOrderTotal returned error: %v", err)
	}
	if total != 750.50 {
		t.Errorf("total = %v, want 750.50", total)
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0].SeatType != "Premium" || lines[0].Price != 350.50 {
		t.Errorf("A1 line = %+v, want Premium at 350.50", lines[0])
	}
	if lines[1].SeatType != venues.SeatTypeNormal || lines[1].Price != 200 {
		t.Errorf("B3 line = %+v, want Normal at 200", lines[1])
	}
}

func TestResolveOrderTotalTierFallback(t *testing.T) {
	// Premium has no tier entry, so those seats use the base price
	tiers := showtimes.PriceTiers{"Normal": 150}

	_, total, err := ResolveOrderTotal(testLayout(), tiers, []string{"A1", "B1"})
	if err != nil {
		t.Fatalf("ResolveOrderTotal returned error: %v", err)
	}
	if total != 300 {
		t.Errorf("total = %v, want 300 with fallback pricing", total)
	}
}

func TestResolveOrderTotalUnknownSeat(t *testing.T) {
	tiers := showtimes.PriceTiers{"Normal": 200}

	_, _, err := ResolveOrderTotal(testLayout(), tiers, []string{"Z99"})
	var unknownSeat *UnknownSeatError
	if !errors.As(err, &unknownSeat) {
		t.Fatalf("expected UnknownSeatError, got %v", err)
	}
	if unknownSeat.SeatID != "Z99" {
		t.Errorf("SeatID = %q, want Z99", unknownSeat.SeatID)
	}

	// Seat number beyond the row's seat count is also unknown
	if _, _, err := ResolveOrderTotal(testLayout(), tiers, []string{"A6"}); err == nil {
		t.Error("expected error for seat beyond row capacity")
	}
}

func TestResolveOrderTotalDuplicateSeat(t *testing.T) {
	tiers := showtimes.PriceTiers{"Normal": 200}

	if _, _, err := ResolveOrderTotal(testLayout(), tiers, []string{"B1", "B1"}); err == nil {
		t.Error("expected error for duplicate seat in request")
	}
}
