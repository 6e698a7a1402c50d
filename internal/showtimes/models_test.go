package showtimes

import (
	"reflect"
	"testing"

	"showbook/internal/venues"
)

func TestSeatListOverlap(t *testing.T) {
	occupied := SeatList{"A1", "A2", "B5"}

	tests := []struct {
		name  string
		seats []string
		want  []string
	}{
		{"no conflict", []string{"C1", "C2"}, nil},
		{"one conflict", []string{"A1", "C1"}, []string{"A1"}},
		{"all conflict", []string{"A1", "A2", "B5"}, []string{"A1", "A2", "B5"}},
		{"empty request", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := occupied.Overlap(tt.seats)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Overlap(%v) = %v, want %v", tt.seats, got, tt.want)
			}
		})
	}
}

func TestSeatListAddRemove(t *testing.T) {
	ledger := SeatList{"A1"}

	ledger = ledger.Add([]string{"A2", "A1", "B3"})
	want := SeatList{"A1", "A2", "B3"}
	if !reflect.DeepEqual(ledger, want) {
		t.Fatalf("Add = %v, want %v", ledger, want)
	}

	ledger = ledger.Remove([]string{"A1", "Z9"})
	want = SeatList{"A2", "B3"}
	if !reflect.DeepEqual(ledger, want) {
		t.Fatalf("Remove = %v, want %v", ledger, want)
	}

	// Removing from an empty ledger is a no-op
	empty := SeatList{}.Remove([]string{"A1"})
	if len(empty) != 0 {
		t.Errorf("Remove on empty ledger = %v, want empty", empty)
	}
}

func TestPriceTiersPriceFor(t *testing.T) {
	tiers := PriceTiers{"Normal": 200, "Premium": 350}

	if got := tiers.PriceFor("Premium"); got != 350 {
		t.Errorf("PriceFor(Premium) = %v, want 350", got)
	}
	if got := tiers.PriceFor("Normal"); got != 200 {
		t.Errorf("PriceFor(Normal) = %v, want 200", got)
	}
	// Unknown seat type falls back to the base tier
	if got := tiers.PriceFor("Recliner"); got != 200 {
		t.Errorf("PriceFor(Recliner) = %v, want 200 fallback", got)
	}
	// No base tier means free
	if got := (PriceTiers{}).PriceFor("Normal"); got != 0 {
		t.Errorf("PriceFor on empty tiers = %v, want 0", got)
	}
}

func TestValidatePriceTiers(t *testing.T) {
	layout := venues.SeatLayout{
		{Row: "A", Seats: 10, SeatType: "Premium"},
		{Row: "B", Seats: 10, SeatType: venues.SeatTypeNormal},
	}

	if err := validatePriceTiers(PriceTiers{"Normal": 200, "Premium": 350}, layout); err != nil {
		t.Errorf("valid tiers rejected: %v", err)
	}

	if err := validatePriceTiers(PriceTiers{"Premium": 350}, layout); err != ErrMissingBaseTier {
		t.Errorf("missing base tier: got %v, want ErrMissingBaseTier", err)
	}

	if err := validatePriceTiers(PriceTiers{"Normal": 200, "Recliner": 500}, layout); err != ErrUnknownSeatType {
		t.Errorf("unknown tier: got %v, want ErrUnknownSeatType", err)
	}
}

func TestSeatConflictError(t *testing.T) {
	err := &SeatConflictError{Seats: []string{"A1", "B2"}}
	if err.Error() == "" {
		t.Fatal("expected non-empty error message")
	}
}
