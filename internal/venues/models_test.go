package venues

import "testing"

func testLayout() SeatLayout {
	return SeatLayout{
		{Row: "A", Seats: 5, SeatType: "Recliner"},
		{Row: "B", Seats: 10, SeatType: "Premium"},
		{Row: "C", Seats: 12},
	}
}

func TestSeatLayoutSeatType(t *testing.T) {
	layout := testLayout()

	tests := []struct {
		seatID string
		want   string
	}{
		{"A1", "Recliner"},
		{"a3", "Recliner"},
		{"B10", "Premium"},
		{"C7", SeatTypeNormal}, // row without an explicit type
		{"Z1", SeatTypeNormal}, // unknown row
	}

	for _, tt := range tests {
		if got := layout.SeatType(tt.seatID); got != tt.want {
			t.Errorf("SeatType(%q) = %q, want %q", tt.seatID, got, tt.want)
		}
	}
}

func TestSeatLayoutContains(t *testing.T) {
	layout := testLayout()

	tests := []struct {
		seatID string
		want   bool
	}{
		{"A1", true},
		{"A5", true},
		{"A6", false}, // beyond row capacity
		{"b10", true},
		{"B11", false},
		{"Z1", false},
		{"A0", false},
		{"A", false},  // no seat number
		{"12", false}, // no row
		{"A1B", false},
	}

	for _, tt := range tests {
		if got := layout.Contains(tt.seatID); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.seatID, got, tt.want)
		}
	}
}

func TestSeatLayoutTotalSeats(t *testing.T) {
	if got := testLayout().TotalSeats(); got != 27 {
		t.Errorf("TotalSeats() = %d, want 27", got)
	}

	if got := (SeatLayout{}).TotalSeats(); got != 0 {
		t.Errorf("TotalSeats() on empty layout = %d, want 0", got)
	}
}
