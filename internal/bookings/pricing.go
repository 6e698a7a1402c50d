package bookings

import (
	"fmt"
	"math"

	"showbook/internal/showtimes"
	"showbook/internal/venues"
)

// SeatPrice is one seat's resolved price line on an order.
type SeatPrice struct {
	SeatID   string  `json:"seat_id"`
	SeatType string  `json:"seat_type"`
	Price    float64 `json:"price"`
}

// UnknownSeatError reports a requested seat that does not exist in the
// screen layout.
type UnknownSeatError struct {
	SeatID string
}

func (e *UnknownSeatError) Error() string {
	return fmt.Sprintf("seat %s does not exist in the screen layout", e.SeatID)
}

// ResolveOrderTotal prices each requested seat against the screen layout
// and the showtime's tiers, returning the per-seat breakdown and the
// order total rounded to two decimals. Duplicate seats in the request
// are rejected.
func ResolveOrderTotal(layout venues.SeatLayout, tiers showtimes.PriceTiers, seats []string) ([]SeatPrice, float64, error) {
	seen := make(map[string]struct{}, len(seats))
	lines := make([]SeatPrice, 0, len(seats))
	total := 0.0

	for _, seatID := range seats {
		if _, dup := seen[seatID]; dup {
			return nil, 0, fmt.Errorf("seat %s requested more than once", seatID)
		}
		seen[seatID] = struct{}{}

		if !layout.Contains(seatID) {
			return nil, 0, &UnknownSeatError{SeatID: seatID}
		}

		seatType := layout.SeatType(seatID)
		price := tiers.PriceFor(seatType)
		lines = append(lines, SeatPrice{SeatID: seatID, SeatType: seatType, Price: price})
		total += price
	}

	return lines, roundMoney(total), nil
}

// roundMoney rounds half-up to two decimal places
func roundMoney(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
