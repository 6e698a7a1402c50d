package showtimes

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PriceTiers maps a seat type name to its ticket price, stored as JSONB.
type PriceTiers map[string]float64

// Value implements driver.Valuer for PriceTiers
func (p PriceTiers) Value() (driver.Value, error) {
	if p == nil {
		return json.Marshal(PriceTiers{})
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for PriceTiers
func (p *PriceTiers) Scan(value interface{}) error {
	if value == nil {
		*p = PriceTiers{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan PriceTiers: expected []byte")
	}
	return json.Unmarshal(bytes, p)
}

// PriceFor resolves the price for a seat type. Unknown types fall back to
// the base tier, and a missing base tier means the seat is free.
func (p PriceTiers) PriceFor(seatType string) float64 {
	if price, ok := p[seatType]; ok {
		return price
	}
	if price, ok := p["Normal"]; ok {
		return price
	}
	return 0
}

// SeatList is a set of occupied seat identifiers ("A1", "B12"), stored as JSONB.
type SeatList []string

// Value implements driver.Valuer for SeatList
func (s SeatList) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal(SeatList{})
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for SeatList
func (s *SeatList) Scan(value interface{}) error {
	if value == nil {
		*s = SeatList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan SeatList: expected []byte")
	}
	return json.Unmarshal(bytes, s)
}

// Contains reports whether the seat is in the list
func (s SeatList) Contains(seatID string) bool {
	for _, id := range s {
		if id == seatID {
			return true
		}
	}
	return false
}

// Overlap returns the seats from the candidate set already present in the list
func (s SeatList) Overlap(seats []string) []string {
	occupied := make(map[string]struct{}, len(s))
	for _, id := range s {
		occupied[id] = struct{}{}
	}

	var conflicts []string
	for _, id := range seats {
		if _, taken := occupied[id]; taken {
			conflicts = append(conflicts, id)
		}
	}
	return conflicts
}

// Add appends seats that are not already present
func (s SeatList) Add(seats []string) SeatList {
	result := s
	for _, id := range seats {
		if !result.Contains(id) {
			result = append(result, id)
		}
	}
	return result
}

// Remove drops the given seats; unknown seats are ignored
func (s SeatList) Remove(seats []string) SeatList {
	drop := make(map[string]struct{}, len(seats))
	for _, id := range seats {
		drop[id] = struct{}{}
	}

	result := make(SeatList, 0, len(s))
	for _, id := range s {
		if _, gone := drop[id]; !gone {
			result = append(result, id)
		}
	}
	return result
}

// Showtime is a scheduled screening of a movie or an event on a screen.
// Exactly one of MovieID and EventID is set. OccupiedSeats is the seat
// ledger: a seat present there belongs to a pending or confirmed booking.
type Showtime struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ScreenID      uuid.UUID  `json:"screen_id" gorm:"type:uuid;not null;index"`
	VenueID       uuid.UUID  `json:"venue_id" gorm:"type:uuid;not null;index"`
	MovieID       *uuid.UUID `json:"movie_id,omitempty" gorm:"type:uuid;index"`
	EventID       *uuid.UUID `json:"event_id,omitempty" gorm:"type:uuid;index"`
	StartTime     time.Time  `json:"start_time" gorm:"not null;index"`
	EndTime       time.Time  `json:"end_time" gorm:"not null"`
	PriceTiers    PriceTiers `json:"price_tiers" gorm:"type:jsonb;not null"`
	OccupiedSeats SeatList   `json:"occupied_seats" gorm:"type:jsonb;not null;default:'[]'"`
	IsActive      bool       `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName sets the table name for Showtime
func (Showtime) TableName() string {
	return "showtimes"
}

// SeatConflictError reports which requested seats were already taken.
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats already occupied: %v", e.Seats)
}
