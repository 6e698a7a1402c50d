package venues

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SeatTypeNormal is the implicit seat type for rows without an explicit one.
const SeatTypeNormal = "Normal"

// RowLayout assigns a seat type to one row of a screen.
type RowLayout struct {
	Row      string `json:"row"`
	Seats    int    `json:"seats"`
	SeatType string `json:"seat_type"`
}

// SeatLayout is the full row layout of a screen, stored as JSONB.
type SeatLayout []RowLayout

func (l SeatLayout) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *SeatLayout) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return errors.New("seat layout: unsupported scan type")
		}
	}
	return json.Unmarshal(bytes, l)
}

// SeatType resolves the seat type for a seat identifier like "B7".
// Seats in rows without an explicit layout entry are Normal.
func (l SeatLayout) SeatType(seatID string) string {
	row := seatRow(seatID)
	for _, r := range l {
		if strings.EqualFold(r.Row, row) {
			if r.SeatType == "" {
				return SeatTypeNormal
			}
			return r.SeatType
		}
	}
	return SeatTypeNormal
}

// Contains reports whether the seat identifier is valid for this layout.
func (l SeatLayout) Contains(seatID string) bool {
	row := seatRow(seatID)
	num := seatNumber(seatID)
	if row == "" || num <= 0 {
		return false
	}
	for _, r := range l {
		if strings.EqualFold(r.Row, row) {
			return num <= r.Seats
		}
	}
	return false
}

// TotalSeats is the screen capacity implied by the layout.
func (l SeatLayout) TotalSeats() int {
	total := 0
	for _, r := range l {
		total += r.Seats
	}
	return total
}

// seatRow extracts the leading letters of a seat identifier ("AB12" -> "AB").
func seatRow(seatID string) string {
	for i, c := range seatID {
		if c >= '0' && c <= '9' {
			return strings.ToUpper(seatID[:i])
		}
	}
	return strings.ToUpper(seatID)
}

// seatNumber extracts the trailing number of a seat identifier ("AB12" -> 12).
func seatNumber(seatID string) int {
	num := 0
	seen := false
	for _, c := range seatID {
		if c >= '0' && c <= '9' {
			num = num*10 + int(c-'0')
			seen = true
		} else if seen {
			return 0
		}
	}
	if !seen {
		return 0
	}
	return num
}

// Venue is a cinema or event location managed by an organizer.
type Venue struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	City        string    `json:"city" gorm:"index;not null"`
	Address     string    `json:"address"`
	OrganizerID uuid.UUID `json:"organizer_id" gorm:"type:uuid;index;not null"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Screens []Screen `json:"screens,omitempty" gorm:"foreignKey:VenueID;constraint:OnDelete:CASCADE;"`
}

// Screen is one auditorium of a venue with a fixed seat layout.
type Screen struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	VenueID    uuid.UUID  `json:"venue_id" gorm:"type:uuid;index;not null"`
	Name       string     `json:"name" gorm:"not null"`
	Layout     SeatLayout `json:"layout" gorm:"type:jsonb;not null"`
	TotalSeats int        `json:"total_seats" gorm:"not null"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName sets the table name for Venue
func (Venue) TableName() string {
	return "venues"
}

// TableName sets the table name for Screen
func (Screen) TableName() string {
	return "screens"
}
