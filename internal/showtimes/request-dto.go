package showtimes

import (
	"time"

	"github.com/google/uuid"
)

// CreateShowtimeRequest represents showtime creation payload.
// Exactly one of movie_id and event_id must be provided.
type CreateShowtimeRequest struct {
	ScreenID   uuid.UUID  `json:"screen_id" binding:"required"`
	MovieID    *uuid.UUID `json:"movie_id,omitempty"`
	EventID    *uuid.UUID `json:"event_id,omitempty"`
	StartTime  time.Time  `json:"start_time" binding:"required"`
	PriceTiers PriceTiers `json:"price_tiers" binding:"required"`
}
