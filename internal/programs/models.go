package programs

import (
	"time"

	"github.com/google/uuid"
)

// Movie is a film that can be scheduled on a screen. Showtime end times
// derive from the duration plus a fixed buffer.
type Movie struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title           string    `json:"title" gorm:"not null;index"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes" gorm:"not null"`
	Language        string    `json:"language"`
	Genre           string    `json:"genre"`
	ReleaseDate     time.Time `json:"release_date"`
	IsActive        bool      `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Event is a live program (concert, comedy show) with a fixed end time.
type Event struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string    `json:"title" gorm:"not null;index"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	EndsAt      time.Time `json:"ends_at" gorm:"not null"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Duration returns the movie runtime as a time.Duration
func (m *Movie) Duration() time.Duration {
	return time.Duration(m.DurationMinutes) * time.Minute
}

// TableName sets the table name for Movie
func (Movie) TableName() string {
	return "movies"
}

// TableName sets the table name for Event
func (Event) TableName() string {
	return "events"
}

// CreateMovieRequest represents movie creation payload
type CreateMovieRequest struct {
	Title           string `json:"title" binding:"required,min=1,max=300"`
	Description     string `json:"description" binding:"max=2000"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1,max=600"`
	Language        string `json:"language" binding:"max=50"`
	Genre           string `json:"genre" binding:"max=100"`
	ReleaseDate     string `json:"release_date,omitempty"`
}

// CreateEventRequest represents event creation payload
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,min=1,max=300"`
	Description string    `json:"description" binding:"max=2000"`
	Category    string    `json:"category" binding:"max=100"`
	EndsAt      time.Time `json:"ends_at" binding:"required"`
}
