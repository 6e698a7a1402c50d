package database

import (
	"showbook/internal/bookings"
	"showbook/internal/programs"
	"showbook/internal/promos"
	"showbook/internal/showtimes"
	"showbook/internal/users"
	"showbook/internal/venues"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&venues.Venue{},
		&venues.Screen{},
		&programs.Movie{},
		&programs.Event{},
		&showtimes.Showtime{},
		&promos.PromoCode{},
		&bookings.Booking{},
	)
}
