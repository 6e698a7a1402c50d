package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds indexes AutoMigrate does not express.
func MigrateConstraints(db *gorm.DB) error {
	// A screen cannot host two active showtimes at the same instant;
	// the overlap check queries by screen and time range.
	err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_showtimes_screen_window
		ON showtimes (screen_id, start_time, end_time);
	`).Error
	if err != nil {
		return err
	}

	// Booking history lookups filter by user and status
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_user_status
		ON bookings (user_id, status);
	`).Error
	if err != nil {
		return err
	}

	// Check-in resolves bookings by reference code; the unique index from
	// the model tag covers lookups, this covers the showtime manifest.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_showtime
		ON bookings (showtime_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
