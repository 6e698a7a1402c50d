package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTL values for the showbook application.
// Pattern: showbook:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Static Data (Long TTL: rarely changes)
const (
	TTL_STATIC_LONG   = 24 * time.Hour
	TTL_STATIC_MEDIUM = 12 * time.Hour
	TTL_STATIC_SHORT  = 6 * time.Hour
)

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_LONG   = 4 * time.Hour    // venue/screen layouts
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // program details
	TTL_SEMI_STATIC_SHORT  = 1 * time.Hour    // catalog listings
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // upcoming showtimes
)

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_MEDIUM = 10 * time.Minute // user bookings
	TTL_DYNAMIC_SHORT  = 5 * time.Minute  // showtime listings per screen
)

// Highly Dynamic (Micro TTL: real-time sensitive)
const (
	TTL_REALTIME_SHORT = 30 * time.Second // live seat availability
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "showbook"
)

// ================== VENUES MODULE ==================

const (
	CACHE_KEY_VENUES_LIST   = CACHE_PREFIX + ":venues:list"           // + :city:X
	CACHE_KEY_VENUE_DETAIL  = CACHE_PREFIX + ":venues:detail:uuid:"   // + venue-id
	CACHE_KEY_SCREEN_LAYOUT = CACHE_PREFIX + ":venues:layout:screen:" // + screen-id
)

const (
	TTL_VENUES_LIST   = TTL_SEMI_STATIC_SHORT
	TTL_VENUE_DETAIL  = TTL_SEMI_STATIC_MEDIUM
	TTL_SCREEN_LAYOUT = TTL_SEMI_STATIC_LONG
)

// ================== PROGRAMS MODULE ==================

const (
	CACHE_KEY_MOVIES_LIST  = CACHE_PREFIX + ":programs:movies:list"
	CACHE_KEY_EVENTS_LIST  = CACHE_PREFIX + ":programs:events:list"
	CACHE_KEY_MOVIE_DETAIL = CACHE_PREFIX + ":programs:movie:uuid:" // + movie-id
	CACHE_KEY_EVENT_DETAIL = CACHE_PREFIX + ":programs:event:uuid:" // + event-id
)

const (
	TTL_PROGRAM_LIST   = TTL_SEMI_STATIC_SHORT
	TTL_PROGRAM_DETAIL = TTL_SEMI_STATIC_MEDIUM
)

// ================== SHOWTIMES MODULE ==================

const (
	CACHE_KEY_SHOWTIMES_BY_SCREEN = CACHE_PREFIX + ":showtimes:screen:uuid:"       // + screen-id
	CACHE_KEY_SHOWTIME_DETAIL     = CACHE_PREFIX + ":showtimes:detail:uuid:"       // + showtime-id
	CACHE_KEY_SHOWTIME_SEATS      = CACHE_PREFIX + ":showtimes:availability:uuid:" // + showtime-id
)

const (
	TTL_SHOWTIMES_BY_SCREEN = TTL_DYNAMIC_SHORT
	TTL_SHOWTIME_DETAIL     = TTL_SEMI_STATIC_QUICK
	TTL_SHOWTIME_SEATS      = TTL_REALTIME_SHORT
)

// ================== BOOKINGS MODULE ==================

const (
	CACHE_KEY_USER_BOOKINGS  = CACHE_PREFIX + ":bookings:user:uuid:"   // + user-id:page:X
	CACHE_KEY_BOOKING_DETAIL = CACHE_PREFIX + ":bookings:detail:uuid:" // + booking-id
)

const (
	TTL_USER_BOOKINGS  = TTL_DYNAMIC_MEDIUM
	TTL_BOOKING_DETAIL = TTL_DYNAMIC_MEDIUM
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_VENUES_ALL    = CACHE_PREFIX + ":venues:*"
	PATTERN_INVALIDATE_PROGRAMS_ALL  = CACHE_PREFIX + ":programs:*"
	PATTERN_INVALIDATE_SHOWTIMES_ALL = CACHE_PREFIX + ":showtimes:*"
)

// ================== HELPER FUNCTIONS ==================

func BuildScreenLayoutKey(screenID string) string {
	return CACHE_KEY_SCREEN_LAYOUT + screenID
}

func BuildShowtimeSeatsKey(showtimeID string) string {
	return CACHE_KEY_SHOWTIME_SEATS + showtimeID
}

func BuildShowtimeDetailKey(showtimeID string) string {
	return CACHE_KEY_SHOWTIME_DETAIL + showtimeID
}

func BuildShowtimesByScreenKey(screenID string) string {
	return CACHE_KEY_SHOWTIMES_BY_SCREEN + screenID
}

func BuildUserBookingsKey(userID string, page int) string {
	return CACHE_KEY_USER_BOOKINGS + userID + ":page:" + fmt.Sprintf("%d", page)
}

func BuildVenueDetailKey(venueID string) string {
	return CACHE_KEY_VENUE_DETAIL + venueID
}

func BuildMovieDetailKey(movieID string) string {
	return CACHE_KEY_MOVIE_DETAIL + movieID
}

func BuildEventDetailKey(eventID string) string {
	return CACHE_KEY_EVENT_DETAIL + eventID
}
