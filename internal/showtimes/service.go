package showtimes

import (
	"context"
	"errors"
	"strconv"
	"time"

	"showbook/internal/programs"
	"showbook/internal/shared/config"
	"showbook/internal/shared/constants"
	"showbook/internal/venues"
	"showbook/pkg/cache"

	"github.com/google/uuid"
)

var (
	ErrProgramRequired  = errors.New("exactly one of movie_id and event_id must be set")
	ErrMissingBaseTier  = errors.New("price tiers must include the Normal tier")
	ErrUnknownSeatType  = errors.New("price tier references a seat type not in the screen layout")
	ErrStartInPast      = errors.New("start time must be in the future")
	ErrNotScreenOwner   = errors.New("user does not manage this venue")
	ErrEventAlreadyOver = errors.New("event end time is before the showtime start")
)

// SeatAvailability describes the bookable state of one showtime.
type SeatAvailability struct {
	ShowtimeID     uuid.UUID         `json:"showtime_id"`
	StartTime      time.Time         `json:"start_time"`
	PriceTiers     PriceTiers        `json:"price_tiers"`
	TotalSeats     int               `json:"total_seats"`
	OccupiedSeats  SeatList          `json:"occupied_seats"`
	AvailableSeats []AvailableSeat   `json:"available_seats"`
	Layout         venues.SeatLayout `json:"layout"`
}

// AvailableSeat is one free seat with its resolved price.
type AvailableSeat struct {
	SeatID   string  `json:"seat_id"`
	SeatType string  `json:"seat_type"`
	Price    float64 `json:"price"`
}

type Service interface {
	CreateShowtime(ctx context.Context, organizerID uuid.UUID, req CreateShowtimeRequest) (*Showtime, error)
	GetShowtime(ctx context.Context, id uuid.UUID) (*Showtime, error)
	GetAvailability(ctx context.Context, id uuid.UUID) (*SeatAvailability, error)
	ListByScreen(ctx context.Context, screenID uuid.UUID) ([]Showtime, error)
	ListByVenue(ctx context.Context, venueID uuid.UUID) ([]Showtime, error)
	DeactivateShowtime(ctx context.Context, organizerID uuid.UUID, isAdmin bool, id uuid.UUID) error

	// InvalidateAvailability drops the cached seat map after the ledger
	// changes. Called by the booking flow on claim and release.
	InvalidateAvailability(ctx context.Context, id uuid.UUID)
}

type service struct {
	repo     Repository
	venues   venues.Service
	programs programs.Repository
	cache    cache.Service
	cfg      *config.Config
}

func NewService(repo Repository, venueService venues.Service, programRepo programs.Repository, cacheService cache.Service, cfg *config.Config) Service {
	return &service{
		repo:     repo,
		venues:   venueService,
		programs: programRepo,
		cache:    cacheService,
		cfg:      cfg,
	}
}

func (s *service) CreateShowtime(ctx context.Context, organizerID uuid.UUID, req CreateShowtimeRequest) (*Showtime, error) {
	if (req.MovieID == nil) == (req.EventID == nil) {
		return nil, ErrProgramRequired
	}
	if !req.StartTime.After(time.Now()) {
		return nil, ErrStartInPast
	}

	screen, err := s.venues.GetScreen(ctx, req.ScreenID)
	if err != nil {
		return nil, err
	}

	owned, err := s.venues.IsVenueOwnedBy(ctx, screen.VenueID, organizerID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrNotScreenOwner
	}

	if err := validatePriceTiers(req.PriceTiers, screen.Layout); err != nil {
		return nil, err
	}

	endTime, err := s.resolveEndTime(ctx, req)
	if err != nil {
		return nil, err
	}

	overlaps, err := s.repo.HasOverlap(ctx, req.ScreenID, req.StartTime, endTime)
	if err != nil {
		return nil, err
	}
	if overlaps {
		return nil, ErrScheduleOverlap
	}

	showtime := &Showtime{
		ScreenID:      req.ScreenID,
		VenueID:       screen.VenueID,
		MovieID:       req.MovieID,
		EventID:       req.EventID,
		StartTime:     req.StartTime,
		EndTime:       endTime,
		PriceTiers:    req.PriceTiers,
		OccupiedSeats: SeatList{},
		IsActive:      true,
	}

	if err := s.repo.Create(ctx, showtime); err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, constants.BuildShowtimesByScreenKey(req.ScreenID.String()))
	return showtime, nil
}

// resolveEndTime derives the showtime end: movie runtime plus a cleanup
// buffer, or the event's own end time.
func (s *service) resolveEndTime(ctx context.Context, req CreateShowtimeRequest) (time.Time, error) {
	if req.MovieID != nil {
		movie, err := s.programs.GetMovieByID(ctx, *req.MovieID)
		if err != nil {
			return time.Time{}, err
		}
		return req.StartTime.Add(movie.Duration() + s.cfg.Booking.ShowtimeBuffer), nil
	}

	event, err := s.programs.GetEventByID(ctx, *req.EventID)
	if err != nil {
		return time.Time{}, err
	}
	if !event.EndsAt.After(req.StartTime) {
		return time.Time{}, ErrEventAlreadyOver
	}
	return event.EndsAt, nil
}

func validatePriceTiers(tiers PriceTiers, layout venues.SeatLayout) error {
	if _, ok := tiers[venues.SeatTypeNormal]; !ok {
		return ErrMissingBaseTier
	}

	layoutTypes := make(map[string]struct{})
	for _, row := range layout {
		layoutTypes[row.SeatType] = struct{}{}
	}

	for tier := range tiers {
		if _, ok := layoutTypes[tier]; !ok && tier != venues.SeatTypeNormal {
			return ErrUnknownSeatType
		}
	}
	return nil
}

func (s *service) GetShowtime(ctx context.Context, id uuid.UUID) (*Showtime, error) {
	var showtime Showtime
	cacheKey := constants.BuildShowtimeDetailKey(id.String())

	err := s.cache.GetOrSet(ctx, cacheKey, constants.TTL_SHOWTIME_DETAIL, func() (interface{}, error) {
		return s.repo.GetByID(ctx, id)
	}, &showtime)
	if err != nil {
		return nil, err
	}

	return &showtime, nil
}

func (s *service) GetAvailability(ctx context.Context, id uuid.UUID) (*SeatAvailability, error) {
	var availability SeatAvailability
	cacheKey := constants.BuildShowtimeSeatsKey(id.String())

	err := s.cache.GetOrSet(ctx, cacheKey, constants.TTL_SHOWTIME_SEATS, func() (interface{}, error) {
		return s.buildAvailability(ctx, id)
	}, &availability)
	if err != nil {
		return nil, err
	}

	return &availability, nil
}

func (s *service) buildAvailability(ctx context.Context, id uuid.UUID) (*SeatAvailability, error) {
	showtime, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	layout, err := s.venues.GetScreenLayout(ctx, showtime.ScreenID)
	if err != nil {
		return nil, err
	}

	availability := &SeatAvailability{
		ShowtimeID:    showtime.ID,
		StartTime:     showtime.StartTime,
		PriceTiers:    showtime.PriceTiers,
		TotalSeats:    layout.TotalSeats(),
		OccupiedSeats: showtime.OccupiedSeats,
		Layout:        layout,
	}

	for _, row := range layout {
		for n := 1; n <= row.Seats; n++ {
			seatID := row.Row + strconv.Itoa(n)
			if showtime.OccupiedSeats.Contains(seatID) {
				continue
			}
			availability.AvailableSeats = append(availability.AvailableSeats, AvailableSeat{
				SeatID:   seatID,
				SeatType: row.SeatType,
				Price:    showtime.PriceTiers.PriceFor(row.SeatType),
			})
		}
	}

	return availability, nil
}

func (s *service) ListByScreen(ctx context.Context, screenID uuid.UUID) ([]Showtime, error) {
	var showtimes []Showtime
	cacheKey := constants.BuildShowtimesByScreenKey(screenID.String())

	err := s.cache.GetOrSet(ctx, cacheKey, constants.TTL_SHOWTIMES_BY_SCREEN, func() (interface{}, error) {
		return s.repo.ListByScreen(ctx, screenID, true)
	}, &showtimes)
	if err != nil {
		return nil, err
	}

	return showtimes, nil
}

func (s *service) ListByVenue(ctx context.Context, venueID uuid.UUID) ([]Showtime, error) {
	return s.repo.ListByVenue(ctx, venueID)
}

func (s *service) DeactivateShowtime(ctx context.Context, organizerID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	showtime, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !isAdmin {
		owned, err := s.venues.IsVenueOwnedBy(ctx, showtime.VenueID, organizerID)
		if err != nil {
			return err
		}
		if !owned {
			return ErrNotScreenOwner
		}
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}

	s.InvalidateAvailability(ctx, id)
	_ = s.cache.Delete(ctx, constants.BuildShowtimesByScreenKey(showtime.ScreenID.String()))
	return nil
}

func (s *service) InvalidateAvailability(ctx context.Context, id uuid.UUID) {
	_ = s.cache.Delete(ctx, constants.BuildShowtimeSeatsKey(id.String()))
	_ = s.cache.Delete(ctx, constants.BuildShowtimeDetailKey(id.String()))
}
