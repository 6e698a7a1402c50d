package venues

import (
	"context"
	"errors"
	"fmt"

	"showbook/internal/shared/constants"
	"showbook/pkg/cache"

	"github.com/google/uuid"
)

var ErrNotVenueOwner = errors.New("venue is not managed by this organizer")

type Service interface {
	CreateVenue(ctx context.Context, organizerID uuid.UUID, req CreateVenueRequest) (*Venue, error)
	GetVenue(ctx context.Context, id uuid.UUID) (*Venue, error)
	ListVenues(ctx context.Context, city string) ([]Venue, error)
	DeactivateVenue(ctx context.Context, organizerID uuid.UUID, isAdmin bool, venueID uuid.UUID) error

	AddScreen(ctx context.Context, organizerID uuid.UUID, venueID uuid.UUID, req AddScreenRequest) (*Screen, error)
	GetScreenLayout(ctx context.Context, screenID uuid.UUID) (SeatLayout, error)
	GetScreen(ctx context.Context, screenID uuid.UUID) (*Screen, error)

	// IsVenueOwnedBy backs the check-in authorization for organizers.
	IsVenueOwnedBy(ctx context.Context, venueID, organizerID uuid.UUID) (bool, error)
}

type service struct {
	repo  Repository
	cache cache.Service
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cache: cacheService}
}

func (s *service) CreateVenue(ctx context.Context, organizerID uuid.UUID, req CreateVenueRequest) (*Venue, error) {
	venue := &Venue{
		Name:        req.Name,
		City:        req.City,
		Address:     req.Address,
		OrganizerID: organizerID,
		IsActive:    true,
	}

	if err := s.repo.CreateVenue(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}

	s.invalidateVenueCache(ctx)
	return venue, nil
}

func (s *service) GetVenue(ctx context.Context, id uuid.UUID) (*Venue, error) {
	var venue Venue
	key := constants.BuildVenueDetailKey(id.String())
	err := s.cache.GetOrSet(ctx, key, constants.TTL_VENUE_DETAIL, func() (interface{}, error) {
		return s.repo.GetVenueByID(ctx, id)
	}, &venue)
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (s *service) ListVenues(ctx context.Context, city string) ([]Venue, error) {
	return s.repo.ListVenues(ctx, city)
}

func (s *service) DeactivateVenue(ctx context.Context, organizerID uuid.UUID, isAdmin bool, venueID uuid.UUID) error {
	venue, err := s.repo.GetVenueByID(ctx, venueID)
	if err != nil {
		return err
	}

	if !isAdmin && venue.OrganizerID != organizerID {
		return ErrNotVenueOwner
	}

	if err := s.repo.DeactivateVenue(ctx, venueID); err != nil {
		return err
	}

	s.invalidateVenueCache(ctx)
	return nil
}

func (s *service) AddScreen(ctx context.Context, organizerID uuid.UUID, venueID uuid.UUID, req AddScreenRequest) (*Screen, error) {
	venue, err := s.repo.GetVenueByID(ctx, venueID)
	if err != nil {
		return nil, err
	}

	if venue.OrganizerID != organizerID {
		return nil, ErrNotVenueOwner
	}

	layout := make(SeatLayout, 0, len(req.Layout))
	for _, row := range req.Layout {
		seatType := row.SeatType
		if seatType == "" {
			seatType = SeatTypeNormal
		}
		layout = append(layout, RowLayout{Row: row.Row, Seats: row.Seats, SeatType: seatType})
	}

	screen := &Screen{
		VenueID:    venueID,
		Name:       req.Name,
		Layout:     layout,
		TotalSeats: layout.TotalSeats(),
	}

	if err := s.repo.CreateScreen(ctx, screen); err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}

	s.invalidateVenueCache(ctx)
	return screen, nil
}

func (s *service) GetScreenLayout(ctx context.Context, screenID uuid.UUID) (SeatLayout, error) {
	var layout SeatLayout
	key := constants.BuildScreenLayoutKey(screenID.String())
	err := s.cache.GetOrSet(ctx, key, constants.TTL_SCREEN_LAYOUT, func() (interface{}, error) {
		screen, err := s.repo.GetScreenByID(ctx, screenID)
		if err != nil {
			return nil, err
		}
		return screen.Layout, nil
	}, &layout)
	if err != nil {
		return nil, err
	}
	return layout, nil
}

func (s *service) GetScreen(ctx context.Context, screenID uuid.UUID) (*Screen, error) {
	return s.repo.GetScreenByID(ctx, screenID)
}

func (s *service) IsVenueOwnedBy(ctx context.Context, venueID, organizerID uuid.UUID) (bool, error) {
	venue, err := s.repo.GetVenueByID(ctx, venueID)
	if err != nil {
		if errors.Is(err, ErrVenueNotFound) {
			return false, nil
		}
		return false, err
	}
	return venue.OrganizerID == organizerID, nil
}

func (s *service) invalidateVenueCache(ctx context.Context) {
	// best effort: stale entries expire on their own TTL
	_ = s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_VENUES_ALL)
}
