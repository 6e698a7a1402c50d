package programs

import (
	"context"
	"time"

	"showbook/internal/shared/constants"
	"showbook/pkg/cache"

	"github.com/google/uuid"
)

type Service interface {
	CreateMovie(ctx context.Context, req CreateMovieRequest) (*Movie, error)
	GetMovie(ctx context.Context, id uuid.UUID) (*Movie, error)
	ListMovies(ctx context.Context) ([]Movie, error)

	CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*Event, error)
	ListEvents(ctx context.Context) ([]Event, error)
}

type service struct {
	repo  Repository
	cache cache.Service
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cache: cacheService}
}

func (s *service) CreateMovie(ctx context.Context, req CreateMovieRequest) (*Movie, error) {
	movie := &Movie{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Language:        req.Language,
		Genre:           req.Genre,
		IsActive:        true,
	}

	if req.ReleaseDate != "" {
		if parsed, err := time.Parse("2006-01-02", req.ReleaseDate); err == nil {
			movie.ReleaseDate = parsed
		}
	}

	if err := s.repo.CreateMovie(ctx, movie); err != nil {
		return nil, err
	}

	s.invalidateCatalogCache(ctx)
	return movie, nil
}

func (s *service) GetMovie(ctx context.Context, id uuid.UUID) (*Movie, error) {
	var movie Movie
	cacheKey := constants.BuildMovieDetailKey(id.String())

	err := s.cache.GetOrSet(ctx, cacheKey, constants.TTL_PROGRAM_DETAIL, func() (interface{}, error) {
		return s.repo.GetMovieByID(ctx, id)
	}, &movie)
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

func (s *service) ListMovies(ctx context.Context) ([]Movie, error) {
	var movies []Movie

	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_MOVIES_LIST, constants.TTL_PROGRAM_LIST, func() (interface{}, error) {
		return s.repo.ListMovies(ctx)
	}, &movies)
	if err != nil {
		return nil, err
	}

	return movies, nil
}

func (s *service) CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error) {
	event := &Event{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		EndsAt:      req.EndsAt,
		IsActive:    true,
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, err
	}

	s.invalidateCatalogCache(ctx)
	return event, nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	cacheKey := constants.BuildEventDetailKey(id.String())

	err := s.cache.GetOrSet(ctx, cacheKey, constants.TTL_PROGRAM_DETAIL, func() (interface{}, error) {
		return s.repo.GetEventByID(ctx, id)
	}, &event)
	if err != nil {
		return nil, err
	}

	return &event, nil
}

func (s *service) ListEvents(ctx context.Context) ([]Event, error) {
	var events []Event

	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_EVENTS_LIST, constants.TTL_PROGRAM_LIST, func() (interface{}, error) {
		return s.repo.ListEvents(ctx)
	}, &events)
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (s *service) invalidateCatalogCache(ctx context.Context) {
	// Best effort, stale listings expire with the TTL anyway
	_ = s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_PROGRAMS_ALL)
}
