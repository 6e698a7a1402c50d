package venues

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrVenueNotFound  = errors.New("venue not found")
	ErrScreenNotFound = errors.New("screen not found")
)

type Repository interface {
	CreateVenue(ctx context.Context, venue *Venue) error
	GetVenueByID(ctx context.Context, id uuid.UUID) (*Venue, error)
	ListVenues(ctx context.Context, city string) ([]Venue, error)
	UpdateVenue(ctx context.Context, venue *Venue) error
	DeactivateVenue(ctx context.Context, id uuid.UUID) error

	CreateScreen(ctx context.Context, screen *Screen) error
	GetScreenByID(ctx context.Context, id uuid.UUID) (*Screen, error)
	GetScreensByVenue(ctx context.Context, venueID uuid.UUID) ([]Screen, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateVenue(ctx context.Context, venue *Venue) error {
	return r.db.WithContext(ctx).Create(venue).Error
}

func (r *repository) GetVenueByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	var venue Venue
	err := r.db.WithContext(ctx).
		Preload("Screens").
		Where("id = ?", id).
		First(&venue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &venue, nil
}

func (r *repository) ListVenues(ctx context.Context, city string) ([]Venue, error) {
	var venues []Venue
	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if city != "" {
		query = query.Where("LOWER(city) = LOWER(?)", city)
	}
	err := query.Order("name ASC").Find(&venues).Error
	return venues, err
}

func (r *repository) UpdateVenue(ctx context.Context, venue *Venue) error {
	return r.db.WithContext(ctx).Save(venue).Error
}

func (r *repository) DeactivateVenue(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&Venue{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVenueNotFound
	}
	return nil
}

func (r *repository) CreateScreen(ctx context.Context, screen *Screen) error {
	return r.db.WithContext(ctx).Create(screen).Error
}

func (r *repository) GetScreenByID(ctx context.Context, id uuid.UUID) (*Screen, error) {
	var screen Screen
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&screen).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScreenNotFound
		}
		return nil, err
	}
	return &screen, nil
}

func (r *repository) GetScreensByVenue(ctx context.Context, venueID uuid.UUID) ([]Screen, error) {
	var screens []Screen
	err := r.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("name ASC").
		Find(&screens).Error
	return screens, err
}
