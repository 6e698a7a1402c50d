package showtimes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrShowtimeNotFound = errors.New("showtime not found")
	ErrShowtimeInactive = errors.New("showtime is not open for booking")
	ErrShowtimeStarted  = errors.New("showtime has already started")
	ErrScheduleOverlap  = errors.New("showtime overlaps an existing one on this screen")
)

type Repository interface {
	Create(ctx context.Context, showtime *Showtime) error
	GetByID(ctx context.Context, id uuid.UUID) (*Showtime, error)
	ListByScreen(ctx context.Context, screenID uuid.UUID, upcomingOnly bool) ([]Showtime, error)
	ListByVenue(ctx context.Context, venueID uuid.UUID) ([]Showtime, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	HasOverlap(ctx context.Context, screenID uuid.UUID, start, end time.Time) (bool, error)

	// ClaimSeatsTx marks seats as occupied inside the caller's transaction.
	// It locks the showtime row so concurrent claims for the same showtime
	// serialize; the overlap check then sees every committed claim. A
	// *SeatConflictError names the seats that lost the race.
	ClaimSeatsTx(tx *gorm.DB, showtimeID uuid.UUID, seats []string) (*Showtime, error)

	// ReleaseSeatsTx removes seats from the ledger inside the caller's
	// transaction. Releasing a seat that is not occupied is a no-op.
	ReleaseSeatsTx(tx *gorm.DB, showtimeID uuid.UUID, seats []string) error

	ReleaseSeats(ctx context.Context, showtimeID uuid.UUID, seats []string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, showtime *Showtime) error {
	return r.db.WithContext(ctx).Create(showtime).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Showtime, error) {
	var showtime Showtime
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&showtime).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return &showtime, nil
}

func (r *repository) ListByScreen(ctx context.Context, screenID uuid.UUID, upcomingOnly bool) ([]Showtime, error) {
	var showtimes []Showtime
	query := r.db.WithContext(ctx).
		Where("screen_id = ? AND is_active = ?", screenID, true)
	if upcomingOnly {
		query = query.Where("start_time > ?", time.Now())
	}
	err := query.Order("start_time ASC").Find(&showtimes).Error
	return showtimes, err
}

func (r *repository) ListByVenue(ctx context.Context, venueID uuid.UUID) ([]Showtime, error) {
	var showtimes []Showtime
	err := r.db.WithContext(ctx).
		Where("venue_id = ? AND is_active = ?", venueID, true).
		Where("start_time > ?", time.Now()).
		Order("start_time ASC").
		Find(&showtimes).Error
	return showtimes, err
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&Showtime{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrShowtimeNotFound
	}
	return nil
}

func (r *repository) HasOverlap(ctx context.Context, screenID uuid.UUID, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Showtime{}).
		Where("screen_id = ? AND is_active = ?", screenID, true).
		Where("start_time < ? AND end_time > ?", end, start).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ClaimSeatsTx(tx *gorm.DB, showtimeID uuid.UUID, seats []string) (*Showtime, error) {
	var showtime Showtime

	err := tx.
		Set("gorm:query_option", "FOR UPDATE").
		Where("id = ?", showtimeID).
		First(&showtime).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowtimeNotFound
		}
		return nil, fmt.Errorf("failed to lock showtime: %w", err)
	}

	if !showtime.IsActive || len(showtime.PriceTiers) == 0 {
		return nil, ErrShowtimeInactive
	}
	if !showtime.StartTime.After(time.Now()) {
		return nil, ErrShowtimeStarted
	}

	if conflicts := showtime.OccupiedSeats.Overlap(seats); len(conflicts) > 0 {
		return nil, &SeatConflictError{Seats: conflicts}
	}

	showtime.OccupiedSeats = showtime.OccupiedSeats.Add(seats)

	err = tx.Model(&Showtime{}).
		Where("id = ?", showtimeID).
		Update("occupied_seats", showtime.OccupiedSeats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to claim seats: %w", err)
	}

	return &showtime, nil
}

func (r *repository) ReleaseSeatsTx(tx *gorm.DB, showtimeID uuid.UUID, seats []string) error {
	var showtime Showtime

	err := tx.
		Set("gorm:query_option", "FOR UPDATE").
		Where("id = ?", showtimeID).
		First(&showtime).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShowtimeNotFound
		}
		return fmt.Errorf("failed to lock showtime: %w", err)
	}

	showtime.OccupiedSeats = showtime.OccupiedSeats.Remove(seats)

	err = tx.Model(&Showtime{}).
		Where("id = ?", showtimeID).
		Update("occupied_seats", showtime.OccupiedSeats).Error
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}

	return nil
}

func (r *repository) ReleaseSeats(ctx context.Context, showtimeID uuid.UUID, seats []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.ReleaseSeatsTx(tx, showtimeID, seats)
	})
}
