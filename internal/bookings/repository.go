package bookings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"showbook/internal/promos"
	"showbook/internal/showtimes"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidTransition = errors.New("booking status transition not allowed")
	ErrRefCodeTaken      = errors.New("booking reference already in use")
	ErrAlreadyCheckedIn  = errors.New("booking already checked in")
)

type Repository interface {
	// CreateWithSeatClaim writes the booking and its seat claim in one
	// transaction. The showtime row lock serializes concurrent claims;
	// a promo use is consumed in the same transaction when promoID is
	// set, so a failed increment rolls the claim back too.
	CreateWithSeatClaim(ctx context.Context, booking *Booking, promoID *uuid.UUID) error

	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByRefCode(ctx context.Context, refCode string) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error)

	// Status transitions. Each locks the booking row, validates the
	// transition, and applies side effects in the same transaction.
	Confirm(ctx context.Context, id uuid.UUID, gatewayPaymentID, gatewaySignature string) (*Booking, error)
	MarkPaymentFailed(ctx context.Context, id uuid.UUID, gatewayPaymentID, gatewaySignature string) (*Booking, error)
	CancelPending(ctx context.Context, id uuid.UUID) (*Booking, error)
	Cancel(ctx context.Context, id uuid.UUID) (*Booking, error)
	CheckIn(ctx context.Context, id uuid.UUID, staffID uuid.UUID) (*Booking, error)

	SetGatewayOrder(ctx context.Context, id uuid.UUID, gatewayOrderID string) error
}

type repository struct {
	db        *gorm.DB
	showtimes showtimes.Repository
	promos    promos.Repository
}

func NewRepository(db *gorm.DB, showtimeRepo showtimes.Repository, promoRepo promos.Repository) Repository {
	return &repository{db: db, showtimes: showtimeRepo, promos: promoRepo}
}

func (r *repository) CreateWithSeatClaim(ctx context.Context, booking *Booking, promoID *uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.showtimes.ClaimSeatsTx(tx, booking.ShowtimeID, booking.Seats); err != nil {
			return err
		}

		if err := tx.Create(booking).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrRefCodeTaken
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}

		if promoID != nil {
			if err := r.promos.IncrementUses(tx, *promoID); err != nil {
				return err
			}
		}

		return nil
	})
}

// isUniqueViolation detects a duplicate ref code without depending on the
// driver's error type
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key")
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByRefCode(ctx context.Context, refCode string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("ref_code = ?", strings.ToUpper(refCode)).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	baseQuery := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("user_id = ?", userID)
	return r.paginate(baseQuery, query)
}

func (r *repository) GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	baseQuery := r.db.WithContext(ctx).Model(&Booking{})
	return r.paginate(baseQuery, query)
}

func (r *repository) paginate(baseQuery *gorm.DB, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery = applyFilters(baseQuery, query)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

func (r *repository) Confirm(ctx context.Context, id uuid.UUID, gatewayPaymentID, gatewaySignature string) (*Booking, error) {
	return r.transition(ctx, id, StatusConfirmed, func(tx *gorm.DB, booking *Booking) error {
		booking.GatewayPaymentID = gatewayPaymentID
		booking.GatewaySignature = gatewaySignature
		return tx.Model(booking).Updates(map[string]interface{}{
			"status":             StatusConfirmed,
			"gateway_payment_id": gatewayPaymentID,
			"gateway_signature":  gatewaySignature,
			"updated_at":         time.Now(),
		}).Error
	})
}

func (r *repository) MarkPaymentFailed(ctx context.Context, id uuid.UUID, gatewayPaymentID, gatewaySignature string) (*Booking, error) {
	return r.transition(ctx, id, StatusPaymentFailed, func(tx *gorm.DB, booking *Booking) error {
		booking.GatewayPaymentID = gatewayPaymentID
		booking.GatewaySignature = gatewaySignature
		return tx.Model(booking).Updates(map[string]interface{}{
			"status":             StatusPaymentFailed,
			"gateway_payment_id": gatewayPaymentID,
			"gateway_signature":  gatewaySignature,
			"updated_at":         time.Now(),
		}).Error
	})
}

// CancelPending abandons a booking that was never paid: the seats go
// back to the ledger and the booking lands in PAYMENT_FAILED. Unlike a
// failed signature verification, an explicit abandon releases the seats.
func (r *repository) CancelPending(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return r.transition(ctx, id, StatusPaymentFailed, func(tx *gorm.DB, booking *Booking) error {
		if err := r.showtimes.ReleaseSeatsTx(tx, booking.ShowtimeID, booking.Seats); err != nil {
			return err
		}

		return tx.Model(booking).Updates(map[string]interface{}{
			"status":     StatusPaymentFailed,
			"updated_at": time.Now(),
		}).Error
	})
}

func (r *repository) Cancel(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return r.transition(ctx, id, StatusCancelled, func(tx *gorm.DB, booking *Booking) error {
		if err := r.showtimes.ReleaseSeatsTx(tx, booking.ShowtimeID, booking.Seats); err != nil {
			return err
		}

		now := time.Now()
		booking.CancelledAt = &now
		return tx.Model(booking).Updates(map[string]interface{}{
			"status":       StatusCancelled,
			"cancelled_at": now,
			"updated_at":   now,
		}).Error
	})
}

func (r *repository) CheckIn(ctx context.Context, id uuid.UUID, staffID uuid.UUID) (*Booking, error) {
	return r.transition(ctx, id, StatusCheckedIn, func(tx *gorm.DB, booking *Booking) error {
		now := time.Now()
		booking.CheckedInAt = &now
		booking.CheckedInBy = &staffID
		return tx.Model(booking).Updates(map[string]interface{}{
			"status":        StatusCheckedIn,
			"checked_in_at": now,
			"checked_in_by": staffID,
			"updated_at":    now,
		}).Error
	})
}

// transition locks the booking row, validates the status change and runs
// the transition's updates inside the same transaction.
func (r *repository) transition(ctx context.Context, id uuid.UUID, next Status, apply func(tx *gorm.DB, booking *Booking) error) (*Booking, error) {
	var booking Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Set("gorm:query_option", "FOR UPDATE").
			Where("id = ?", id).
			First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if !booking.Status.CanTransitionTo(next) {
			if next == StatusCheckedIn && booking.Status == StatusCheckedIn {
				return ErrAlreadyCheckedIn
			}
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, next)
		}

		if err := apply(tx, &booking); err != nil {
			return err
		}
		booking.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *repository) SetGatewayOrder(ctx context.Context, id uuid.UUID, gatewayOrderID string) error {
	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ?", id).
		Update("gateway_order_id", gatewayOrderID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// applyFilters applies query filters to the GORM query
func applyFilters(query *gorm.DB, filters BookingListQuery) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	if filters.ShowtimeID != "" {
		if showtimeID, err := uuid.Parse(filters.ShowtimeID); err == nil {
			query = query.Where("showtime_id = ?", showtimeID)
		}
	}

	if filters.DateFrom != "" {
		if dateFrom, err := time.Parse("2006-01-02", filters.DateFrom); err == nil {
			query = query.Where("created_at >= ?", dateFrom)
		}
	}

	if filters.DateTo != "" {
		if dateTo, err := time.Parse("2006-01-02", filters.DateTo); err == nil {
			// Add 23:59:59 to include the entire day
			dateTo = dateTo.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
			query = query.Where("created_at <= ?", dateTo)
		}
	}

	return query
}

// CalculateTotalPages computes page count for paginated responses
func CalculateTotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / float64(limit)))
}
