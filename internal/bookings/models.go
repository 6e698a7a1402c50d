package bookings

import (
	"time"

	"showbook/internal/showtimes"

	"github.com/google/uuid"
)

// Booking ties a user to a set of seats on one showtime. Seats are written
// to the showtime ledger in the same transaction that creates the row, so
// a booking in any seat-holding status owns its seats exclusively.
type Booking struct {
	ID         uuid.UUID          `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	RefCode    string             `json:"ref_code" gorm:"uniqueIndex;not null"`
	UserID     uuid.UUID          `json:"user_id" gorm:"type:uuid;not null;index"`
	ShowtimeID uuid.UUID          `json:"showtime_id" gorm:"type:uuid;not null;index"`
	Seats      showtimes.SeatList `json:"seats" gorm:"type:jsonb;not null"`

	OriginalAmount float64    `json:"original_amount" gorm:"not null"`
	DiscountAmount float64    `json:"discount_amount" gorm:"default:0"`
	FinalAmount    float64    `json:"final_amount" gorm:"not null"`
	PromoCodeID    *uuid.UUID `json:"promo_code_id,omitempty" gorm:"type:uuid"`

	Status Status `json:"status" gorm:"not null;index;default:'PAYMENT_PENDING'"`

	GatewayOrderID   string `json:"gateway_order_id,omitempty"`
	GatewayPaymentID string `json:"gateway_payment_id,omitempty"`
	GatewaySignature string `json:"-"`

	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
	CheckedInBy *uuid.UUID `json:"checked_in_by,omitempty" gorm:"type:uuid"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// BookingListQuery holds filters for booking list endpoints
type BookingListQuery struct {
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
	Status     string `form:"status"`
	ShowtimeID string `form:"showtime_id"`
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
}

// CreateBookingRequest represents booking creation payload
type CreateBookingRequest struct {
	ShowtimeID uuid.UUID `json:"showtime_id" binding:"required"`
	Seats      []string  `json:"seats" binding:"required,min=1,max=10,dive,min=2,max=5"`
	PromoCode  string    `json:"promo_code,omitempty"`
}

// BookingResponse is the booking enriched with payment checkout data
type BookingResponse struct {
	Booking        *Booking `json:"booking"`
	GatewayOrderID string   `json:"gateway_order_id,omitempty"`
	GatewayKeyID   string   `json:"gateway_key_id,omitempty"`
	AmountDue      float64  `json:"amount_due"`
	Currency       string   `json:"currency"`
}
