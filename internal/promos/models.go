package promos

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

var (
	ErrPromoInactive   = errors.New("promo code is not active")
	ErrPromoNotStarted = errors.New("promo code is not yet valid")
	ErrPromoExpired    = errors.New("promo code has expired")
	ErrPromoExhausted  = errors.New("promo code usage limit reached")
	ErrMinPurchase     = errors.New("order amount below minimum purchase for promo")
	ErrInvalidDiscount = errors.New("invalid discount type")
)

// PromoCode is a redeemable discount. Uses is incremented atomically at
// booking time so concurrent redemptions cannot exceed MaxUses. A nil
// ValidFrom or ValidUntil leaves that side of the window unbounded.
type PromoCode struct {
	ID                uuid.UUID    `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Code              string       `json:"code" gorm:"uniqueIndex;not null"`
	Description       string       `json:"description"`
	Type              DiscountType `json:"type" gorm:"not null"`
	DiscountValue     float64      `json:"discount_value" gorm:"not null"`
	MinPurchase       float64      `json:"min_purchase" gorm:"default:0"`
	MaxDiscountAmount float64      `json:"max_discount_amount" gorm:"default:0"`
	ValidFrom         *time.Time   `json:"valid_from,omitempty"`
	ValidUntil        *time.Time   `json:"valid_until,omitempty"`
	MaxUses           int          `json:"max_uses" gorm:"not null"`
	Uses              int          `json:"uses" gorm:"default:0"`
	IsActive          bool         `json:"is_active" gorm:"default:true"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// TableName sets the table name for PromoCode
func (PromoCode) TableName() string {
	return "promo_codes"
}

// CanonicalCode normalizes a user-entered promo code for lookup
func CanonicalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidAt checks whether the promo can be applied at the given instant
// for an order of the given amount. It does not consume a use.
func (p *PromoCode) IsValidAt(at time.Time, orderAmount float64) error {
	if !p.IsActive {
		return ErrPromoInactive
	}
	if p.ValidFrom != nil && at.Before(*p.ValidFrom) {
		return ErrPromoNotStarted
	}
	if p.ValidUntil != nil && at.After(*p.ValidUntil) {
		return ErrPromoExpired
	}
	if p.MaxUses > 0 && p.Uses >= p.MaxUses {
		return ErrPromoExhausted
	}
	if orderAmount < p.MinPurchase {
		return ErrMinPurchase
	}
	return nil
}

// CalculateDiscount returns the discount amount for an order total,
// rounded half-up to two decimals. The discount never exceeds the order
// amount, and percentage discounts are capped by MaxDiscountAmount when set.
func (p *PromoCode) CalculateDiscount(orderAmount float64) (float64, error) {
	var discount float64

	switch p.Type {
	case DiscountPercentage:
		discount = orderAmount * p.DiscountValue / 100
		if p.MaxDiscountAmount > 0 && discount > p.MaxDiscountAmount {
			discount = p.MaxDiscountAmount
		}
	case DiscountFixed:
		discount = p.DiscountValue
	default:
		return 0, ErrInvalidDiscount
	}

	if discount > orderAmount {
		discount = orderAmount
	}
	if discount < 0 {
		discount = 0
	}

	return roundMoney(discount), nil
}

// roundMoney rounds half-up to two decimal places
func roundMoney(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
