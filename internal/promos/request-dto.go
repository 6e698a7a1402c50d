package promos

import "time"

// CreatePromoRequest represents promo code creation payload. The
// validity window is optional on either side.
type CreatePromoRequest struct {
	Code              string       `json:"code" binding:"required,min=3,max=30"`
	Description       string       `json:"description" binding:"max=500"`
	Type              DiscountType `json:"type" binding:"required"`
	DiscountValue     float64      `json:"discount_value" binding:"required,gt=0"`
	MinPurchase       float64      `json:"min_purchase" binding:"gte=0"`
	MaxDiscountAmount float64      `json:"max_discount_amount" binding:"gte=0"`
	ValidFrom         *time.Time   `json:"valid_from,omitempty"`
	ValidUntil        *time.Time   `json:"valid_until,omitempty"`
	MaxUses           int          `json:"max_uses" binding:"gte=0"`
}
