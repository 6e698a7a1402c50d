package promos

import (
	"errors"
	"testing"
	"time"
)

func activePromo(t DiscountType, value, minPurchase, maxDiscount float64) *PromoCode {
	from := time.Now().Add(-time.Hour)
	until := time.Now().Add(time.Hour)
	return &PromoCode{
		Code:              "TESTCODE",
		Type:              t,
		DiscountValue:     value,
		MinPurchase:       minPurchase,
		MaxDiscountAmount: maxDiscount,
		ValidFrom:         &from,
		ValidUntil:        &until,
		MaxUses:           100,
		IsActive:          true,
	}
}

func TestCalculateDiscountPercentage(t *testing.T) {
	tests := []struct {
		name        string
		value       float64
		maxDiscount float64
		orderAmount float64
		want        float64
	}{
		{"plain percentage", 10, 0, 500, 50},
		{"capped by max discount", 20, 50, 500, 50},
		{"cap not reached", 20, 150, 500, 100},
		{"rounds half up", 10, 0, 333.33, 33.33},
		{"full discount capped at order", 100, 0, 250, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			promo := activePromo(DiscountPercentage, tt.value, 0, tt.maxDiscount)
			got, err := promo.CalculateDiscount(tt.orderAmount)
			if err != nil {
				t.Fatalf("CalculateDiscount returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CalculateDiscount(%v) = %v, want %v", tt.orderAmount, got, tt.want)
			}
		})
	}
}

func TestCalculateDiscountFixed(t *testing.T) {
	promo := activePromo(DiscountFixed, 75, 0, 0)

	got, err := promo.CalculateDiscount(500)
	if err != nil {
		t.Fatalf("CalculateDiscount returned error: %v", err)
	}
	if got != 75 {
		t.Errorf("fixed discount = %v, want 75", got)
	}

	// Fixed discount larger than the order is capped at the order amount
	got, err = promo.CalculateDiscount(40)
	if err != nil {
		t.Fatalf("CalculateDiscount returned error: %v", err)
	}
	if got != 40 {
		t.Errorf("capped fixed discount = %v, want 40", got)
	}
}

func TestCalculateDiscountUnknownType(t *testing.T) {
	promo := activePromo(DiscountType("BOGUS"), 10, 0, 0)
	if _, err := promo.CalculateDiscount(100); !errors.Is(err, ErrInvalidDiscount) {
		t.Errorf("expected ErrInvalidDiscount, got %v", err)
	}
}

func TestIsValidAt(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name        string
		mutate      func(*PromoCode)
		at          time.Time
		orderAmount float64
		wantErr     error
	}{
		{
			name:        "valid",
			mutate:      func(p *PromoCode) {},
			at:          now,
			orderAmount: 200,
			wantErr:     nil,
		},
		{
			name:        "inactive",
			mutate:      func(p *PromoCode) { p.IsActive = false },
			at:          now,
			orderAmount: 200,
			wantErr:     ErrPromoInactive,
		},
		{
			name:        "before window",
			mutate:      func(p *PromoCode) { from := now.Add(time.Hour); p.ValidFrom = &from },
			at:          now,
			orderAmount: 200,
			wantErr:     ErrPromoNotStarted,
		},
		{
			name:        "after window",
			mutate:      func(p *PromoCode) { until := now.Add(-time.Minute); p.ValidUntil = &until },
			at:          now,
			orderAmount: 200,
			wantErr:     ErrPromoExpired,
		},
		{
			name:        "no window is always open",
			mutate:      func(p *PromoCode) { p.ValidFrom = nil; p.ValidUntil = nil },
			at:          now.Add(10000 * time.Hour),
			orderAmount: 200,
			wantErr:     nil,
		},
		{
			name:        "exhausted",
			mutate:      func(p *PromoCode) { p.MaxUses = 5; p.Uses = 5 },
			at:          now,
			orderAmount: 200,
			wantErr:     ErrPromoExhausted,
		},
		{
			name:        "unlimited uses never exhausted",
			mutate:      func(p *PromoCode) { p.MaxUses = 0; p.Uses = 100000 },
			at:          now,
			orderAmount: 200,
			wantErr:     nil,
		},
		{
			name:        "below min purchase",
			mutate:      func(p *PromoCode) { p.MinPurchase = 300 },
			at:          now,
			orderAmount: 200,
			wantErr:     ErrMinPurchase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			promo := activePromo(DiscountPercentage, 10, 0, 0)
			tt.mutate(promo)

			err := promo.IsValidAt(tt.at, tt.orderAmount)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("IsValidAt() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCanonicalCode(t *testing.T) {
	if got := CanonicalCode("  weekend10 "); got != "WEEKEND10" {
		t.Errorf("CanonicalCode = %q, want WEEKEND10", got)
	}
}
