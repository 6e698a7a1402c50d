package promos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidWindow = errors.New("valid_until must be after valid_from")

type Service interface {
	CreatePromo(ctx context.Context, req CreatePromoRequest) (*PromoCode, error)
	GetPromo(ctx context.Context, id uuid.UUID) (*PromoCode, error)
	ListPromos(ctx context.Context, activeOnly bool) ([]PromoCode, error)
	DeactivatePromo(ctx context.Context, id uuid.UUID) error

	// ResolveForOrder looks up a code and validates it against the order
	// amount. Used by the booking flow before any discount is applied.
	ResolveForOrder(ctx context.Context, code string, orderAmount float64) (*PromoCode, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreatePromo(ctx context.Context, req CreatePromoRequest) (*PromoCode, error) {
	if req.ValidFrom != nil && req.ValidUntil != nil && !req.ValidUntil.After(*req.ValidFrom) {
		return nil, ErrInvalidWindow
	}

	discountType := DiscountType(CanonicalCode(string(req.Type)))
	if discountType != DiscountPercentage && discountType != DiscountFixed {
		return nil, ErrInvalidDiscount
	}

	promo := &PromoCode{
		Code:              CanonicalCode(req.Code),
		Description:       req.Description,
		Type:              discountType,
		DiscountValue:     req.DiscountValue,
		MinPurchase:       req.MinPurchase,
		MaxDiscountAmount: req.MaxDiscountAmount,
		ValidFrom:         req.ValidFrom,
		ValidUntil:        req.ValidUntil,
		MaxUses:           req.MaxUses,
		IsActive:          true,
	}

	if err := s.repo.Create(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}

func (s *service) GetPromo(ctx context.Context, id uuid.UUID) (*PromoCode, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListPromos(ctx context.Context, activeOnly bool) ([]PromoCode, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *service) DeactivatePromo(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *service) ResolveForOrder(ctx context.Context, code string, orderAmount float64) (*PromoCode, error) {
	promo, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := promo.IsValidAt(time.Now(), orderAmount); err != nil {
		return nil, err
	}
	return promo, nil
}
