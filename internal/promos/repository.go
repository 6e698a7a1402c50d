package promos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPromoNotFound      = errors.New("promo code not found")
	ErrPromoAlreadyExists = errors.New("promo code already exists")
)

type Repository interface {
	Create(ctx context.Context, promo *PromoCode) error
	GetByID(ctx context.Context, id uuid.UUID) (*PromoCode, error)
	GetByCode(ctx context.Context, code string) (*PromoCode, error)
	List(ctx context.Context, activeOnly bool) ([]PromoCode, error)
	Deactivate(ctx context.Context, id uuid.UUID) error

	// IncrementUses consumes one use inside the given transaction. The
	// guarded UPDATE fails with ErrPromoExhausted when the limit is hit,
	// so two concurrent bookings cannot both take the last use.
	IncrementUses(tx *gorm.DB, promoID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, promo *PromoCode) error {
	err := r.db.WithContext(ctx).Create(promo).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrPromoAlreadyExists
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*PromoCode, error) {
	var promo PromoCode
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromoNotFound
		}
		return nil, err
	}
	return &promo, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*PromoCode, error) {
	var promo PromoCode
	err := r.db.WithContext(ctx).Where("code = ?", CanonicalCode(code)).First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromoNotFound
		}
		return nil, err
	}
	return &promo, nil
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]PromoCode, error) {
	var promos []PromoCode
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&promos).Error
	return promos, err
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&PromoCode{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPromoNotFound
	}
	return nil
}

func (r *repository) IncrementUses(tx *gorm.DB, promoID uuid.UUID) error {
	result := tx.Model(&PromoCode{}).
		Where("id = ? AND (max_uses = 0 OR uses < max_uses)", promoID).
		Update("uses", gorm.Expr("uses + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPromoExhausted
	}
	return nil
}
