package subscription

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"laborhub/internal/domain"
)

// Repository handles persistence for subscription data
type Repository interface {
	GetActiveByCustomerID(ctx context.Context, customerID int64) (*domain.Subscription, error)
	Create(ctx context.Context, sub *domain.Subscription) error
	Update(ctx context.Context, sub *domain.Subscription) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetActiveByCustomerID returns nil, nil when the customer has no active subscription.
func (r *repository) GetActiveByCustomerID(ctx context.Context, customerID int64) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND is_active = ?", customerID, true).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repository) Create(ctx context.Context, sub *domain.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *repository) Update(ctx context.Context, sub *domain.Subscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}
