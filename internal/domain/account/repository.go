package account

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"laborhub/internal/domain"
)

// Repository reads the customer and labor records kept by the registration service.
type Repository interface {
	GetLabor(ctx context.Context, id int64) (*domain.Labor, error)
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	CreateLabor(ctx context.Context, l *domain.Labor) error
	CreateCustomer(ctx context.Context, c *domain.Customer) error
	ListLabors(ctx context.Context, f LaborFilters) ([]domain.Labor, int64, error)
}

type LaborFilters struct {
	Skill       string
	PaymentType string
	MaxRate     float64
	Page        int
	Limit       int
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetLabor returns nil, nil when no labor has that id.
func (r *repository) GetLabor(ctx context.Context, id int64) (*domain.Labor, error) {
	var l domain.Labor
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

// GetCustomer returns nil, nil when no customer has that id.
func (r *repository) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) CreateLabor(ctx context.Context, l *domain.Labor) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) ListLabors(ctx context.Context, f LaborFilters) ([]domain.Labor, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Labor{})

	if f.Skill != "" {
		q = q.Where("LOWER(skill_category) = ?", strings.ToLower(f.Skill))
	}
	if f.PaymentType != "" {
		q = q.Where("LOWER(payment_type) = ?", strings.ToLower(f.PaymentType))
	}
	if f.MaxRate > 0 {
		q = q.Where("rate <= ?", f.MaxRate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var labors []domain.Labor
	err := q.Order("rate ASC, id ASC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&labors).Error
	return labors, total, err
}
