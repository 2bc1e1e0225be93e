package review

import (
	"context"

	"gorm.io/gorm"

	"laborhub/internal/database"
	"laborhub/internal/domain"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create maps the per-booking unique index to ErrAlreadyReviewed.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	err := r.db.WithContext(ctx).Create(rv).Error
	if database.IsUniqueViolation(err) {
		return ErrAlreadyReviewed
	}
	return err
}

func (r *ReviewRepository) ExistsForBooking(ctx context.Context, bookingID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Review{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error
	return count > 0, err
}

func (r *ReviewRepository) GetByLabor(ctx context.Context, laborID int64, limit, offset int) ([]domain.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var out []domain.Review
	err := r.db.WithContext(ctx).
		Where("labor_id = ?", laborID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	return out, err
}

type Stats struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}

func (r *ReviewRepository) StatsForLabor(ctx context.Context, laborID int64) (Stats, error) {
	var s Stats
	err := r.db.WithContext(ctx).
		Model(&domain.Review{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
		Where("labor_id = ?", laborID).
		Scan(&s).Error
	return s, err
}
