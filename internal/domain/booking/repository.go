package booking

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"laborhub/internal/database"
	"laborhub/internal/domain"
)

// Repository persists bookings and the payment rows written together with them.
type Repository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error)
	ListByLabor(ctx context.Context, laborID int64) ([]domain.Booking, error)
	HasActiveAt(ctx context.Context, laborID int64, date, clock string) (bool, error)
	CountCreatedSince(ctx context.Context, customerID int64, since time.Time) (int64, error)
	PaymentFor(ctx context.Context, bookingID int64) (*domain.Payment, error)
	SaveTransition(ctx context.Context, b *domain.Booking, from domain.BookingStatus, p *domain.Payment) error
	Delete(ctx context.Context, id int64) error
	DeleteHistory(ctx context.Context, laborID int64) (int64, error)
	DeleteTerminalBefore(ctx context.Context, before time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

var terminalStatuses = []domain.BookingStatus{domain.BookingCompleted, domain.BookingCancelled}

var activeStatuses = []domain.BookingStatus{domain.BookingPending, domain.BookingAccepted, domain.BookingOngoing}

// Create maps a unique index violation on the active slot to ErrSlotTaken.
func (r *repository) Create(ctx context.Context, b *domain.Booking) error {
	err := r.db.WithContext(ctx).Omit("Labor", "Customer", "Payment").Create(b).Error
	if database.IsUniqueViolation(err) {
		return ErrSlotTaken
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Labor").
		Preload("Customer").
		Preload("Payment").
		First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	return r.list(ctx, "customer_id = ?", customerID)
}

func (r *repository) ListByLabor(ctx context.Context, laborID int64) ([]domain.Booking, error) {
	return r.list(ctx, "labor_id = ?", laborID)
}

func (r *repository) list(ctx context.Context, where string, arg int64) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Labor").
		Preload("Customer").
		Preload("Payment").
		Where(where, arg).
		Order("scheduled_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) HasActiveAt(ctx context.Context, laborID int64, date, clock string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("labor_id = ? AND booking_date = ? AND booking_time = ? AND status IN ?", laborID, date, clock, activeStatuses).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CountCreatedSince(ctx context.Context, customerID int64, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("customer_id = ? AND created_at >= ?", customerID, since).
		Count(&count).Error
	return count, err
}

// PaymentFor returns nil, nil when the booking has no payment yet.
func (r *repository) PaymentFor(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	var p domain.Payment
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// SaveTransition writes the booking's new state and, when given, the payment in
// one transaction. The booking update only applies while its status is still from.
func (r *repository) SaveTransition(ctx context.Context, b *domain.Booking, from domain.BookingStatus, p *domain.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p != nil {
			if err := tx.Save(p).Error; err != nil {
				if database.IsUniqueViolation(err) {
					return domain.NewConflict("PAYMENT_EXISTS", "Payment already exists for this booking.")
				}
				return err
			}
			if b.PaymentID == nil {
				id := p.ID
				b.PaymentID = &id
			}
		}

		res := tx.Model(&domain.Booking{}).
			Where("id = ? AND status = ?", b.ID, from).
			Updates(map[string]any{
				"status":         b.Status,
				"decline_reason": b.DeclineReason,
				"payment_id":     b.PaymentID,
				"updated_at":     time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleBooking
		}
		return nil
	})
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Booking{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) DeleteHistory(ctx context.Context, laborID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("labor_id = ? AND status IN ?", laborID, terminalStatuses).
		Delete(&domain.Booking{})
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteTerminalBefore(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?", terminalStatuses, before).
		Delete(&domain.Booking{})
	return res.RowsAffected, res.Error
}
