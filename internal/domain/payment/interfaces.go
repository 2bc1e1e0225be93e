package payment

import (
	"context"

	"laborhub/internal/domain"
)

// bookingStore is satisfied by booking.Repository.
type bookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	PaymentFor(ctx context.Context, bookingID int64) (*domain.Payment, error)
	SaveTransition(ctx context.Context, b *domain.Booking, from domain.BookingStatus, p *domain.Payment) error
}

type paymentRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
}

type laborReader interface {
	GetLabor(ctx context.Context, id int64) (*domain.Labor, error)
}

// feeResolver is satisfied by subscription.Service.
type feeResolver interface {
	CompanyFee(ctx context.Context, customerID int64) (float64, error)
}

// bookingDecliner is satisfied by booking.Service.
type bookingDecliner interface {
	DeclineLoaded(ctx context.Context, b *domain.Booking, p *domain.Payment, reason string) ([]domain.Effect, error)
}
