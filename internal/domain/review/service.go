package review

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"laborhub/internal/domain"
)

const maxCommentLen = 2000

type bookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

type reviewRepo interface {
	Create(ctx context.Context, rv *domain.Review) error
	ExistsForBooking(ctx context.Context, bookingID int64) (bool, error)
	GetByLabor(ctx context.Context, laborID int64, limit, offset int) ([]domain.Review, error)
	StatsForLabor(ctx context.Context, laborID int64) (Stats, error)
}

type Service struct {
	repo     reviewRepo
	bookings bookingReader
	effects  domain.EffectSink
	log      *zap.Logger
}

func NewService(repo reviewRepo, bookings bookingReader, effects domain.EffectSink, log *zap.Logger) *Service {
	if effects == nil {
		effects = domain.DiscardEffects{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, bookings: bookings, effects: effects, log: log}
}

type CreateInput struct {
	BookingID int64
	Rating    int
	Comment   string
}

// Create records the customer's single review of a completed booking.
func (s *Service) Create(ctx context.Context, customerID int64, in CreateInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}
	comment := strings.TrimSpace(in.Comment)
	if utf8.RuneCountInString(comment) > maxCommentLen {
		return nil, ErrCommentTooLong
	}

	b, err := s.bookings.GetByID(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, ErrNotBookingOwner
	}
	if b.Status != domain.BookingCompleted {
		return nil, ErrBookingNotDone
	}

	exists, err := s.repo.ExistsForBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	rv := &domain.Review{
		BookingID:  b.ID,
		CustomerID: customerID,
		LaborID:    b.LaborID,
		Rating:     in.Rating,
		Comment:    comment,
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, err
	}

	s.log.Info("review posted",
		zap.Int64("review_id", rv.ID),
		zap.Int64("booking_id", b.ID),
		zap.Int64("labor_id", b.LaborID),
		zap.Int("rating", rv.Rating),
	)
	s.effects.Dispatch(
		domain.Notify(b.LaborID, domain.RoleLabor,
			fmt.Sprintf("%s left you a %d-star review.", b.CustomerName, rv.Rating),
			domain.SeverityInfo, fmt.Sprintf("/labors/%d/reviews", b.LaborID)),
		domain.Publish(domain.EventReviewPosted, rv.ID, rv),
	)
	return rv, nil
}

type LaborReviews struct {
	Reviews []domain.Review `json:"reviews"`
	Stats   Stats           `json:"stats"`
}

func (s *Service) ListForLabor(ctx context.Context, laborID int64, limit, offset int) (*LaborReviews, error) {
	list, err := s.repo.GetByLabor(ctx, laborID, limit, offset)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.StatsForLabor(ctx, laborID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Review{}
	}
	return &LaborReviews{Reviews: list, Stats: stats}, nil
}
