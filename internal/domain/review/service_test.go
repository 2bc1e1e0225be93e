package review

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"laborhub/internal/database"
	"laborhub/internal/domain"
	"laborhub/internal/domain/booking"
	"laborhub/internal/middleware"
)

type countingSink struct {
	effects []domain.Effect
}

func (s *countingSink) Dispatch(effects ...domain.Effect) { s.effects = append(s.effects, effects...) }

func setup(t *testing.T) (*gorm.DB, *Service, *countingSink) {
	t.Helper()
	db, err := database.Connect(fmt.Sprintf("file:review_test_%s?mode=memory&cache=shared", t.Name()), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sink := &countingSink{}
	svc := NewService(NewReviewRepository(db), booking.NewRepository(db), sink, zap.NewNop())
	return db, svc, sink
}

func seedBooking(t *testing.T, db *gorm.DB, clock string, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		CustomerID:   1,
		LaborID:      2,
		CustomerName: "Dana",
		Service:      domain.SkillPlumber,
		BookingDate:  "2030-05-01",
		BookingTime:  clock,
		PaymentType:  domain.PaymentTypeHourly,
		Hours:        2,
		Status:       status,
	}
	require.NoError(t, db.Create(b).Error)
	return b
}

func TestCreate_CompletedBookingOnce(t *testing.T) {
	db, svc, sink := setup(t)
	b := seedBooking(t, db, "09:00", domain.BookingCompleted)
	ctx := context.Background()

	rv, err := svc.Create(ctx, 1, CreateInput{BookingID: b.ID, Rating: 5, Comment: " great work "})
	require.NoError(t, err)
	assert.Equal(t, int64(2), rv.LaborID)
	assert.Equal(t, "great work", rv.Comment)
	require.Len(t, sink.effects, 2)
	assert.Equal(t, int64(2), sink.effects[0].RecipientID)
	assert.Contains(t, sink.effects[0].Message, "5-star")

	_, err = svc.Create(ctx, 1, CreateInput{BookingID: b.ID, Rating: 3})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestCreate_Rules(t *testing.T) {
	db, svc, _ := setup(t)
	ctx := context.Background()
	ongoing := seedBooking(t, db, "10:00", domain.BookingOngoing)
	done := seedBooking(t, db, "11:00", domain.BookingCompleted)

	_, err := svc.Create(ctx, 1, CreateInput{BookingID: done.ID, Rating: 0})
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = svc.Create(ctx, 1, CreateInput{BookingID: done.ID, Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.Create(ctx, 1, CreateInput{BookingID: ongoing.ID, Rating: 4})
	assert.ErrorIs(t, err, ErrBookingNotDone)

	_, err = svc.Create(ctx, 99, CreateInput{BookingID: done.ID, Rating: 4})
	assert.ErrorIs(t, err, ErrNotBookingOwner)

	_, err = svc.Create(ctx, 1, CreateInput{BookingID: 12345, Rating: 4})
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}

func TestListForLabor_Stats(t *testing.T) {
	db, svc, _ := setup(t)
	ctx := context.Background()

	for i, rating := range []int{5, 4, 3} {
		b := seedBooking(t, db, fmt.Sprintf("%02d:00", 8+i), domain.BookingCompleted)
		_, err := svc.Create(ctx, 1, CreateInput{BookingID: b.ID, Rating: rating})
		require.NoError(t, err)
	}

	res, err := svc.ListForLabor(ctx, 2, 10, 0)
	require.NoError(t, err)
	assert.Len(t, res.Reviews, 3)
	assert.Equal(t, int64(3), res.Stats.Count)
	assert.InDelta(t, 4.0, res.Stats.Average, 0.001)

	empty, err := svc.ListForLabor(ctx, 77, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, empty.Reviews)
	assert.Zero(t, empty.Stats.Count)
}

func TestHandler_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, svc, _ := setup(t)
	b := seedBooking(t, db, "09:00", domain.BookingCompleted)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User-ID"); id != "" {
			uid, _ := strconv.ParseInt(id, 10, 64)
			c.Set(middleware.CtxUserID, uid)
			c.Set(middleware.CtxRole, domain.RoleCustomer)
		}
		c.Next()
	})
	v1 := r.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(v1, v1)

	post := func() *httptest.ResponseRecorder {
		body, _ := json.Marshal(CreateReviewRequest{BookingID: b.ID, Rating: 4, Comment: "ok"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-User-ID", "1")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusCreated, post().Code)
	rr := post()
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "Review already submitted for this booking.")

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/labors/2/reviews", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
