package payment

import (
	"bytes"
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

	"laborhub/internal/domain"
	"laborhub/internal/middleware"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := newFixture(t)
	h := NewHandler(f.svc, zap.NewNop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User-ID"); id != "" {
			uid, _ := strconv.ParseInt(id, 10, 64)
			c.Set(middleware.CtxUserID, uid)
			c.Set(middleware.CtxRole, c.GetHeader("X-Test-Role"))
		}
		c.Next()
	})
	v1 := r.Group("/api/v1")
	h.RegisterProtectedRoutes(v1)
	h.RegisterInternalRoutes(v1.Group("/internal", middleware.InternalTokenAuth("secret", zap.NewNop())))
	return r, f
}

func doJSON(r http.Handler, method, path string, body any, userID int64, role string, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-Test-User-ID", strconv.FormatInt(userID, 10))
		req.Header.Set("X-Test-Role", role)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func TestHandler_CreateCardPayment(t *testing.T) {
	r, f := setupTestRouter(t)
	b := f.seedBooking(t, domain.BookingAccepted)

	body := map[string]any{
		"bookingId":     b.ID,
		"duration":      4,
		"paymentMethod": "card",
		"cardDetails": map[string]string{
			"cardNumber":     "4242424242424242",
			"cardholderName": "Dana",
			"expiry":         "12/39",
			"cvv":            "123",
		},
	}
	rr := doJSON(r, http.MethodPost, "/api/v1/payments", body, f.customer.ID, domain.RoleCustomer)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	var p PaymentResponse
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, domain.PaymentPaid, p.Status)
	assert.Equal(t, "4242", p.CardLast4)
	assert.Equal(t, 3000.0, p.TotalAmount)

	rr = doJSON(r, http.MethodGet, fmt.Sprintf("/api/v1/payments/%d", p.ID), nil, f.labor.ID, domain.RoleLabor)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHandler_CreatePayment_InvalidCard(t *testing.T) {
	r, f := setupTestRouter(t)
	b := f.seedBooking(t, domain.BookingAccepted)

	body := map[string]any{
		"bookingId":     b.ID,
		"duration":      4,
		"paymentMethod": "card",
		"cardDetails": map[string]string{
			"cardNumber":     "42",
			"cardholderName": "Dana",
			"expiry":         "01/20",
			"cvv":            "12a",
		},
	}
	rr := doJSON(r, http.MethodPost, "/api/v1/payments", body, f.customer.ID, domain.RoleCustomer)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "min", env.Error.Details["CardNumber"])
	assert.Equal(t, "card_expiry", env.Error.Details["Expiry"])
	assert.Equal(t, "numeric", env.Error.Details["CVV"])
	assert.Equal(t, domain.BookingAccepted, f.bookingStatus(t, b.ID))
}

func TestHandler_MarkPaidCashBeforeCompletion(t *testing.T) {
	r, f := setupTestRouter(t)
	b := f.seedBooking(t, domain.BookingAccepted)

	rr := doJSON(r, http.MethodPost, "/api/v1/payments",
		map[string]any{"bookingId": b.ID, "duration": 4, "paymentMethod": "cash"}, f.customer.ID, domain.RoleCustomer)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	var p PaymentResponse
	require.NoError(t, json.Unmarshal(env.Data, &p))

	rr = doJSON(r, http.MethodPatch, fmt.Sprintf("/api/v1/payments/%d/paid", p.ID), nil, f.customer.ID, domain.RoleCustomer)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "BOOKING_NOT_COMPLETED", env.Error.Code)
}

func TestHandler_InternalDeclined(t *testing.T) {
	r, f := setupTestRouter(t)
	b := f.seedBooking(t, domain.BookingPending)
	path := fmt.Sprintf("/api/v1/internal/bookings/%d/declined", b.ID)

	rr := doJSON(r, http.MethodPost, path, DeclinedRequest{Reason: "duplicate"}, 0, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(r, http.MethodPost, path, DeclinedRequest{Reason: "duplicate"}, 0, "", "Authorization", "Bearer secret")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, domain.BookingCancelled, f.bookingStatus(t, b.ID))
}

func TestHandler_CreatePayment_MethodCaseInsensitive(t *testing.T) {
	r, f := setupTestRouter(t)
	b := f.seedBooking(t, domain.BookingAccepted)

	body := map[string]any{
		"bookingId":     b.ID,
		"duration":      4,
		"paymentMethod": " CARD ",
		"cardDetails": map[string]string{
			"cardNumber":     "4242424242424242",
			"cardholderName": "Dana",
			"expiry":         "12/39",
			"cvv":            "123",
		},
	}
	rr := doJSON(r, http.MethodPost, "/api/v1/payments", body, f.customer.ID, domain.RoleCustomer)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	var p PaymentResponse
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, domain.MethodCard, p.PaymentMethod)
	assert.Equal(t, domain.PaymentPaid, p.Status)

	b2 := f.seedBookingAt(t, domain.BookingAccepted, 11)
	rr = doJSON(r, http.MethodPost, "/api/v1/payments",
		map[string]any{"bookingId": b2.ID, "duration": 4, "paymentMethod": "cheque"}, f.customer.ID, domain.RoleCustomer)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "oneof", env.Error.Details["PaymentMethod"])
}

func TestHandler_InternalDeclined_Body(t *testing.T) {
	r, f := setupTestRouter(t)

	send := func(bookingID int64, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost,
			fmt.Sprintf("/api/v1/internal/bookings/%d/declined", bookingID), bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer secret")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	malformed := f.seedBooking(t, domain.BookingPending)
	rr := send(malformed.ID, `{"reason": "dup`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, domain.BookingPending, f.bookingStatus(t, malformed.ID))

	empty := f.seedBookingAt(t, domain.BookingPending, 11)
	rr = send(empty.ID, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, domain.BookingCancelled, f.bookingStatus(t, empty.ID))
}
