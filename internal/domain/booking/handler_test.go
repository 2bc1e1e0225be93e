package booking

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

	"laborhub/internal/domain"
	"laborhub/internal/middleware"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := newFixture(t)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User-ID"); id != "" {
			uid, _ := strconv.ParseInt(id, 10, 64)
			c.Set(middleware.CtxUserID, uid)
			c.Set(middleware.CtxRole, c.GetHeader("X-Test-Role"))
		}
		c.Next()
	})
	NewHandler(f.svc).RegisterRoutes(r.Group("/api/v1"))
	return r, f
}

func doJSON(r http.Handler, method, path string, body any, userID int64, role string) *httptest.ResponseRecorder {
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
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}

func (f *fixture) requestBody() map[string]any {
	return map[string]any{
		"laborId":         f.labor.ID,
		"service":         "Plumber",
		"bookingDate":     "2030-05-01",
		"bookingTime":     "10:00",
		"paymentType":     "Hourly",
		"hours":           4,
		"locationAddress": "12 Main St",
		"locationCoordinates": map[string]float64{
			"lat": 43.25,
			"lng": 76.95,
		},
	}
}

func TestHandler_CreateBooking(t *testing.T) {
	r, f := setupTestRouter(t)

	rr := doJSON(r, http.MethodPost, "/api/v1/bookings", f.requestBody(), f.customer.ID, domain.RoleCustomer)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	env := decode(t, rr)
	var data struct {
		Booking     BookingResponse `json:"booking"`
		TotalAmount float64         `json:"totalAmount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 3000.0, data.TotalAmount)
	assert.Equal(t, domain.BookingPending, data.Booking.Status)
	assert.Equal(t, f.customer.ID, data.Booking.CustomerID)
	require.NotNil(t, data.Booking.Location)
	assert.Equal(t, 43.25, *data.Booking.Location.Lat)
	require.NotNil(t, data.Booking.Labor)
	assert.Equal(t, "Aziz", data.Booking.Labor.Name)
}

func TestHandler_CreateBooking_ConflictIsBadRequest(t *testing.T) {
	r, f := setupTestRouter(t)

	rr := doJSON(r, http.MethodPost, "/api/v1/bookings", f.requestBody(), f.customer.ID, domain.RoleCustomer)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(r, http.MethodPost, "/api/v1/bookings", f.requestBody(), f.customer.ID, domain.RoleCustomer)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	env := decode(t, rr)
	assert.Equal(t, "BOOKING_CONFLICT", env.Error.Code)
	assert.Equal(t, "Labor is already booked for this date and time.", env.Error.Message)
}

func TestHandler_CreateBooking_Guards(t *testing.T) {
	r, f := setupTestRouter(t)

	body := f.requestBody()
	body["customerId"] = f.customer.ID + 7
	rr := doJSON(r, http.MethodPost, "/api/v1/bookings", body, f.customer.ID, domain.RoleCustomer)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(r, http.MethodPost, "/api/v1/bookings", f.requestBody(), f.labor.ID, domain.RoleLabor)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	missing := map[string]any{"laborId": f.labor.ID}
	rr = doJSON(r, http.MethodPost, "/api/v1/bookings", missing, f.customer.ID, domain.RoleCustomer)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	env := decode(t, rr)
	assert.Equal(t, "Missing required fields: service, bookingDate, bookingTime, paymentType", env.Error.Message)
}

func TestHandler_CreateBooking_LimitDetails(t *testing.T) {
	r, f := setupTestRouter(t)

	for i := 0; i < 10; i++ {
		body := f.requestBody()
		body["bookingTime"] = fmt.Sprintf("%02d:00", 8+i)
		rr := doJSON(r, http.MethodPost, "/api/v1/bookings", body, f.customer.ID, domain.RoleCustomer)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	body := f.requestBody()
	body["bookingTime"] = "20:00"
	rr := doJSON(r, http.MethodPost, "/api/v1/bookings", body, f.customer.ID, domain.RoleCustomer)
	require.Equal(t, http.StatusForbidden, rr.Code)
	env := decode(t, rr)
	assert.Equal(t, "BOOKING_LIMIT_EXCEEDED", env.Error.Code)
	assert.Equal(t, "Booking limit exceeded.", env.Error.Message)
	assert.Equal(t, float64(10), env.Error.Details["limit"])
	assert.Equal(t, "basic", env.Error.Details["upgrade_to"])
}

func TestHandler_StatusFlow(t *testing.T) {
	r, f := setupTestRouter(t)
	b := f.create(t)
	path := fmt.Sprintf("/api/v1/bookings/%d/status", b.ID)

	rr := doJSON(r, http.MethodPatch, path, UpdateStatusRequest{Status: "Accepted"}, f.customer.ID, domain.RoleCustomer)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(r, http.MethodPatch, path, UpdateStatusRequest{Status: "Accepted"}, f.labor.ID, domain.RoleLabor)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doJSON(r, http.MethodPatch, path, UpdateStatusRequest{Status: "Completed"}, f.labor.ID, domain.RoleLabor)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(r, http.MethodPatch, path, UpdateStatusRequest{Status: "Cancelled", DeclineReason: "sick"}, f.labor.ID, domain.RoleLabor)
	require.Equal(t, http.StatusOK, rr.Code)
	var got BookingResponse
	require.NoError(t, json.Unmarshal(decode(t, rr).Data, &got))
	assert.Equal(t, domain.BookingCancelled, got.Status)
	assert.Equal(t, "sick", got.DeclineReason)
}

func TestHandler_ListAndGet(t *testing.T) {
	r, f := setupTestRouter(t)
	b := f.create(t)

	rr := doJSON(r, http.MethodGet, fmt.Sprintf("/api/v1/bookings/customer/%d", f.customer.ID), nil, f.customer.ID, domain.RoleCustomer)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []BookingResponse
	require.NoError(t, json.Unmarshal(decode(t, rr).Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	rr = doJSON(r, http.MethodGet, fmt.Sprintf("/api/v1/bookings/customer/%d", f.customer.ID+1), nil, f.customer.ID, domain.RoleCustomer)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(r, http.MethodGet, fmt.Sprintf("/api/v1/bookings/labor/%d", f.labor.ID), nil, f.labor.ID, domain.RoleLabor)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(r, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d", b.ID), nil, f.daily.ID, domain.RoleLabor)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(r, http.MethodGet, "/api/v1/bookings/9999", nil, f.customer.ID, domain.RoleCustomer)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(r, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d/amount", b.ID), nil, f.customer.ID, domain.RoleCustomer)
	require.Equal(t, http.StatusOK, rr.Code)
	var q AmountQuote
	require.NoError(t, json.Unmarshal(decode(t, rr).Data, &q))
	assert.Equal(t, 3000.0, q.Amount)
	assert.Equal(t, b.ID, q.BookingID)
}

func TestHandler_DeleteAndClearHistory(t *testing.T) {
	r, f := setupTestRouter(t)
	b := f.create(t)

	rr := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/v1/bookings/%d", b.ID), nil, f.customer.ID, domain.RoleCustomer)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(r, http.MethodDelete, "/api/v1/bookings/labor/history/clear", nil, f.labor.ID, domain.RoleLabor)
	require.Equal(t, http.StatusOK, rr.Code)
	var data struct {
		Deleted int64 `json:"deleted"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rr).Data, &data))
	assert.Equal(t, int64(0), data.Deleted)
}
