package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/showtime-booking/internal/booking"
	"github.com/iliyamo/showtime-booking/internal/catalog/catalogtest"
	"github.com/iliyamo/showtime-booking/internal/handler"
	"github.com/iliyamo/showtime-booking/internal/inventory"
	"github.com/iliyamo/showtime-booking/internal/metrics"
	"github.com/iliyamo/showtime-booking/internal/payment"
	"github.com/iliyamo/showtime-booking/internal/repository"
	"github.com/iliyamo/showtime-booking/internal/router"
)

func newServer(t *testing.T, decide payment.Decider) *echo.Echo {
	t.Helper()
	cat := catalogtest.Store(t)
	inv, err := inventory.FromCatalog(cat)
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	mgr := booking.NewManager(cat, inv, repository.NewBookingRepo(), booking.WithMetrics(m))
	proc := payment.NewProcessor(mgr, repository.NewPaymentRepo(),
		payment.WithDecider(decide), payment.WithCatalog(cat), payment.WithMetrics(m))

	return router.New(router.Deps{
		Catalog:  &handler.CatalogHandler{Catalog: cat},
		Seats:    &handler.SeatHandler{Catalog: cat, Inventory: inv},
		Bookings: &handler.BookingHandler{Bookings: mgr},
		Payments: &handler.PaymentHandler{Payments: proc},
		Gatherer: reg,
		Metrics:  m,
	})
}

func do(t *testing.T, e *echo.Echo, method, target, body string, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var out map[string]any
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestHealthAndMetrics(t *testing.T) {
	e := newServer(t, payment.AlwaysSucceed())

	rec, _ := do(t, e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	do(t, e, http.MethodGet, "/v1/movies", "")
	rec, _ = do(t, e, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "showtime_http_requests_total")
}

func TestBrowseEndpoints(t *testing.T) {
	e := newServer(t, payment.AlwaysSucceed())

	rec, body := do(t, e, http.MethodGet, "/v1/movies", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["movies"], 2)

	rec, body = do(t, e, http.MethodGet, "/v1/movies/mv001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dune: Part Two", body["title"])

	rec, body = do(t, e, http.MethodGet, "/v1/movies/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", body["error"])

	rec, body = do(t, e, http.MethodGet, "/v1/theaters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["theaters"], 2)

	_, body = do(t, e, http.MethodGet, "/v1/theaters?location=NY", "")
	theaters := body["theaters"].([]any)
	require.Len(t, theaters, 1)
	assert.Equal(t, "th002", theaters[0].(map[string]any)["theater_id"])

	rec, body = do(t, e, http.MethodGet, "/v1/theaters/th002", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "10023", body["zip_code"])

	_, body = do(t, e, http.MethodGet, "/v1/now-showing?location=Boston", "")
	assert.Len(t, body["movies"], 1)

	_, body = do(t, e, http.MethodGet, "/v1/recommendations?mood=funny", "")
	assert.Len(t, body["recommendations"], 1)

	_, body = do(t, e, http.MethodGet, "/v1/showtimes?movie_id=mv001", "")
	showtimes := body["showtimes"].([]any)
	require.Len(t, showtimes, 1)
	first := showtimes[0].(map[string]any)
	assert.Equal(t, "AMC Boston Common 19", first["theater_name"])
	assert.Equal(t, "15.5", first["price"])

	_, body = do(t, e, http.MethodGet, "/v1/showtimes?location=New%20York", "")
	assert.Len(t, body["showtimes"], 1)

	rec, body = do(t, e, http.MethodGet, "/v1/showtimes?date=28-10-2025", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "date", body["field"])

	rec, _ = do(t, e, http.MethodGet, "/v1/showtimes?theater_id=th999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookAndPayOverHTTP(t *testing.T) {
	e := newServer(t, payment.AlwaysSucceed())

	rec, body := do(t, e, http.MethodPost, "/v1/bookings", `{"showtime_id":"st001","seats":["a5","A6"],"user_id":"user123"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bookingID := body["booking_id"].(string)
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "37", body["total_price"])

	_, body = do(t, e, http.MethodGet, "/v1/showtimes/st001/seats", "")
	assert.EqualValues(t, 8, body["available"])

	rec, body = do(t, e, http.MethodPost, "/v1/payments", `{"booking_id":"`+bookingID+`","payment_method":"card","amount":36.99}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "amount_mismatch", body["error"])

	rec, body = do(t, e, http.MethodPost, "/v1/payments", `{"booking_id":"`+bookingID+`","payment_method":"card","amount":37.00}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "success", body["payment_status"])
	assert.Equal(t, "confirmed", body["booking_status"])
	paymentID := body["payment_id"].(string)
	assert.Equal(t, "https://amc.com/receipts/"+paymentID, body["receipt_url"])
	confirmation := body["confirmation"].(map[string]any)
	assert.Equal(t, "Dune: Part Two", confirmation["movie"])

	rec, body = do(t, e, http.MethodGet, "/v1/payments/"+paymentID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, bookingID, body["booking_id"])

	rec, body = do(t, e, http.MethodGet, "/v1/bookings/"+bookingID+"/payments", "")
	require.Equal(t, http.StatusOK, rec.Code)
	payments := body["payments"].([]any)
	require.Len(t, payments, 1)
	assert.Equal(t, paymentID, payments[0].(map[string]any)["payment_id"])

	rec, body = do(t, e, http.MethodPost, "/v1/payments", `{"booking_id":"`+bookingID+`","payment_method":"card","amount":"37.00"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "invalid_state", body["error"])

	rec, body = do(t, e, http.MethodPost, "/v1/bookings", `{"showtime_id":"st001","seats":["A5"],"user_id":"other"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "seat_unavailable", body["error"])
	assert.Equal(t, []any{"A5"}, body["seats"])

	rec, body = do(t, e, http.MethodPost, "/v1/bookings/"+bookingID+"/cancel", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "invalid_state", body["error"])
}

func TestBookingEndpointsValidation(t *testing.T) {
	e := newServer(t, payment.AlwaysSucceed())

	cases := []struct {
		body  string
		code  int
		error string
	}{
		{`{not json`, http.StatusBadRequest, "validation_failed"},
		{`{"seats":["A1"],"user_id":"u1"}`, http.StatusBadRequest, "validation_failed"},
		{`{"showtime_id":"st001","seats":[],"user_id":"u1"}`, http.StatusBadRequest, "empty_seat_selection"},
		{`{"showtime_id":"st001","seats":["A1","a1"],"user_id":"u1"}`, http.StatusBadRequest, "duplicate_seat_label"},
		{`{"showtime_id":"st001","seats":["A1"]}`, http.StatusBadRequest, "validation_failed"},
		{`{"showtime_id":"st999","seats":["A1"],"user_id":"u1"}`, http.StatusNotFound, "not_found"},
	}
	for _, tc := range cases {
		rec, body := do(t, e, http.MethodPost, "/v1/bookings", tc.body)
		assert.Equal(t, tc.code, rec.Code, tc.body)
		assert.Equal(t, tc.error, body["error"], tc.body)
	}

	rec, body := do(t, e, http.MethodPost, "/v1/payments", `{"booking_id":"x","payment_method":"card"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "amount", body["field"])

	rec, _ = do(t, e, http.MethodGet, "/v1/bookings/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, e, http.MethodGet, "/v1/bookings/missing/payments", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserIDFromHeaderAndListing(t *testing.T) {
	e := newServer(t, payment.AlwaysSucceed())

	rec, body := do(t, e, http.MethodPost, "/v1/bookings", `{"showtime_id":"st002","seats":["A1"]}`, "X-User-ID", "user-9")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "user-9", body["user_id"])
	assert.Equal(t, "17", body["total_price"])
	bookingID := body["booking_id"].(string)

	_, body = do(t, e, http.MethodGet, "/v1/users/user-9/bookings", "")
	assert.Len(t, body["bookings"], 1)

	rec, body = do(t, e, http.MethodPost, "/v1/bookings/"+bookingID+"/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cancelled", body["status"])

	_, body = do(t, e, http.MethodGet, "/v1/showtimes/st002/seats", "")
	assert.EqualValues(t, 3, body["available"])
}

func TestDeclinedPaymentOverHTTP(t *testing.T) {
	e := newServer(t, payment.AlwaysFail())

	_, body := do(t, e, http.MethodPost, "/v1/bookings", `{"showtime_id":"st002","seats":["A2"],"user_id":"u1"}`)
	bookingID := body["booking_id"].(string)

	rec, body := do(t, e, http.MethodPost, "/v1/payments", `{"booking_id":"`+bookingID+`","payment_method":"card","amount":"17.00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "failed", body["payment_status"])
	assert.Equal(t, "expired", body["booking_status"])
	assert.Nil(t, body["receipt_url"])
}
