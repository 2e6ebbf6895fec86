package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/flightreservation/internal/domain"
	"github.com/Domenick1991/flightreservation/internal/service/booking"
	"github.com/Domenick1991/flightreservation/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context) ([]domain.FlightSummary, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]domain.FlightSummary)
	return list, args.Error(1)
}

func (m *MockFlightUseCase) Get(ctx context.Context, number string) (domain.FlightSummary, error) {
	args := m.Called(ctx, number)
	return args.Get(0).(domain.FlightSummary), args.Error(1)
}

func (m *MockFlightUseCase) AvailableSeats(ctx context.Context, number string) ([]domain.SeatSummary, error) {
	args := m.Called(ctx, number)
	seats, _ := args.Get(0).([]domain.SeatSummary)
	return seats, args.Error(1)
}

func (m *MockFlightUseCase) Register(ctx context.Context, input flights.RegisterFlightInput) (domain.FlightSummary, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.FlightSummary), args.Error(1)
}

func (m *MockFlightUseCase) UpdateStatus(ctx context.Context, number string, status domain.FlightStatus) (domain.FlightSummary, error) {
	args := m.Called(ctx, number, status)
	return args.Get(0).(domain.FlightSummary), args.Error(1)
}

func (m *MockFlightUseCase) ChangeSchedule(ctx context.Context, number string, departure, arrival time.Time) (domain.FlightSummary, error) {
	args := m.Called(ctx, number, departure, arrival)
	return args.Get(0).(domain.FlightSummary), args.Error(1)
}

var _ flights.FlightUseCase = (*MockFlightUseCase)(nil)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *MockBookingUseCase) RefundBooking(ctx context.Context, id string) (booking.RefundResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(booking.RefundResult), args.Error(1)
}

func (m *MockBookingUseCase) PayBooking(ctx context.Context, id string, input booking.PaymentInput) (domain.PaymentProcessor, error) {
	args := m.Called(ctx, id, input)
	p, _ := args.Get(0).(domain.PaymentProcessor)
	return p, args.Error(1)
}

func (m *MockBookingUseCase) ChangeBooking(ctx context.Context, id string, input booking.ChangeBookingInput) (booking.ChangeResult, error) {
	args := m.Called(ctx, id, input)
	return args.Get(0).(booking.ChangeResult), args.Error(1)
}

func (m *MockBookingUseCase) Quote(ctx context.Context, input booking.QuoteInput) (booking.QuoteResult, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(booking.QuoteResult), args.Error(1)
}

var _ booking.BookingUseCase = (*MockBookingUseCase)(nil)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func newTestFlight() *domain.DomesticFlight {
	clock := domain.FixedClock(testNow)
	dep := testNow.Add(7 * 24 * time.Hour)
	return domain.NewDomesticFlight("TK101", "Istanbul", "Ankara", dep, dep.Add(time.Hour), 1000, 0.08,
		domain.WithFlightClock(clock))
}

func newConfirmedBooking(t *testing.T, passengers int) *domain.Booking {
	t.Helper()
	clock := domain.FixedClock(testNow)
	list := make([]*domain.Passenger, passengers)
	for i := range list {
		list[i] = domain.NewPassenger("Ayse", "Yilmaz", testNow.AddDate(-30, 0, 0),
			"U1234567", "Turkish", "ayse@example.com", "+905551234567")
	}
	b := domain.NewBooking(newTestFlight(), list, domain.NewStandardPricing(0.18, 0.05), false,
		domain.WithBookingClock(clock))
	require.NoError(t, b.CreateBooking())
	return b
}
