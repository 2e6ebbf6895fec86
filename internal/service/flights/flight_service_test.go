package flights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/flightreservation/internal/domain"
	"github.com/Domenick1991/flightreservation/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlightCache struct {
	mock.Mock
}

func (m *MockFlightCache) GetFlights(ctx context.Context) ([]domain.FlightSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightSummary), args.Error(1)
}

func (m *MockFlightCache) SetFlights(ctx context.Context, flights []domain.FlightSummary) error {
	args := m.Called(ctx, flights)
	return args.Error(0)
}

func (m *MockFlightCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var now = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

func domesticInput(number string, departIn time.Duration) RegisterFlightInput {
	dep := now.Add(departIn)
	return RegisterFlightInput{
		Number:      number,
		Kind:        domain.FlightKindDomestic,
		Origin:      "Istanbul",
		Destination: "Ankara",
		Departure:   dep,
		Arrival:     dep.Add(75 * time.Minute),
		BasePrice:   1000,
	}
}

func newService(cache FlightCache) (*FlightService, repository.FlightRepository) {
	repo := repository.NewFlightRepository()
	return NewFlightService(repo, cache, WithClock(domain.FixedClock(now)), WithDomesticTaxRate(0.08)), repo
}

func TestFlightService_Register(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(nil)

	summary, err := svc.Register(ctx, domesticInput("TK101", 48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "TK101", summary.Number)
	assert.Equal(t, 50, summary.TotalSeats)
	assert.Equal(t, int64(75), summary.DurationMinutes)

	f, err := repo.GetByNumber(ctx, "TK101")
	require.NoError(t, err)
	assert.InDelta(t, 0.08, f.(*domain.DomesticFlight).DomesticTaxRate(), 1e-9)

	_, err = svc.Register(ctx, domesticInput("TK101", 72*time.Hour))
	assert.ErrorIs(t, err, domain.ErrFlightExists)

	intl := domesticInput("TK1821", 96*time.Hour)
	intl.Kind = "international"
	summary, err = svc.Register(ctx, intl)
	require.NoError(t, err)
	assert.Equal(t, domain.FlightKindInternational, summary.Kind)
	assert.Equal(t, 100, summary.TotalSeats)
}

func TestFlightService_Register_Invalid(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(nil)

	bad := domesticInput("", time.Hour)
	_, err := svc.Register(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidFlight)

	bad = domesticInput("TK1", time.Hour)
	bad.Kind = "CARGO"
	_, err = svc.Register(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidFlight)

	bad = domesticInput("TK1", time.Hour)
	bad.BasePrice = -5
	_, err = svc.Register(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestFlightService_List_CacheHit(t *testing.T) {
	ctx := context.Background()
	cache := &MockFlightCache{}
	svc, _ := newService(cache)

	cached := []domain.FlightSummary{{Number: "TK999"}}
	cache.On("GetFlights", ctx).Return(cached, nil)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, cached, got)
	cache.AssertNotCalled(t, "SetFlights", mock.Anything, mock.Anything)
}

func TestFlightService_List_CacheMiss(t *testing.T) {
	ctx := context.Background()
	cache := &MockFlightCache{}
	svc, _ := newService(cache)

	cache.On("InvalidateFlights", ctx).Return(nil)
	_, err := svc.Register(ctx, domesticInput("TK2", 72*time.Hour))
	require.NoError(t, err)
	_, err = svc.Register(ctx, domesticInput("TK1", 48*time.Hour))
	require.NoError(t, err)

	cache.On("GetFlights", ctx).Return(nil, nil)
	cache.On("SetFlights", ctx, mock.MatchedBy(func(s []domain.FlightSummary) bool {
		return len(s) == 2 && s[0].Number == "TK1"
	})).Return(nil)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "TK1", got[0].Number)
	cache.AssertExpectations(t)
}

func TestFlightService_List_CacheErrorFallsBack(t *testing.T) {
	ctx := context.Background()
	cache := &MockFlightCache{}
	svc, _ := newService(cache)

	cache.On("InvalidateFlights", ctx).Return(errors.New("redis down"))
	_, err := svc.Register(ctx, domesticInput("TK1", 48*time.Hour))
	require.NoError(t, err)

	cache.On("GetFlights", ctx).Return(nil, errors.New("redis down"))
	cache.On("SetFlights", ctx, mock.Anything).Return(errors.New("redis down"))

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFlightService_GetAndSeats(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(nil)
	_, err := svc.Register(ctx, domesticInput("TK101", 48*time.Hour))
	require.NoError(t, err)

	f, _ := repo.GetByNumber(ctx, "TK101")
	_, err = f.Inventory().ReserveFirst(10)
	require.NoError(t, err)

	summary, err := svc.Get(ctx, "TK101")
	require.NoError(t, err)
	assert.Equal(t, 40, summary.AvailableSeats)
	assert.Zero(t, summary.AvailableByClass[domain.ClassBusiness])

	seats, err := svc.AvailableSeats(ctx, "TK101")
	require.NoError(t, err)
	require.Len(t, seats, 40)
	assert.Equal(t, "D11", seats[0].Number)

	_, err = svc.Get(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	_, err = svc.AvailableSeats(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
}

func TestFlightService_AvailableSeatsWhileBooking(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(nil)
	_, err := svc.Register(ctx, domesticInput("TK101", 48*time.Hour))
	require.NoError(t, err)
	f, err := repo.GetByNumber(ctx, "TK101")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			seats, err := f.Inventory().ReserveFirst(1)
			if err == nil {
				_ = f.Inventory().Release(seats)
			}
		}
	}()

	for i := 0; i < 500; i++ {
		seats, err := svc.AvailableSeats(ctx, "TK101")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(seats), 49)
	}
	<-done
}

func TestFlightService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(nil)
	_, err := svc.Register(ctx, domesticInput("TK101", 48*time.Hour))
	require.NoError(t, err)

	summary, err := svc.UpdateStatus(ctx, "TK101", domain.FlightStatusDelayed)
	require.NoError(t, err)
	assert.Equal(t, domain.FlightStatusDelayed, summary.Status)

	_, err = svc.UpdateStatus(ctx, "TK101", "TELEPORTED")
	assert.ErrorIs(t, err, domain.ErrInvalidFlight)
}

func TestFlightService_ChangeSchedule(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(nil)
	_, err := svc.Register(ctx, domesticInput("TK101", 48*time.Hour))
	require.NoError(t, err)
	_, err = svc.Register(ctx, domesticInput("TK102", 10*time.Hour))
	require.NoError(t, err)

	newDep := now.Add(72 * time.Hour)
	summary, err := svc.ChangeSchedule(ctx, "TK101", newDep, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, newDep, summary.DepartureTime)
	// zero arrival keeps the current one
	assert.Equal(t, now.Add(48*time.Hour+75*time.Minute), summary.ArrivalTime)

	_, err = svc.ChangeSchedule(ctx, "TK102", newDep, newDep.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrChangeNotAllowed)
}
