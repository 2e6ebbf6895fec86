package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDomesticFlight_SeatLayout(t *testing.T) {
	f := newTestDomestic(FixedClock(testNow), 7*24*time.Hour)

	seats := f.Seats()
	require.Len(t, seats, 50)
	assert.Equal(t, "D1", seats[0].Number())
	assert.Equal(t, ClassBusiness, seats[0].Class())
	assert.Equal(t, "D10", seats[9].Number())
	assert.Equal(t, ClassBusiness, seats[9].Class())
	assert.Equal(t, "D11", seats[10].Number())
	assert.Equal(t, ClassEconomy, seats[10].Class())
	assert.Equal(t, "D50", seats[49].Number())

	assert.Equal(t, FlightKindDomestic, f.Kind())
	assert.Equal(t, FlightStatusScheduled, f.Status())
	assert.Len(t, f.AvailableSeats(), 50)
}

func TestNewInternationalFlight_SeatLayout(t *testing.T) {
	dep := testNow.Add(10 * 24 * time.Hour)
	f := NewInternationalFlight("TK202", "Istanbul", "Paris", dep, dep.Add(3*time.Hour), 5000)

	seats := f.Seats()
	require.Len(t, seats, 100)
	assert.Equal(t, ClassFirst, seats[0].Class())
	assert.Equal(t, "I10", seats[9].Number())
	assert.Equal(t, ClassFirst, seats[9].Class())
	assert.Equal(t, "I11", seats[10].Number())
	assert.Equal(t, ClassBusiness, seats[10].Class())
	assert.Equal(t, "I31", seats[30].Number())
	assert.Equal(t, ClassEconomy, seats[30].Class())
	assert.Equal(t, "I100", seats[99].Number())

	assert.Equal(t, FlightKindInternational, f.Kind())
	assert.Equal(t, []string{"Passport", "Visa", "Vaccination Certificate"}, f.RequiredDocuments())

	docs := f.RequiredDocuments()
	docs[0] = "changed"
	assert.Equal(t, "Passport", f.RequiredDocuments()[0])
}

func TestFlight_DurationMinutes(t *testing.T) {
	dep := testNow.Add(48 * time.Hour)

	f := NewDomesticFlight("TK1", "A", "B", dep, dep.Add(95*time.Minute), 100, 0.18)
	assert.Equal(t, int64(95), f.DurationMinutes())

	backwards := NewDomesticFlight("TK2", "A", "B", dep, dep.Add(-30*time.Minute), 100, 0.18)
	assert.Equal(t, int64(-30), backwards.DurationMinutes())
}

func TestFlight_AvailableSeatsReflectReservations(t *testing.T) {
	f := newTestDomestic(FixedClock(testNow), 48*time.Hour)

	first := f.AvailableSeats()
	assert.Equal(t, first, f.AvailableSeats(), "repeated reads must not change state")

	_, err := f.Inventory().ReserveFirst(12)
	require.NoError(t, err)

	available := f.AvailableSeats()
	assert.Len(t, available, 38)
	assert.Equal(t, "D13", available[0].Number())
	assert.Equal(t, len(f.Seats()), len(available)+f.Inventory().ReservedCount())
}

func TestFlight_IsChangeAllowed(t *testing.T) {
	tests := []struct {
		name   string
		flight func(Clock) Changeable
		want   bool
	}{
		{"domestic 10h", domesticAt(10 * time.Hour), false},
		{"domestic just under 24h", domesticAt(24*time.Hour - time.Minute), false},
		{"domestic exactly 24h", domesticAt(24 * time.Hour), true},
		{"domestic 7 days", domesticAt(7 * 24 * time.Hour), true},
		{"international 71h", internationalAt(71 * time.Hour), false},
		{"international 72h", internationalAt(72 * time.Hour), true},
		{"departed", domesticAt(-2 * time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.flight(FixedClock(testNow))
			assert.Equal(t, tt.want, f.IsChangeAllowed())
		})
	}
}

func domesticAt(in time.Duration) func(Clock) Changeable {
	return func(c Clock) Changeable {
		return newTestDomestic(c, in)
	}
}

func internationalAt(in time.Duration) func(Clock) Changeable {
	return func(c Clock) Changeable {
		dep := c.Now().Add(in)
		return NewInternationalFlight("TK202", "Istanbul", "Paris", dep, dep.Add(3*time.Hour), 5000,
			WithFlightClock(c))
	}
}

func TestFlight_CalculateChangeFee(t *testing.T) {
	d := newTestDomestic(FixedClock(testNow), 48*time.Hour)
	assert.InDelta(t, 100.0, d.CalculateChangeFee(), 1e-9)

	i := NewInternationalFlight("TK202", "Istanbul", "Paris", testNow, testNow, 5000)
	assert.InDelta(t, 1000.0, i.CalculateChangeFee(), 1e-9)
}

func TestFlight_Change(t *testing.T) {
	clock := FixedClock(testNow)
	f := newTestDomestic(clock, 7*24*time.Hour)

	newDep := testNow.Add(8 * 24 * time.Hour)
	req := NewChangeRequest("BK-1", newDep, newDep.Add(2*time.Hour), []string{"D20"})
	require.NoError(t, f.Change(req))

	assert.Equal(t, newDep, f.DepartureTime())
	assert.Equal(t, newDep.Add(2*time.Hour), f.ArrivalTime())
	// seat numbers are applied by the booking, not the flight
	assert.Equal(t, 0, f.Inventory().ReservedCount())
}

// 10 hours before a domestic departure the change is refused and the schedule is untouched.
func TestFlight_Change_InsideWindow(t *testing.T) {
	f := newTestDomestic(FixedClock(testNow), 10*time.Hour)
	dep, arr := f.DepartureTime(), f.ArrivalTime()

	assert.False(t, f.IsChangeAllowed())
	req := NewChangeRequest("BK-1", dep.Add(24*time.Hour), arr.Add(24*time.Hour), nil)
	err := f.Change(req)
	assert.ErrorIs(t, err, ErrChangeNotAllowed)
	assert.True(t, IsWindowError(err))
	assert.Equal(t, dep, f.DepartureTime())
	assert.Equal(t, arr, f.ArrivalTime())
}

func TestDomesticFlight_Tax(t *testing.T) {
	f := newTestDomestic(FixedClock(testNow), 48*time.Hour)
	assert.InDelta(t, 0.18, f.DomesticTaxRate(), 1e-9)
	assert.InDelta(t, 180.0, f.CalculateDomesticTax(), 1e-9)
}

func TestFlight_SetStatus(t *testing.T) {
	f := newTestDomestic(FixedClock(testNow), 48*time.Hour)
	f.SetStatus(FlightStatusDelayed)
	assert.Equal(t, FlightStatusDelayed, f.Status())

	assert.True(t, FlightStatusBoarding.Valid())
	assert.False(t, FlightStatus("LOST").Valid())

	g := NewDomesticFlight("TK3", "A", "B", testNow, testNow, 1, 0, WithFlightStatus(FlightStatusCancelled))
	assert.Equal(t, FlightStatusCancelled, g.Status())
}

func TestChangeRequest(t *testing.T) {
	seats := []string{"D1"}
	req := NewChangeRequest("BK-1", testNow, testNow.Add(time.Hour), seats)
	seats[0] = "D9"

	assert.Equal(t, "BK-1", req.BookingID())
	assert.Equal(t, []string{"D1"}, req.NewSeatNumbers())
	assert.True(t, req.HasSeatChange())
	assert.False(t, NewChangeRequest("BK-1", testNow, testNow, nil).HasSeatChange())
}

func TestSummarize(t *testing.T) {
	f := newTestDomestic(FixedClock(testNow), 48*time.Hour)
	_, err := f.Inventory().ReserveFirst(3)
	require.NoError(t, err)

	s := Summarize(f)
	assert.Equal(t, "TK101", s.Number)
	assert.Equal(t, FlightKindDomestic, s.Kind)
	assert.Equal(t, 50, s.TotalSeats)
	assert.Equal(t, 47, s.AvailableSeats)
	assert.Equal(t, 7, s.AvailableByClass[ClassBusiness])
	assert.Equal(t, int64(120), s.DurationMinutes)
	assert.True(t, s.ChangeAllowed)
	assert.InDelta(t, 100.0, s.ChangeFee, 1e-9)
}
