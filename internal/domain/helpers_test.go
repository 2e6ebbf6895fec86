package domain

import "time"

// testNow is in low season.
var testNow = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time {
	return c.now
}

func newTestPassengers(n int) []*Passenger {
	out := make([]*Passenger, n)
	for i := range out {
		out[i] = NewPassenger("Test", "User", testNow.AddDate(-30, 0, 0),
			"X12345", "Turkish", "test@example.com", "+905551234567")
	}
	return out
}

func newTestDomestic(clock Clock, departIn time.Duration) *DomesticFlight {
	dep := clock.Now().Add(departIn)
	return NewDomesticFlight("TK101", "Istanbul", "Ankara", dep, dep.Add(2*time.Hour), 1000, 0.18,
		WithFlightClock(clock))
}
