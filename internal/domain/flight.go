package domain

import (
	"fmt"
	"sync"
	"time"
)

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "SCHEDULED"
	FlightStatusBoarding  FlightStatus = "BOARDING"
	FlightStatusDeparted  FlightStatus = "DEPARTED"
	FlightStatusArrived   FlightStatus = "ARRIVED"
	FlightStatusDelayed   FlightStatus = "DELAYED"
	FlightStatusCancelled FlightStatus = "CANCELLED"
)

func (s FlightStatus) Valid() bool {
	switch s {
	case FlightStatusScheduled, FlightStatusBoarding, FlightStatusDeparted,
		FlightStatusArrived, FlightStatusDelayed, FlightStatusCancelled:
		return true
	}
	return false
}

type FlightKind string

const (
	FlightKindDomestic      FlightKind = "DOMESTIC"
	FlightKindInternational FlightKind = "INTERNATIONAL"
)

// Flight is the behaviour shared by every flight variant.
type Flight interface {
	Number() string
	Origin() string
	Destination() string
	DepartureTime() time.Time
	ArrivalTime() time.Time
	Status() FlightStatus
	SetStatus(status FlightStatus)
	BasePrice() float64
	Kind() FlightKind
	Seats() []*Seat
	AvailableSeats() []*Seat
	Inventory() *SeatInventory
	DurationMinutes() int64
}

// Changeable flights accept schedule changes inside their change window.
type Changeable interface {
	IsChangeAllowed() bool
	CalculateChangeFee() float64
	Change(req ChangeRequest) error
}

type FlightOption func(*flight)

func WithFlightClock(c Clock) FlightOption {
	return func(f *flight) {
		f.clock = c
	}
}

// WithFlightStatus overrides the initial SCHEDULED status.
func WithFlightStatus(status FlightStatus) FlightOption {
	return func(f *flight) {
		f.status = status
	}
}

type flight struct {
	mu          sync.RWMutex
	number      string
	origin      string
	destination string
	departure   time.Time
	arrival     time.Time
	status      FlightStatus
	basePrice   float64
	inventory   *SeatInventory
	clock       Clock

	changeWindowHours int64
	changeFeeRate     float64
}

type seatBlock struct {
	class ClassType
	count int
}

func (f *flight) init(number, origin, destination string, departure, arrival time.Time, basePrice float64,
	prefix string, layout []seatBlock, opts []FlightOption) {
	f.number = number
	f.origin = origin
	f.destination = destination
	f.departure = departure
	f.arrival = arrival
	f.status = FlightStatusScheduled
	f.basePrice = basePrice
	f.clock = SystemClock{}
	for _, opt := range opts {
		opt(f)
	}
	f.inventory = newSeatInventory(initializeSeats(prefix, layout))
}

func initializeSeats(prefix string, layout []seatBlock) []*Seat {
	total := 0
	for _, b := range layout {
		total += b.count
	}
	seats := make([]*Seat, 0, total)
	for _, b := range layout {
		for i := 0; i < b.count; i++ {
			seats = append(seats, NewSeat(fmt.Sprintf("%s%d", prefix, len(seats)+1), b.class))
		}
	}
	return seats
}

func (f *flight) Number() string      { return f.number }
func (f *flight) Origin() string      { return f.origin }
func (f *flight) Destination() string { return f.destination }
func (f *flight) BasePrice() float64  { return f.basePrice }

func (f *flight) DepartureTime() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.departure
}

func (f *flight) ArrivalTime() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.arrival
}

func (f *flight) Status() FlightStatus {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.status
}

func (f *flight) SetStatus(status FlightStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

func (f *flight) Inventory() *SeatInventory {
	return f.inventory
}

func (f *flight) Seats() []*Seat {
	return f.inventory.Seats()
}

func (f *flight) AvailableSeats() []*Seat {
	return f.inventory.Available()
}

// DurationMinutes is negative when arrival precedes departure; callers treat that as bad data.
func (f *flight) DurationMinutes() int64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return int64(f.arrival.Sub(f.departure) / time.Minute)
}

func (f *flight) IsChangeAllowed() bool {
	return hoursUntil(f.clock.Now(), f.DepartureTime()) >= f.changeWindowHours
}

// CalculateChangeFee is a flat share of the base price, independent of head count.
func (f *flight) CalculateChangeFee() float64 {
	return f.basePrice * f.changeFeeRate
}

// Change moves the schedule to the requested times. Requested seat numbers are not applied here.
func (f *flight) Change(req ChangeRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if hoursUntil(f.clock.Now(), f.departure) < f.changeWindowHours {
		return fmt.Errorf("%w: flight %s requires %dh notice", ErrChangeNotAllowed, f.number, f.changeWindowHours)
	}
	f.departure = req.NewDepartureTime()
	f.arrival = req.NewArrivalTime()
	return nil
}

const (
	DomesticChangeWindowHours      = 24
	InternationalChangeWindowHours = 72
	DomesticChangeFeeRate          = 0.10
	InternationalChangeFeeRate     = 0.20
)

// DomesticFlight has 50 seats: D1-D10 business, D11-D50 economy.
type DomesticFlight struct {
	flight
	domesticTaxRate float64
}

func NewDomesticFlight(number, origin, destination string, departure, arrival time.Time,
	basePrice, domesticTaxRate float64, opts ...FlightOption) *DomesticFlight {
	f := &DomesticFlight{domesticTaxRate: domesticTaxRate}
	f.init(number, origin, destination, departure, arrival, basePrice, "D",
		[]seatBlock{{ClassBusiness, 10}, {ClassEconomy, 40}}, opts)
	f.changeWindowHours = DomesticChangeWindowHours
	f.changeFeeRate = DomesticChangeFeeRate
	return f
}

func (f *DomesticFlight) Kind() FlightKind {
	return FlightKindDomestic
}

func (f *DomesticFlight) DomesticTaxRate() float64 {
	return f.domesticTaxRate
}

func (f *DomesticFlight) CalculateDomesticTax() float64 {
	return f.basePrice * f.domesticTaxRate
}

// InternationalFlight has 100 seats: I1-I10 first, I11-I30 business, I31-I100 economy.
type InternationalFlight struct {
	flight
	requiredDocuments []string
}

func NewInternationalFlight(number, origin, destination string, departure, arrival time.Time,
	basePrice float64, opts ...FlightOption) *InternationalFlight {
	f := &InternationalFlight{
		requiredDocuments: []string{"Passport", "Visa", "Vaccination Certificate"},
	}
	f.init(number, origin, destination, departure, arrival, basePrice, "I",
		[]seatBlock{{ClassFirst, 10}, {ClassBusiness, 20}, {ClassEconomy, 70}}, opts)
	f.changeWindowHours = InternationalChangeWindowHours
	f.changeFeeRate = InternationalChangeFeeRate
	return f
}

func (f *InternationalFlight) Kind() FlightKind {
	return FlightKindInternational
}

// RequiredDocuments is informational; nothing enforces it.
func (f *InternationalFlight) RequiredDocuments() []string {
	out := make([]string, len(f.requiredDocuments))
	copy(out, f.requiredDocuments)
	return out
}

var (
	_ Flight     = (*DomesticFlight)(nil)
	_ Flight     = (*InternationalFlight)(nil)
	_ Changeable = (*DomesticFlight)(nil)
	_ Changeable = (*InternationalFlight)(nil)
)
