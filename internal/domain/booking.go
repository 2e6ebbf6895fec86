package domain

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusFailed    BookingStatus = "FAILED"
)

// AllocationMode selects how multi-seat reservations behave.
type AllocationMode string

const (
	// AllocationAtomic reserves all seats of a booking or none.
	AllocationAtomic AllocationMode = "atomic"
	// AllocationLegacy reserves seats one by one and keeps partial reservations on failure.
	AllocationLegacy AllocationMode = "legacy"
)

const CancellationWindowHours = 24

type Cancellable interface {
	Cancel() error
	CalculateCancellationFee() float64
	IsCancellationAllowed() bool
}

type Refundable interface {
	ProcessRefund() (float64, error)
	CalculateRefundAmount() float64
	IsRefundable() bool
}

type BookingOption func(*Booking)

func WithBookingClock(c Clock) BookingOption {
	return func(b *Booking) {
		b.clock = c
	}
}

func WithAllocationMode(mode AllocationMode) BookingOption {
	return func(b *Booking) {
		b.allocation = mode
	}
}

func WithBookingLogger(l *zap.Logger) BookingOption {
	return func(b *Booking) {
		if l != nil {
			b.logger = l
		}
	}
}

// Booking reserves seats on a flight for a list of passengers.
// It holds reservation rights over seats; the flight keeps owning them.
type Booking struct {
	mu                sync.Mutex
	id                string
	flight            Flight
	passengers        []*Passenger
	assignedSeats     []*Seat
	bookingTime       time.Time
	status            BookingStatus
	pricing           PricingStrategy
	quote             Quote
	insuranceIncluded bool
	failure           error
	allocation        AllocationMode
	clock             Clock
	logger            *zap.Logger
}

func NewBooking(flight Flight, passengers []*Passenger, pricing PricingStrategy, insuranceIncluded bool, opts ...BookingOption) *Booking {
	b := &Booking{
		id:                "BK-" + uuid.NewString(),
		flight:            flight,
		passengers:        append([]*Passenger(nil), passengers...),
		status:            BookingStatusPending,
		pricing:           pricing,
		insuranceIncluded: insuranceIncluded,
		allocation:        AllocationAtomic,
		clock:             SystemClock{},
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.bookingTime = b.clock.Now()

	// Initial estimate; CreateBooking reprices and reports errors.
	if pricing != nil && flight != nil {
		if q, err := pricing.CalculateFinalPrice(flight, len(passengers)); err == nil {
			b.quote = q
		}
	}
	return b
}

// CreateBooking prices the booking and reserves seats. Any failure moves the booking to FAILED
// and is returned as the reason.
func (b *Booking) CreateBooking() (err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.status != BookingStatusPending {
		return fmt.Errorf("%w: cannot create from %s", ErrInvalidBookingStatus, b.status)
	}

	defer func() {
		if r := recover(); r != nil {
			err = b.failLocked(fmt.Errorf("pricing: unexpected failure: %v", r))
		}
	}()

	if b.flight == nil {
		return b.failLocked(ErrNilFlight)
	}
	if b.pricing == nil {
		return b.failLocked(ErrNilPricingStrategy)
	}

	q, err := b.pricing.CalculateFinalPrice(b.flight, len(b.passengers))
	if err != nil {
		return b.failLocked(fmt.Errorf("calculate price: %w", err))
	}
	b.quote = q

	if err := b.assignSeatsLocked(); err != nil {
		return b.failLocked(fmt.Errorf("assign seats: %w", err))
	}

	b.status = BookingStatusConfirmed
	b.logger.Info("booking confirmed",
		zap.String("booking_id", b.id),
		zap.String("flight", b.flight.Number()),
		zap.Int("passengers", len(b.passengers)),
		zap.Float64("total", b.quote.Total),
	)
	return nil
}

func (b *Booking) failLocked(err error) error {
	b.status = BookingStatusFailed
	b.failure = err
	b.logger.Warn("booking failed", zap.String("booking_id", b.id), zap.Error(err))
	return err
}

// AssignSeats reserves one seat per passenger. It is a no-op once the booking holds its seats.
func (b *Booking) AssignSeats() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.status {
	case BookingStatusCancelled, BookingStatusFailed:
		return fmt.Errorf("%w: cannot assign seats to %s booking", ErrInvalidBookingStatus, b.status)
	}
	if b.flight == nil {
		return ErrNilFlight
	}
	return b.assignSeatsLocked()
}

func (b *Booking) hasAllSeatsLocked() bool {
	if len(b.assignedSeats) == 0 || len(b.assignedSeats) != len(b.passengers) {
		return false
	}
	for _, s := range b.assignedSeats {
		if s == nil {
			return false
		}
	}
	return true
}

func (b *Booking) assignSeatsLocked() error {
	if b.hasAllSeatsLocked() {
		return nil
	}
	n := len(b.passengers)
	if n == 0 {
		return ErrInvalidPassengerCount
	}

	inv := b.flight.Inventory()
	if b.allocation == AllocationLegacy {
		reserved, err := inv.ReserveFirstLegacy(n)
		// Partial reservations stay attached to the booking, index-aligned with passengers.
		b.assignedSeats = make([]*Seat, n)
		copy(b.assignedSeats, reserved)
		return err
	}

	reserved, err := inv.ReserveFirst(n)
	if err != nil {
		return err
	}
	b.assignedSeats = reserved
	return nil
}

// IsCancellationAllowed is false for a booking without a flight.
func (b *Booking) IsCancellationAllowed() bool {
	if b.flight == nil {
		return false
	}
	return b.flight.DepartureTime().Sub(b.clock.Now()) >= CancellationWindowHours*time.Hour
}

// Cancel releases every assigned seat. Only confirmed bookings inside the cancellation window qualify.
func (b *Booking) Cancel() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.status != BookingStatusConfirmed {
		return fmt.Errorf("%w: cannot cancel %s booking", ErrInvalidBookingStatus, b.status)
	}
	if !b.IsCancellationAllowed() {
		return fmt.Errorf("%w: booking %s", ErrCancellationNotAllowed, b.id)
	}

	b.status = BookingStatusCancelled
	if err := b.flight.Inventory().Release(b.assignedSeats); err != nil {
		b.logger.Error("release seats on cancel", zap.String("booking_id", b.id), zap.Error(err))
	}
	return nil
}

// CalculateCancellationFee is zero with insurance or without a flight, otherwise a share
// of the total tiered by hours to departure: >30h 10%, 7-30h 30%, <7h 50%.
func (b *Booking) CalculateCancellationFee() float64 {
	if b.insuranceIncluded || b.flight == nil {
		return 0
	}
	total := b.TotalPrice()
	hours := b.flight.DepartureTime().Sub(b.clock.Now()).Hours()
	switch {
	case hours > 30:
		return total * 0.1
	case hours >= 7:
		return total * 0.3
	default:
		return total * 0.5
	}
}

func (b *Booking) CalculateRefundAmount() float64 {
	return b.TotalPrice() - b.CalculateCancellationFee()
}

func (b *Booking) IsRefundable() bool {
	switch b.Status() {
	case BookingStatusCancelled:
		return true
	case BookingStatusConfirmed:
		return b.IsCancellationAllowed()
	}
	return false
}

// ProcessRefund reports the refund due. Payment records are settled by the payment processor.
func (b *Booking) ProcessRefund() (float64, error) {
	if !b.IsRefundable() {
		return 0, fmt.Errorf("%w: booking %s is %s", ErrNotRefundable, b.id, b.Status())
	}
	amount := b.CalculateRefundAmount()
	b.logger.Info("refund processed",
		zap.String("booking_id", b.id),
		zap.Float64("refund_amount", amount),
	)
	return amount, nil
}

// ReassignSeats moves a confirmed booking to the named seats. New seats are reserved before the
// old ones are released; on failure the booking keeps its current seats.
func (b *Booking) ReassignSeats(numbers []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.status != BookingStatusConfirmed {
		return fmt.Errorf("%w: cannot reassign seats of %s booking", ErrInvalidBookingStatus, b.status)
	}
	if len(numbers) != len(b.passengers) {
		return fmt.Errorf("%w: %d seats for %d passengers", ErrSeatCountMismatch, len(numbers), len(b.passengers))
	}

	seen := make(map[string]struct{}, len(numbers))
	for _, n := range numbers {
		if _, dup := seen[n]; dup {
			return fmt.Errorf("%w: seat %s requested twice", ErrSeatAlreadyReserved, n)
		}
		seen[n] = struct{}{}
	}

	held := make(map[string]*Seat, len(b.assignedSeats))
	for _, s := range b.assignedSeats {
		if s != nil {
			held[s.Number()] = s
		}
	}

	var wanted []string
	for _, n := range numbers {
		if _, ok := held[n]; !ok {
			wanted = append(wanted, n)
		}
	}

	if b.flight == nil {
		return ErrNilFlight
	}
	inv := b.flight.Inventory()
	fresh, err := inv.ReserveNumbers(wanted)
	if err != nil {
		return err
	}
	byNumber := make(map[string]*Seat, len(fresh))
	for _, s := range fresh {
		byNumber[s.Number()] = s
	}

	next := make([]*Seat, len(numbers))
	keep := make(map[string]struct{}, len(numbers))
	for i, n := range numbers {
		if s, ok := held[n]; ok {
			next[i] = s
			keep[n] = struct{}{}
			continue
		}
		next[i] = byNumber[n]
	}

	var stale []*Seat
	for n, s := range held {
		if _, ok := keep[n]; !ok {
			stale = append(stale, s)
		}
	}
	if err := inv.Release(stale); err != nil {
		b.logger.Error("release seats on reassign", zap.String("booking_id", b.id), zap.Error(err))
	}
	b.assignedSeats = next
	return nil
}

func (b *Booking) ID() string {
	return b.id
}

func (b *Booking) Flight() Flight {
	return b.flight
}

func (b *Booking) Passengers() []*Passenger {
	return append([]*Passenger(nil), b.passengers...)
}

func (b *Booking) AssignedSeats() []*Seat {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Seat(nil), b.assignedSeats...)
}

func (b *Booking) SeatNumbers() []string {
	seats := b.AssignedSeats()
	numbers := make([]string, 0, len(seats))
	for _, s := range seats {
		if s != nil {
			numbers = append(numbers, s.Number())
		}
	}
	return numbers
}

func (b *Booking) BookingTime() time.Time {
	return b.bookingTime
}

func (b *Booking) Status() BookingStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

func (b *Booking) PricingStrategy() PricingStrategy {
	return b.pricing
}

// TotalPrice is the price fixed at confirmation time.
func (b *Booking) TotalPrice() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.quote.Total
}

func (b *Booking) Quote() Quote {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.quote
}

func (b *Booking) InsuranceIncluded() bool {
	return b.insuranceIncluded
}

// FailureReason is the error that moved the booking to FAILED, if any.
func (b *Booking) FailureReason() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failure
}

var (
	_ Cancellable = (*Booking)(nil)
	_ Refundable  = (*Booking)(nil)
)
