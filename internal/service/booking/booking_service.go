package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Domenick1991/flightreservation/internal/domain"
	"github.com/Domenick1991/flightreservation/internal/kafka"
	"github.com/Domenick1991/flightreservation/internal/repository"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id string) (*domain.Booking, error)
	RefundBooking(ctx context.Context, id string) (RefundResult, error)
	PayBooking(ctx context.Context, id string, input PaymentInput) (domain.PaymentProcessor, error)
	ChangeBooking(ctx context.Context, id string, input ChangeBookingInput) (ChangeResult, error)
	Quote(ctx context.Context, input QuoteInput) (QuoteResult, error)
}

// Cache covers flight listing invalidation and idempotent booking creation.
type Cache interface {
	InvalidateFlights(ctx context.Context) error
	ClaimRequest(ctx context.Context, key string, ttl time.Duration) (bool, string, error)
	CompleteRequest(ctx context.Context, key, bookingID string, ttl time.Duration) error
	ReleaseRequest(ctx context.Context, key string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type PassengerInput struct {
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	BirthDate      time.Time `json:"birth_date"`
	PassportNumber string    `json:"passport_number"`
	Nationality    string    `json:"nationality"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
}

type CreateBookingInput struct {
	FlightNumber      string           `json:"flight_number"`
	Passengers        []PassengerInput `json:"passengers"`
	InsuranceIncluded bool             `json:"insurance_included"`
	PromoCode         string           `json:"promo_code,omitempty"`
	IdempotencyKey    string           `json:"-"`
}

type PaymentInput struct {
	CardNumber     string `json:"card_number"`
	CardHolderName string `json:"card_holder_name"`
	ExpiryDate     string `json:"expiry_date"`
	CVV            string `json:"cvv"`
}

// ChangeBookingInput moves the booked flight. Zero times keep the current schedule
// and an empty seat list keeps the current seats.
type ChangeBookingInput struct {
	NewDeparture time.Time `json:"new_departure"`
	NewArrival   time.Time `json:"new_arrival"`
	SeatNumbers  []string  `json:"seat_numbers,omitempty"`
}

type QuoteInput struct {
	FlightNumber   string `json:"flight_number"`
	PassengerCount int    `json:"passenger_count"`
	PromoCode      string `json:"promo_code,omitempty"`
}

type QuoteResult struct {
	Quote       domain.Quote                 `json:"quote"`
	HighSeason  bool                         `json:"high_season"`
	ClassPrices map[domain.ClassType]float64 `json:"class_prices"`
}

type RefundResult struct {
	BookingID        string   `json:"booking_id"`
	Amount           float64  `json:"amount"`
	CancellationFee  float64  `json:"cancellation_fee"`
	RefundedPayments []string `json:"refunded_payments"`
}

type ChangeResult struct {
	Booking   *domain.Booking
	ChangeFee float64
}

// PricingSettings configures the seasonal strategy built for every booking.
type PricingSettings struct {
	TaxRate       float64
	DiscountRate  float64
	ReferenceYear int
	Location      *time.Location
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	payments           repository.PaymentRepository
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	idempotencyTTL     time.Duration
	pricing            PricingSettings
	allocation         domain.AllocationMode
	clock              domain.Clock
	logger             *zap.Logger

	// paymentLocks holds one *sync.Mutex per booking id.
	paymentLocks sync.Map
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithClock(c domain.Clock) BookingServiceOption {
	return func(s *BookingService) {
		s.clock = c
	}
}

func WithAllocationMode(mode domain.AllocationMode) BookingServiceOption {
	return func(s *BookingService) {
		s.allocation = mode
	}
}

func WithLogger(l *zap.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.logger = l
	}
}

func WithPricing(p PricingSettings) BookingServiceOption {
	return func(s *BookingService) {
		s.pricing = p
	}
}

func WithIdempotencyTTL(ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.idempotencyTTL = ttl
	}
}

// NewBookingService accepts a nil cache and a nil producer.
func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	payments repository.PaymentRepository,
	cache Cache,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:       bookings,
		flights:        flights,
		payments:       payments,
		cache:          cache,
		producer:       producer,
		bookingTopic:   bookingTopic,
		idempotencyTTL: 24 * time.Hour,
		pricing:        PricingSettings{TaxRate: 0.18, Location: time.UTC},
		allocation:     domain.AllocationAtomic,
		clock:          domain.SystemClock{},
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) newPricing() *domain.SeasonalPricing {
	return domain.NewSeasonalPricing(s.pricing.TaxRate, s.pricing.DiscountRate,
		domain.WithReferenceYear(s.pricing.ReferenceYear),
		domain.WithSeasonLocation(s.pricing.Location),
	)
}

// CreateBooking returns the booking even when it ends FAILED, together with the reason.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.IdempotencyKey != "" && s.cache != nil {
		claimed, existing, err := s.cache.ClaimRequest(ctx, input.IdempotencyKey, s.idempotencyTTL)
		switch {
		case err != nil:
			// fail open
			s.logger.Warn("claim idempotency key", zap.String("key", input.IdempotencyKey), zap.Error(err))
		case existing != "":
			return s.GetBooking(ctx, existing)
		case !claimed:
			return nil, domain.ErrRequestInProgress
		default:
			booking, err := s.createBooking(ctx, input)
			s.settleClaim(ctx, input.IdempotencyKey, booking, err)
			return booking, err
		}
	}
	return s.createBooking(ctx, input)
}

func (s *BookingService) settleClaim(ctx context.Context, key string, booking *domain.Booking, err error) {
	if err != nil || booking == nil {
		if rerr := s.cache.ReleaseRequest(ctx, key); rerr != nil {
			s.logger.Warn("release idempotency key", zap.String("key", key), zap.Error(rerr))
		}
		return
	}
	if cerr := s.cache.CompleteRequest(ctx, key, booking.ID(), s.idempotencyTTL); cerr != nil {
		s.logger.Warn("complete idempotency key", zap.String("key", key), zap.Error(cerr))
	}
}

func (s *BookingService) createBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if len(input.Passengers) == 0 {
		return nil, domain.ErrInvalidPassengerCount
	}
	flight, err := s.flights.GetByNumber(ctx, input.FlightNumber)
	if err != nil {
		return nil, err
	}

	passengers := make([]*domain.Passenger, 0, len(input.Passengers))
	for i, p := range input.Passengers {
		passenger := domain.NewPassenger(p.FirstName, p.LastName, p.BirthDate, p.PassportNumber, p.Nationality, p.Email, p.Phone)
		if err := passenger.Validate(); err != nil {
			return nil, fmt.Errorf("passenger %d: %w", i+1, err)
		}
		passengers = append(passengers, passenger)
	}

	pricing := s.newPricing()
	if input.PromoCode != "" {
		if err := pricing.ApplyPromoCode(input.PromoCode); err != nil {
			return nil, err
		}
	}

	booking := domain.NewBooking(flight, passengers, pricing, input.InsuranceIncluded,
		domain.WithBookingClock(s.clock),
		domain.WithAllocationMode(s.allocation),
		domain.WithBookingLogger(s.logger),
	)
	createErr := booking.CreateBooking()

	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, err
	}
	s.invalidateFlights(ctx)

	if createErr != nil {
		s.publish(ctx, kafka.EventBookingFailed, booking, 0, createErr)
		return booking, createErr
	}
	s.publish(ctx, kafka.EventBookingConfirmed, booking, booking.TotalPrice(), nil)
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) CancelBooking(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := booking.Cancel(); err != nil {
		return nil, err
	}
	s.invalidateFlights(ctx)
	s.publish(ctx, kafka.EventBookingCancelled, booking, 0, nil)
	return booking, nil
}

// RefundBooking reports the refund due and marks completed payments as refunded.
func (s *BookingService) RefundBooking(ctx context.Context, id string) (RefundResult, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return RefundResult{}, err
	}
	defer s.lockPayments(booking.ID())()

	amount, err := booking.ProcessRefund()
	if err != nil {
		return RefundResult{}, err
	}

	result := RefundResult{
		BookingID:        booking.ID(),
		Amount:           amount,
		CancellationFee:  booking.CalculateCancellationFee(),
		RefundedPayments: []string{},
	}

	payments, err := s.payments.ListByBooking(ctx, booking.ID())
	if err != nil {
		return RefundResult{}, err
	}
	for _, p := range payments {
		if p.Status() != domain.PaymentStatusCompleted {
			continue
		}
		if err := p.RefundPayment(); err != nil {
			return RefundResult{}, fmt.Errorf("refund payment %s: %w", p.ID(), err)
		}
		if err := s.payments.Save(ctx, p); err != nil {
			return RefundResult{}, err
		}
		result.RefundedPayments = append(result.RefundedPayments, p.ID())
	}

	s.publish(ctx, kafka.EventRefundProcessed, booking, amount, nil)
	return result, nil
}

// PayBooking charges a confirmed booking. A declined card returns the FAILED payment and the reason.
func (s *BookingService) PayBooking(ctx context.Context, id string, input PaymentInput) (domain.PaymentProcessor, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	defer s.lockPayments(booking.ID())()

	if status := booking.Status(); status != domain.BookingStatusConfirmed {
		return nil, fmt.Errorf("%w: cannot pay %s booking", domain.ErrInvalidBookingStatus, status)
	}

	existing, err := s.payments.ListByBooking(ctx, booking.ID())
	if err != nil {
		return nil, err
	}
	for _, p := range existing {
		if p.Status() == domain.PaymentStatusCompleted {
			return nil, fmt.Errorf("%w: payment %s", domain.ErrAlreadyPaid, p.ID())
		}
	}

	payment := domain.NewCreditCardPayment(booking, input.CardNumber, input.CardHolderName, input.ExpiryDate, input.CVV,
		domain.WithPaymentClock(s.clock))
	payErr := payment.ProcessPayment()
	if err := s.payments.Save(ctx, payment); err != nil {
		return nil, err
	}

	if payErr != nil {
		s.logger.Warn("payment failed", zap.String("booking_id", booking.ID()), zap.String("payment_id", payment.ID()), zap.Error(payErr))
		s.publish(ctx, kafka.EventPaymentFailed, booking, payment.Amount(), payErr)
		return payment, payErr
	}
	s.logger.Info("payment completed",
		zap.String("booking_id", booking.ID()),
		zap.String("payment_id", payment.ID()),
		zap.String("card", payment.MaskedCardNumber()),
		zap.Float64("amount", payment.Amount()),
	)
	s.publish(ctx, kafka.EventPaymentCompleted, booking, payment.Amount(), nil)
	return payment, nil
}

// ChangeBooking moves seats first and the schedule second; a rejected schedule change
// puts the previous seats back.
func (s *BookingService) ChangeBooking(ctx context.Context, id string, input ChangeBookingInput) (ChangeResult, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return ChangeResult{}, err
	}
	if status := booking.Status(); status != domain.BookingStatusConfirmed {
		return ChangeResult{}, fmt.Errorf("%w: cannot change %s booking", domain.ErrInvalidBookingStatus, status)
	}

	flight := booking.Flight()
	changeable, ok := flight.(domain.Changeable)
	if !ok {
		return ChangeResult{}, fmt.Errorf("%w: flight %s", domain.ErrChangeNotAllowed, flight.Number())
	}
	if !changeable.IsChangeAllowed() {
		return ChangeResult{}, fmt.Errorf("%w: flight %s", domain.ErrChangeNotAllowed, flight.Number())
	}

	departure, arrival := input.NewDeparture, input.NewArrival
	if departure.IsZero() {
		departure = flight.DepartureTime()
	}
	if arrival.IsZero() {
		arrival = flight.ArrivalTime()
	}
	req := domain.NewChangeRequest(booking.ID(), departure, arrival, input.SeatNumbers)

	previous := booking.SeatNumbers()
	if req.HasSeatChange() {
		if err := booking.ReassignSeats(req.NewSeatNumbers()); err != nil {
			return ChangeResult{}, err
		}
	}
	if err := changeable.Change(req); err != nil {
		if req.HasSeatChange() {
			if rerr := booking.ReassignSeats(previous); rerr != nil {
				s.logger.Error("restore seats after failed change", zap.String("booking_id", booking.ID()), zap.Error(rerr))
			}
		}
		return ChangeResult{}, err
	}

	fee := changeable.CalculateChangeFee()
	s.invalidateFlights(ctx)
	s.publish(ctx, kafka.EventBookingChanged, booking, fee, nil)
	return ChangeResult{Booking: booking, ChangeFee: fee}, nil
}

// Quote prices a trip without reserving anything.
func (s *BookingService) Quote(ctx context.Context, input QuoteInput) (QuoteResult, error) {
	flight, err := s.flights.GetByNumber(ctx, input.FlightNumber)
	if err != nil {
		return QuoteResult{}, err
	}
	pricing := s.newPricing()
	if input.PromoCode != "" {
		if err := pricing.ApplyPromoCode(input.PromoCode); err != nil {
			return QuoteResult{}, err
		}
	}
	quote, err := pricing.CalculateFinalPrice(flight, input.PassengerCount)
	if err != nil {
		return QuoteResult{}, err
	}

	prices := make(map[domain.ClassType]float64, 3)
	for _, class := range []domain.ClassType{domain.ClassEconomy, domain.ClassBusiness, domain.ClassFirst} {
		prices[class] = pricing.PriceForClass(class)
	}
	return QuoteResult{
		Quote:       quote,
		HighSeason:  pricing.IsHighSeason(flight.DepartureTime()),
		ClassPrices: prices,
	}, nil
}

// lockPayments serializes payment checks and writes for one booking and returns the unlock func.
func (s *BookingService) lockPayments(bookingID string) func() {
	v, _ := s.paymentLocks.LoadOrStore(bookingID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *BookingService) invalidateFlights(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.logger.Warn("invalidate flights cache", zap.Error(err))
	}
}

// publish never fails the caller; delivery problems are logged.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, amount float64, reason error) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:      eventType,
		BookingID: booking.ID(),
		Seats:     booking.SeatNumbers(),
		Status:    string(booking.Status()),
		Amount:    amount,
		At:        s.clock.Now(),
	}
	if f := booking.Flight(); f != nil {
		event.FlightNumber = f.Number()
	}
	if passengers := booking.Passengers(); len(passengers) > 0 {
		event.Email = passengers[0].ContactEmail
	}
	if reason != nil {
		event.Reason = reason.Error()
	}

	topics := []string{s.bookingTopic}
	if s.notificationsTopic != "" {
		topics = append(topics, s.notificationsTopic)
	}
	var errs []error
	for _, topic := range topics {
		if err := s.producer.Publish(ctx, topic, booking.ID(), event); err != nil {
			errs = append(errs, fmt.Errorf("topic %s: %w", topic, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.logger.Warn("publish booking event",
			zap.String("type", eventType),
			zap.String("booking_id", booking.ID()),
			zap.Error(err),
		)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
