package flights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightreservation/internal/domain"
	"github.com/Domenick1991/flightreservation/internal/repository"
	"go.uber.org/zap"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.FlightSummary, error)
	Get(ctx context.Context, number string) (domain.FlightSummary, error)
	AvailableSeats(ctx context.Context, number string) ([]domain.SeatSummary, error)
	Register(ctx context.Context, input RegisterFlightInput) (domain.FlightSummary, error)
	UpdateStatus(ctx context.Context, number string, status domain.FlightStatus) (domain.FlightSummary, error)
	ChangeSchedule(ctx context.Context, number string, departure, arrival time.Time) (domain.FlightSummary, error)
}

type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.FlightSummary, error)
	SetFlights(ctx context.Context, flights []domain.FlightSummary) error
	InvalidateFlights(ctx context.Context) error
}

type RegisterFlightInput struct {
	Number      string            `json:"number"`
	Kind        domain.FlightKind `json:"kind"`
	Origin      string            `json:"origin"`
	Destination string            `json:"destination"`
	Departure   time.Time         `json:"departure"`
	Arrival     time.Time         `json:"arrival"`
	BasePrice   float64           `json:"base_price"`
}

type FlightService struct {
	repo            repository.FlightRepository
	cache           FlightCache
	clock           domain.Clock
	logger          *zap.Logger
	domesticTaxRate float64
}

type FlightServiceOption func(*FlightService)

func WithClock(c domain.Clock) FlightServiceOption {
	return func(s *FlightService) {
		s.clock = c
	}
}

func WithLogger(l *zap.Logger) FlightServiceOption {
	return func(s *FlightService) {
		s.logger = l
	}
}

func WithDomesticTaxRate(rate float64) FlightServiceOption {
	return func(s *FlightService) {
		s.domesticTaxRate = rate
	}
}

// NewFlightService accepts a nil cache; listings are then always built from the repository.
func NewFlightService(repo repository.FlightRepository, cache FlightCache, opts ...FlightServiceOption) *FlightService {
	s := &FlightService{
		repo:   repo,
		cache:  cache,
		clock:  domain.SystemClock{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FlightService) List(ctx context.Context) ([]domain.FlightSummary, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFlights(ctx)
		if err != nil {
			s.logger.Warn("read flights cache", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.FlightSummary, 0, len(flights))
	for _, f := range flights {
		summaries = append(summaries, domain.Summarize(f))
	}

	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, summaries); err != nil {
			s.logger.Warn("write flights cache", zap.Error(err))
		}
	}
	return summaries, nil
}

func (s *FlightService) Get(ctx context.Context, number string) (domain.FlightSummary, error) {
	f, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return domain.FlightSummary{}, err
	}
	return domain.Summarize(f), nil
}

func (s *FlightService) AvailableSeats(ctx context.Context, number string) ([]domain.SeatSummary, error) {
	f, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return f.Inventory().AvailableSummaries(), nil
}

func (s *FlightService) Register(ctx context.Context, input RegisterFlightInput) (domain.FlightSummary, error) {
	f, err := s.build(input)
	if err != nil {
		return domain.FlightSummary{}, err
	}
	if _, err := s.repo.GetByNumber(ctx, f.Number()); err == nil {
		return domain.FlightSummary{}, fmt.Errorf("%w: %s", domain.ErrFlightExists, f.Number())
	}
	if err := s.repo.Save(ctx, f); err != nil {
		return domain.FlightSummary{}, err
	}
	s.invalidate(ctx)

	s.logger.Info("flight registered",
		zap.String("flight", f.Number()),
		zap.String("kind", string(f.Kind())),
		zap.Time("departure", f.DepartureTime()),
	)
	return domain.Summarize(f), nil
}

func (s *FlightService) build(input RegisterFlightInput) (domain.Flight, error) {
	if strings.TrimSpace(input.Number) == "" {
		return nil, fmt.Errorf("%w: number is required", domain.ErrInvalidFlight)
	}
	if input.BasePrice < 0 {
		return nil, fmt.Errorf("%w: base price %.2f", domain.ErrInvalidPrice, input.BasePrice)
	}

	opts := []domain.FlightOption{domain.WithFlightClock(s.clock)}
	switch domain.FlightKind(strings.ToUpper(string(input.Kind))) {
	case domain.FlightKindDomestic:
		return domain.NewDomesticFlight(input.Number, input.Origin, input.Destination,
			input.Departure, input.Arrival, input.BasePrice, s.domesticTaxRate, opts...), nil
	case domain.FlightKindInternational:
		return domain.NewInternationalFlight(input.Number, input.Origin, input.Destination,
			input.Departure, input.Arrival, input.BasePrice, opts...), nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidFlight, input.Kind)
	}
}

func (s *FlightService) UpdateStatus(ctx context.Context, number string, status domain.FlightStatus) (domain.FlightSummary, error) {
	if !status.Valid() {
		return domain.FlightSummary{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidFlight, status)
	}
	f, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return domain.FlightSummary{}, err
	}
	f.SetStatus(status)
	s.invalidate(ctx)

	s.logger.Info("flight status updated", zap.String("flight", number), zap.String("status", string(status)))
	return domain.Summarize(f), nil
}

// ChangeSchedule moves a flight inside its change window. Zero times keep the current value.
func (s *FlightService) ChangeSchedule(ctx context.Context, number string, departure, arrival time.Time) (domain.FlightSummary, error) {
	f, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return domain.FlightSummary{}, err
	}
	changeable, ok := f.(domain.Changeable)
	if !ok {
		return domain.FlightSummary{}, fmt.Errorf("%w: flight %s", domain.ErrChangeNotAllowed, number)
	}

	if departure.IsZero() {
		departure = f.DepartureTime()
	}
	if arrival.IsZero() {
		arrival = f.ArrivalTime()
	}
	if err := changeable.Change(domain.NewChangeRequest("", departure, arrival, nil)); err != nil {
		return domain.FlightSummary{}, err
	}
	s.invalidate(ctx)
	return domain.Summarize(f), nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.logger.Warn("invalidate flights cache", zap.Error(err))
	}
}

var _ FlightUseCase = (*FlightService)(nil)
