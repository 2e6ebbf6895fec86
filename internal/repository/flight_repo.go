package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Domenick1991/flightreservation/internal/domain"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByNumber(ctx context.Context, number string) (domain.Flight, error)
	Save(ctx context.Context, flight domain.Flight) error
}

// MemoryFlightRepository keeps flights for the lifetime of the process.
type MemoryFlightRepository struct {
	mu      sync.RWMutex
	flights map[string]domain.Flight
}

func NewFlightRepository() FlightRepository {
	return &MemoryFlightRepository{flights: make(map[string]domain.Flight)}
}

// List returns flights ordered by departure time, then number.
func (r *MemoryFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	flights := make([]domain.Flight, 0, len(r.flights))
	for _, f := range r.flights {
		flights = append(flights, f)
	}
	r.mu.RUnlock()

	sort.Slice(flights, func(i, j int) bool {
		di, dj := flights[i].DepartureTime(), flights[j].DepartureTime()
		if di.Equal(dj) {
			return flights[i].Number() < flights[j].Number()
		}
		return di.Before(dj)
	})
	return flights, nil
}

func (r *MemoryFlightRepository) GetByNumber(ctx context.Context, number string) (domain.Flight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.flights[number]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFlightNotFound, number)
	}
	return f, nil
}

// Save inserts or replaces a flight by number.
func (r *MemoryFlightRepository) Save(ctx context.Context, flight domain.Flight) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if flight == nil {
		return domain.ErrNilFlight
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flights[flight.Number()] = flight
	return nil
}

var _ FlightRepository = (*MemoryFlightRepository)(nil)
