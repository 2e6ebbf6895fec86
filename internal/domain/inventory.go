package domain

import (
	"errors"
	"fmt"
	"sync"
)

// SeatInventory is the fixed, ordered seat map of one flight.
// Seat state is read and written under its mutex; use the summary methods
// rather than Seat.IsAvailable on seats that other goroutines may reserve.
type SeatInventory struct {
	mu    sync.Mutex
	seats []*Seat
}

func newSeatInventory(seats []*Seat) *SeatInventory {
	return &SeatInventory{seats: seats}
}

// Seats returns the inventory in order. The slice is a copy, the seats are shared.
func (inv *SeatInventory) Seats() []*Seat {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	out := make([]*Seat, len(inv.seats))
	copy(out, inv.seats)
	return out
}

// Available returns the free seats in inventory order.
func (inv *SeatInventory) Available() []*Seat {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.availableLocked()
}

func (inv *SeatInventory) availableLocked() []*Seat {
	available := make([]*Seat, 0, len(inv.seats))
	for _, s := range inv.seats {
		if s.IsAvailable() {
			available = append(available, s)
		}
	}
	return available
}

// Summaries snapshots every seat in inventory order.
func (inv *SeatInventory) Summaries() []SeatSummary {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	out := make([]SeatSummary, 0, len(inv.seats))
	for _, s := range inv.seats {
		out = append(out, summarizeSeat(s))
	}
	return out
}

// AvailableSummaries snapshots the free seats in inventory order.
func (inv *SeatInventory) AvailableSummaries() []SeatSummary {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	out := make([]SeatSummary, 0, len(inv.seats))
	for _, s := range inv.seats {
		if s.IsAvailable() {
			out = append(out, summarizeSeat(s))
		}
	}
	return out
}

func (inv *SeatInventory) Total() int {
	return len(inv.seats)
}

func (inv *SeatInventory) ReservedCount() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	reserved := 0
	for _, s := range inv.seats {
		if !s.IsAvailable() {
			reserved++
		}
	}
	return reserved
}

// CountByClass returns how many seats of each class are still free.
func (inv *SeatInventory) CountByClass() map[ClassType]int {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	counts := make(map[ClassType]int, 3)
	for _, s := range inv.seats {
		if s.IsAvailable() {
			counts[s.Class()]++
		}
	}
	return counts
}

func (inv *SeatInventory) Find(number string) (*Seat, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.findLocked(number)
}

func (inv *SeatInventory) findLocked(number string) (*Seat, error) {
	for _, s := range inv.seats {
		if s.Number() == number {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSeatNotFound, number)
}

// ReserveFirst reserves the first n free seats in inventory order.
// Either all n seats are reserved or none are.
func (inv *SeatInventory) ReserveFirst(n int) ([]*Seat, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	available := inv.availableLocked()
	if len(available) < n {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientSeats, n, len(available))
	}
	return reserveAll(available[:n])
}

// ReserveFirstLegacy mirrors the historical allocation: it snapshots the free seats
// and reserves them one by one. Seats reserved before a failure stay reserved.
func (inv *SeatInventory) ReserveFirstLegacy(n int) ([]*Seat, error) {
	available := inv.Available()
	if len(available) < n {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientSeats, n, len(available))
	}
	return inv.reserveEach(available[:n])
}

func (inv *SeatInventory) reserveEach(seats []*Seat) ([]*Seat, error) {
	reserved := make([]*Seat, 0, len(seats))
	for _, s := range seats {
		inv.mu.Lock()
		err := s.Reserve()
		inv.mu.Unlock()
		if err != nil {
			return reserved, fmt.Errorf("reserve seat %s: %w", s.Number(), err)
		}
		reserved = append(reserved, s)
	}
	return reserved, nil
}

// ReserveNumbers reserves the named seats, all or nothing.
func (inv *SeatInventory) ReserveNumbers(numbers []string) ([]*Seat, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	seen := make(map[string]struct{}, len(numbers))
	seats := make([]*Seat, 0, len(numbers))
	for _, n := range numbers {
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("%w: seat %s requested twice", ErrSeatAlreadyReserved, n)
		}
		seen[n] = struct{}{}

		s, err := inv.findLocked(n)
		if err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return reserveAll(seats)
}

// Release frees the given seats. Nil entries are skipped.
func (inv *SeatInventory) Release(seats []*Seat) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	var errs []error
	for _, s := range seats {
		if s == nil {
			continue
		}
		if err := s.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release seat %s: %w", s.Number(), err))
		}
	}
	return errors.Join(errs...)
}

// reserveAll reserves every seat or rolls back the ones it already took.
func reserveAll(seats []*Seat) ([]*Seat, error) {
	for i, s := range seats {
		if err := s.Reserve(); err != nil {
			for _, taken := range seats[:i] {
				_ = taken.Release()
			}
			return nil, fmt.Errorf("reserve seat %s: %w", s.Number(), err)
		}
	}
	out := make([]*Seat, len(seats))
	copy(out, seats)
	return out, nil
}
