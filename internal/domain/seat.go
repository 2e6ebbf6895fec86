package domain

type ClassType string

const (
	ClassEconomy  ClassType = "ECONOMY"
	ClassBusiness ClassType = "BUSINESS"
	ClassFirst    ClassType = "FIRST"
)

// Seat is a single inventory unit. It belongs to exactly one flight.
type Seat struct {
	number    string
	class     ClassType
	available bool
}

func NewSeat(number string, class ClassType) *Seat {
	return &Seat{number: number, class: class, available: true}
}

func (s *Seat) Number() string {
	return s.number
}

func (s *Seat) Class() ClassType {
	return s.class
}

func (s *Seat) IsAvailable() bool {
	return s.available
}

// Reserve marks the seat as taken. It fails without changing state if the seat is already reserved.
func (s *Seat) Reserve() error {
	if !s.available {
		return ErrSeatAlreadyReserved
	}
	s.available = false
	return nil
}

// Release frees a reserved seat. It fails without changing state if the seat is already free.
func (s *Seat) Release() error {
	if s.available {
		return ErrSeatNotReserved
	}
	s.available = true
	return nil
}
