package domain

import "time"

// FlightSummary is a flat, serializable view of a flight used by caches and APIs.
type FlightSummary struct {
	Number           string            `json:"number"`
	Kind             FlightKind        `json:"kind"`
	Origin           string            `json:"origin"`
	Destination      string            `json:"destination"`
	DepartureTime    time.Time         `json:"departure_time"`
	ArrivalTime      time.Time         `json:"arrival_time"`
	DurationMinutes  int64             `json:"duration_minutes"`
	Status           FlightStatus      `json:"status"`
	BasePrice        float64           `json:"base_price"`
	TotalSeats       int               `json:"total_seats"`
	AvailableSeats   int               `json:"available_seats"`
	AvailableByClass map[ClassType]int `json:"available_by_class"`
	ChangeFee        float64           `json:"change_fee,omitempty"`
	ChangeAllowed    bool              `json:"change_allowed"`
}

func Summarize(f Flight) FlightSummary {
	inv := f.Inventory()
	s := FlightSummary{
		Number:           f.Number(),
		Kind:             f.Kind(),
		Origin:           f.Origin(),
		Destination:      f.Destination(),
		DepartureTime:    f.DepartureTime(),
		ArrivalTime:      f.ArrivalTime(),
		DurationMinutes:  f.DurationMinutes(),
		Status:           f.Status(),
		BasePrice:        f.BasePrice(),
		TotalSeats:       inv.Total(),
		AvailableSeats:   inv.Total() - inv.ReservedCount(),
		AvailableByClass: inv.CountByClass(),
	}
	if c, ok := f.(Changeable); ok {
		s.ChangeFee = c.CalculateChangeFee()
		s.ChangeAllowed = c.IsChangeAllowed()
	}
	return s
}

type SeatSummary struct {
	Number    string    `json:"number"`
	Class     ClassType `json:"class"`
	Available bool      `json:"available"`
}

func summarizeSeat(s *Seat) SeatSummary {
	return SeatSummary{Number: s.Number(), Class: s.Class(), Available: s.IsAvailable()}
}
