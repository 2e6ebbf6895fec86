package domain

import "time"

// ChangeRequest is an immutable proposal to move a booking to a new schedule and, optionally, new seats.
type ChangeRequest struct {
	bookingID      string
	newDeparture   time.Time
	newArrival     time.Time
	newSeatNumbers []string
}

func NewChangeRequest(bookingID string, newDeparture, newArrival time.Time, newSeatNumbers []string) ChangeRequest {
	seats := make([]string, len(newSeatNumbers))
	copy(seats, newSeatNumbers)
	return ChangeRequest{
		bookingID:      bookingID,
		newDeparture:   newDeparture,
		newArrival:     newArrival,
		newSeatNumbers: seats,
	}
}

func (r ChangeRequest) BookingID() string           { return r.bookingID }
func (r ChangeRequest) NewDepartureTime() time.Time { return r.newDeparture }
func (r ChangeRequest) NewArrivalTime() time.Time   { return r.newArrival }

func (r ChangeRequest) NewSeatNumbers() []string {
	out := make([]string, len(r.newSeatNumbers))
	copy(out, r.newSeatNumbers)
	return out
}

func (r ChangeRequest) HasSeatChange() bool {
	return len(r.newSeatNumbers) > 0
}
