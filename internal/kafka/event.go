package kafka

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	EventBookingConfirmed = "booking_confirmed"
	EventBookingFailed    = "booking_failed"
	EventBookingCancelled = "booking_cancelled"
	EventBookingChanged   = "booking_changed"
	EventRefundProcessed  = "refund_processed"
	EventPaymentCompleted = "payment_completed"
	EventPaymentFailed    = "payment_failed"
)

type BookingEvent struct {
	Type         string    `json:"type"`
	BookingID    string    `json:"booking_id"`
	FlightNumber string    `json:"flight_number"`
	Seats        []string  `json:"seats,omitempty"`
	Email        string    `json:"email,omitempty"`
	Status       string    `json:"status"`
	Amount       float64   `json:"amount,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	At           time.Time `json:"at"`
}

func DecodeBookingEvent(data []byte) (BookingEvent, error) {
	var event BookingEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return BookingEvent{}, fmt.Errorf("decode booking event: %w", err)
	}
	if event.Type == "" || event.BookingID == "" {
		return BookingEvent{}, fmt.Errorf("decode booking event: missing type or booking id")
	}
	return event, nil
}
