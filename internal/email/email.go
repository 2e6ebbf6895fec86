package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightreservation/internal/kafka"
	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender renders booking notifications. Delivery is a structured log line.
type Sender struct {
	logger *zap.Logger
}

func NewSender(logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.Email == "" {
		s.logger.Debug("skip notification without recipient",
			zap.String("type", event.Type), zap.String("booking_id", event.BookingID))
		return nil
	}

	msg := Render(event)
	s.logger.Info("send email",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
		zap.String("booking_id", event.BookingID),
		zap.String("type", event.Type),
	)
	return nil
}

func Render(event kafka.BookingEvent) Message {
	seats := strings.Join(event.Seats, ", ")
	var subject, body string
	switch event.Type {
	case kafka.EventBookingConfirmed:
		subject = fmt.Sprintf("Booking %s confirmed", event.BookingID)
		body = fmt.Sprintf("Your booking on flight %s is confirmed. Seats: %s. Total: %.2f.", event.FlightNumber, seats, event.Amount)
	case kafka.EventBookingFailed:
		subject = fmt.Sprintf("Booking %s could not be completed", event.BookingID)
		body = fmt.Sprintf("We could not book flight %s: %s.", event.FlightNumber, event.Reason)
	case kafka.EventBookingCancelled:
		subject = fmt.Sprintf("Booking %s cancelled", event.BookingID)
		body = fmt.Sprintf("Your booking on flight %s was cancelled.", event.FlightNumber)
	case kafka.EventBookingChanged:
		subject = fmt.Sprintf("Booking %s changed", event.BookingID)
		body = fmt.Sprintf("Your booking on flight %s was changed. Seats: %s. Change fee: %.2f.", event.FlightNumber, seats, event.Amount)
	case kafka.EventRefundProcessed:
		subject = fmt.Sprintf("Refund for booking %s", event.BookingID)
		body = fmt.Sprintf("A refund of %.2f for flight %s has been processed.", event.Amount, event.FlightNumber)
	case kafka.EventPaymentCompleted:
		subject = fmt.Sprintf("Payment received for booking %s", event.BookingID)
		body = fmt.Sprintf("We received your payment of %.2f.", event.Amount)
	case kafka.EventPaymentFailed:
		subject = fmt.Sprintf("Payment failed for booking %s", event.BookingID)
		body = fmt.Sprintf("Your payment was declined: %s.", event.Reason)
	default:
		subject = fmt.Sprintf("Update on booking %s", event.BookingID)
		body = fmt.Sprintf("Booking status: %s.", event.Status)
	}
	return Message{To: event.Email, Subject: subject, Body: body}
}
