package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// Payable is what a payment needs from a booking.
type Payable interface {
	ID() string
	TotalPrice() float64
}

type PaymentProcessor interface {
	ID() string
	BookingID() string
	Amount() float64
	Status() PaymentStatus
	PaymentTime() time.Time
	ValidatePaymentDetails() error
	ProcessPayment() error
	RefundPayment() error
}

type PaymentOption func(*payment)

func WithPaymentClock(c Clock) PaymentOption {
	return func(p *payment) {
		p.clock = c
	}
}

type payment struct {
	mu          sync.Mutex
	id          string
	bookingID   string
	amount      float64
	paymentTime time.Time
	status      PaymentStatus
	clock       Clock
}

// init snapshots the booking total; later repricing does not change the amount.
func (p *payment) init(booking Payable, opts []PaymentOption) {
	p.id = "PAY-" + uuid.NewString()
	p.bookingID = booking.ID()
	p.amount = booking.TotalPrice()
	p.status = PaymentStatusPending
	p.clock = SystemClock{}
	for _, opt := range opts {
		opt(p)
	}
	p.paymentTime = p.clock.Now()
}

func (p *payment) ID() string        { return p.id }
func (p *payment) BookingID() string { return p.bookingID }
func (p *payment) Amount() float64   { return p.amount }

func (p *payment) Status() PaymentStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *payment) PaymentTime() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paymentTime
}

// RefundPayment is only valid for completed payments.
func (p *payment) RefundPayment() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.status != PaymentStatusCompleted {
		return fmt.Errorf("%w: cannot refund %s payment", ErrInvalidPaymentStatus, p.status)
	}
	p.status = PaymentStatusRefunded
	return nil
}

// settle runs validate and moves a pending payment to COMPLETED or FAILED.
func (p *payment) settle(validate func() error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.status != PaymentStatusPending {
		return fmt.Errorf("%w: cannot process %s payment", ErrInvalidPaymentStatus, p.status)
	}
	if err := validate(); err != nil {
		p.status = PaymentStatusFailed
		return err
	}
	p.paymentTime = p.clock.Now()
	p.status = PaymentStatusCompleted
	return nil
}

type cardDetails struct {
	Number string `validate:"required,number,min=13,max=19"`
	Holder string `validate:"required,multiword"`
	Expiry string `validate:"required,mmyy"`
	CVV    string `validate:"required,number,min=3,max=4"`
}

// CreditCardPayment checks card data syntactically only. No network is involved.
type CreditCardPayment struct {
	payment
	card cardDetails
}

func NewCreditCardPayment(booking Payable, cardNumber, cardHolderName, expiryDate, cvv string, opts ...PaymentOption) *CreditCardPayment {
	p := &CreditCardPayment{
		card: cardDetails{
			Number: cardNumber,
			Holder: cardHolderName,
			Expiry: expiryDate,
			CVV:    cvv,
		},
	}
	p.init(booking, opts)
	return p
}

func (p *CreditCardPayment) CardHolderName() string { return p.card.Holder }
func (p *CreditCardPayment) ExpiryDate() string     { return p.card.Expiry }

// MaskedCardNumber keeps only the last four digits.
func (p *CreditCardPayment) MaskedCardNumber() string {
	n := p.card.Number
	if len(n) <= 4 {
		return n
	}
	return strings.Repeat("*", len(n)-4) + n[len(n)-4:]
}

func (p *CreditCardPayment) ValidatePaymentDetails() error {
	err := validate.Struct(p.card)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	switch verrs[0].Field() {
	case "Number":
		return ErrInvalidCardNumber
	case "Holder":
		return ErrInvalidCardHolder
	case "Expiry":
		return ErrInvalidExpiry
	default:
		return ErrInvalidCVV
	}
}

func (p *CreditCardPayment) ProcessPayment() error {
	return p.settle(p.ValidatePaymentDetails)
}

var _ PaymentProcessor = (*CreditCardPayment)(nil)
