package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/Domenick1991/flightreservation/internal/domain"
)

type PaymentRepository interface {
	Save(ctx context.Context, payment domain.PaymentProcessor) error
	GetByID(ctx context.Context, id string) (domain.PaymentProcessor, error)
	ListByBooking(ctx context.Context, bookingID string) ([]domain.PaymentProcessor, error)
}

type MemoryPaymentRepository struct {
	mu        sync.RWMutex
	payments  map[string]domain.PaymentProcessor
	byBooking map[string][]string
}

func NewPaymentRepository() PaymentRepository {
	return &MemoryPaymentRepository{
		payments:  make(map[string]domain.PaymentProcessor),
		byBooking: make(map[string][]string),
	}
}

func (r *MemoryPaymentRepository) Save(ctx context.Context, payment domain.PaymentProcessor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.payments[payment.ID()]; !exists {
		r.byBooking[payment.BookingID()] = append(r.byBooking[payment.BookingID()], payment.ID())
	}
	r.payments[payment.ID()] = payment
	return nil
}

func (r *MemoryPaymentRepository) GetByID(ctx context.Context, id string) (domain.PaymentProcessor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.payments[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPaymentNotFound, id)
	}
	return p, nil
}

// ListByBooking returns payments in the order they were first saved.
func (r *MemoryPaymentRepository) ListByBooking(ctx context.Context, bookingID string) ([]domain.PaymentProcessor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byBooking[bookingID]
	out := make([]domain.PaymentProcessor, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.payments[id])
	}
	return out, nil
}

var _ PaymentRepository = (*MemoryPaymentRepository)(nil)
