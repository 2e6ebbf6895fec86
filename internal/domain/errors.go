package domain

import "errors"

var (
	// Seat and inventory errors
	ErrSeatAlreadyReserved = errors.New("seat is already reserved")
	ErrSeatNotReserved     = errors.New("seat is not reserved")
	ErrSeatNotFound        = errors.New("seat not found")
	ErrInsufficientSeats   = errors.New("insufficient seats available")
	ErrSeatCountMismatch   = errors.New("seat count does not match passenger count")

	// Eligibility window errors
	ErrChangeNotAllowed       = errors.New("change is not allowed this close to departure")
	ErrCancellationNotAllowed = errors.New("cancellation is not allowed this close to departure")
	ErrNotRefundable          = errors.New("booking is not refundable")

	// State machine errors
	ErrInvalidBookingStatus = errors.New("invalid booking status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrRequestInProgress    = errors.New("a request with this idempotency key is in progress")
	ErrFlightExists         = errors.New("flight already exists")
	ErrAlreadyPaid          = errors.New("booking is already paid")

	// Pricing errors
	ErrUnknownPromoCode      = errors.New("unknown promo code")
	ErrInvalidPassengerCount = errors.New("passenger count must be greater than zero")
	ErrInvalidPrice          = errors.New("price cannot be negative")
	ErrNilFlight             = errors.New("flight is required")
	ErrNilPricingStrategy    = errors.New("pricing strategy is required")

	// Payment instrument errors
	ErrInvalidCardNumber = errors.New("card number must be 13-19 digits")
	ErrInvalidCardHolder = errors.New("card holder name must contain first and last name")
	ErrInvalidExpiry     = errors.New("expiry date must be MM/YY")
	ErrInvalidCVV        = errors.New("cvv must be 3 or 4 digits")

	// Input errors
	ErrInvalidPassenger = errors.New("invalid passenger")
	ErrInvalidFlight    = errors.New("invalid flight")

	// Lookup errors
	ErrFlightNotFound  = errors.New("flight not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrPaymentNotFound = errors.New("payment not found")
)

// IsValidationError reports whether err is caused by malformed input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidCardNumber) ||
		errors.Is(err, ErrInvalidCardHolder) ||
		errors.Is(err, ErrInvalidExpiry) ||
		errors.Is(err, ErrInvalidCVV) ||
		errors.Is(err, ErrInvalidPassenger) ||
		errors.Is(err, ErrInvalidFlight) ||
		errors.Is(err, ErrInvalidPassengerCount) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrNilFlight) ||
		errors.Is(err, ErrNilPricingStrategy) ||
		errors.Is(err, ErrSeatCountMismatch) ||
		errors.Is(err, ErrUnknownPromoCode)
}

// IsNotFoundError reports whether err is a lookup miss.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrFlightNotFound) ||
		errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrPaymentNotFound) ||
		errors.Is(err, ErrSeatNotFound)
}

// IsConflictError reports whether err is caused by the current state of an entity.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrSeatAlreadyReserved) ||
		errors.Is(err, ErrSeatNotReserved) ||
		errors.Is(err, ErrInsufficientSeats) ||
		errors.Is(err, ErrInvalidBookingStatus) ||
		errors.Is(err, ErrInvalidPaymentStatus) ||
		errors.Is(err, ErrRequestInProgress) ||
		errors.Is(err, ErrFlightExists) ||
		errors.Is(err, ErrAlreadyPaid) ||
		errors.Is(err, ErrNotRefundable)
}

// IsWindowError reports whether err is a time-based eligibility failure.
func IsWindowError(err error) bool {
	return errors.Is(err, ErrChangeNotAllowed) ||
		errors.Is(err, ErrCancellationNotAllowed)
}
