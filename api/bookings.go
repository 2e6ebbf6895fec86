package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/flightreservation/internal/domain"
	"github.com/Domenick1991/flightreservation/internal/service/booking"
	"github.com/gin-gonic/gin"
)

const IdempotencyKeyHeader = "X-Idempotency-Key"

type BookingHandler struct {
	service booking.BookingUseCase
}

type passengerRequest struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	BirthDate      string `json:"birth_date" binding:"required,datetime=2006-01-02"`
	PassportNumber string `json:"passport_number" binding:"required"`
	Nationality    string `json:"nationality" binding:"required"`
	Email          string `json:"email" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
}

type createBookingRequest struct {
	FlightNumber      string             `json:"flight_number" binding:"required"`
	Passengers        []passengerRequest `json:"passengers" binding:"required,min=1,dive"`
	InsuranceIncluded bool               `json:"insurance_included"`
	PromoCode         string             `json:"promo_code"`
}

type paymentRequest struct {
	CardNumber     string `json:"card_number" binding:"required"`
	CardHolderName string `json:"card_holder_name" binding:"required"`
	ExpiryDate     string `json:"expiry_date" binding:"required"`
	CVV            string `json:"cvv" binding:"required"`
}

type changeBookingRequest struct {
	NewDeparture time.Time `json:"new_departure"`
	NewArrival   time.Time `json:"new_arrival"`
	SeatNumbers  []string  `json:"seat_numbers"`
}

type passengerResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type bookingResponse struct {
	ID                string              `json:"id"`
	FlightNumber      string              `json:"flight_number"`
	Status            string              `json:"status"`
	Passengers        []passengerResponse `json:"passengers"`
	Seats             []string            `json:"seats"`
	TotalPrice        float64             `json:"total_price"`
	Quote             domain.Quote        `json:"quote"`
	InsuranceIncluded bool                `json:"insurance_included"`
	BookingTime       string              `json:"booking_time"`
	CancellationFee   float64             `json:"cancellation_fee"`
	FailureReason     string              `json:"failure_reason,omitempty"`
}

type paymentResponse struct {
	ID          string  `json:"id"`
	BookingID   string  `json:"booking_id"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	PaymentTime string  `json:"payment_time"`
	Card        string  `json:"card,omitempty"`
}

type changeBookingResponse struct {
	Booking   bookingResponse `json:"booking"`
	ChangeFee float64         `json:"change_fee"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.cancel)
	router.POST("/:id/refund", h.refund)
	router.POST("/:id/payments", h.pay)
	router.POST("/:id/change", h.change)
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:                b.ID(),
		Status:            string(b.Status()),
		Seats:             b.SeatNumbers(),
		TotalPrice:        b.TotalPrice(),
		Quote:             b.Quote(),
		InsuranceIncluded: b.InsuranceIncluded(),
		BookingTime:       b.BookingTime().Format(time.RFC3339),
	}
	if f := b.Flight(); f != nil {
		resp.FlightNumber = f.Number()
		resp.CancellationFee = b.CalculateCancellationFee()
	}
	for _, p := range b.Passengers() {
		resp.Passengers = append(resp.Passengers, passengerResponse{ID: p.ID, FullName: p.FullName(), Email: p.ContactEmail})
	}
	if reason := b.FailureReason(); reason != nil {
		resp.FailureReason = reason.Error()
	}
	return resp
}

func toPaymentResponse(p domain.PaymentProcessor) paymentResponse {
	resp := paymentResponse{
		ID:          p.ID(),
		BookingID:   p.BookingID(),
		Amount:      p.Amount(),
		Status:      string(p.Status()),
		PaymentTime: p.PaymentTime().Format(time.RFC3339),
	}
	if masked, ok := p.(interface{ MaskedCardNumber() string }); ok {
		resp.Card = masked.MaskedCardNumber()
	}
	return resp
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	input := booking.CreateBookingInput{
		FlightNumber:      req.FlightNumber,
		InsuranceIncluded: req.InsuranceIncluded,
		PromoCode:         req.PromoCode,
		IdempotencyKey:    c.GetHeader(IdempotencyKeyHeader),
	}
	for i, p := range req.Passengers {
		birth, err := time.Parse("2006-01-02", p.BirthDate)
		if err != nil {
			badRequest(c, fmt.Errorf("passenger %d: birth_date: %w", i+1, err))
			return
		}
		input.Passengers = append(input.Passengers, booking.PassengerInput{
			FirstName:      p.FirstName,
			LastName:       p.LastName,
			BirthDate:      birth,
			PassportNumber: p.PassportNumber,
			Nationality:    p.Nationality,
			Email:          p.Email,
			Phone:          p.Phone,
		})
	}

	b, err := h.service.CreateBooking(c.Request.Context(), input)
	if err != nil {
		if b != nil {
			status, code := statusFor(err)
			_ = c.Error(err)
			c.JSON(status, gin.H{"error": err.Error(), "code": code, "booking": toBookingResponse(b)})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(b))
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	b, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) refund(c *gin.Context) {
	result, err := h.service.RefundBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *BookingHandler) pay(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.service.PayBooking(c.Request.Context(), c.Param("id"), booking.PaymentInput{
		CardNumber:     req.CardNumber,
		CardHolderName: req.CardHolderName,
		ExpiryDate:     req.ExpiryDate,
		CVV:            req.CVV,
	})
	if err != nil {
		if p != nil {
			_ = c.Error(err)
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error(), "code": "PAYMENT_FAILED", "payment": toPaymentResponse(p)})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPaymentResponse(p))
}

func (h *BookingHandler) change(c *gin.Context) {
	var req changeBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.service.ChangeBooking(c.Request.Context(), c.Param("id"), booking.ChangeBookingInput{
		NewDeparture: req.NewDeparture,
		NewArrival:   req.NewArrival,
		SeatNumbers:  req.SeatNumbers,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, changeBookingResponse{Booking: toBookingResponse(result.Booking), ChangeFee: result.ChangeFee})
}
