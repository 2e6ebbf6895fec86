package api

import (
	"net/http"

	"github.com/Domenick1991/flightreservation/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	service booking.BookingUseCase
}

type quoteRequest struct {
	FlightNumber   string `json:"flight_number" binding:"required"`
	PassengerCount int    `json:"passenger_count" binding:"required,min=1"`
	PromoCode      string `json:"promo_code"`
}

func NewQuoteHandler(service booking.BookingUseCase) *QuoteHandler {
	return &QuoteHandler{service: service}
}

func (h *QuoteHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.quote)
}

func (h *QuoteHandler) quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.service.Quote(c.Request.Context(), booking.QuoteInput{
		FlightNumber:   req.FlightNumber,
		PassengerCount: req.PassengerCount,
		PromoCode:      req.PromoCode,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
