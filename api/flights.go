package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/flightreservation/internal/domain"
	"github.com/Domenick1991/flightreservation/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type registerFlightRequest struct {
	Number      string    `json:"number" binding:"required"`
	Kind        string    `json:"kind" binding:"required,oneof=DOMESTIC INTERNATIONAL domestic international"`
	Origin      string    `json:"origin" binding:"required"`
	Destination string    `json:"destination" binding:"required"`
	Departure   time.Time `json:"departure" binding:"required"`
	Arrival     time.Time `json:"arrival" binding:"required"`
	BasePrice   float64   `json:"base_price" binding:"gte=0"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type changeScheduleRequest struct {
	Departure time.Time `json:"departure"`
	Arrival   time.Time `json:"arrival"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.register)
	router.GET("/:number", h.get)
	router.GET("/:number/seats", h.seats)
	router.PUT("/:number/status", h.updateStatus)
	router.PUT("/:number/schedule", h.changeSchedule)
}

func (h *FlightHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.Get(c.Request.Context(), c.Param("number"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) seats(c *gin.Context) {
	seats, err := h.service.AvailableSeats(c.Request.Context(), c.Param("number"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, seats)
}

func (h *FlightHandler) register(c *gin.Context) {
	var req registerFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	flight, err := h.service.Register(c.Request.Context(), flights.RegisterFlightInput{
		Number:      req.Number,
		Kind:        domain.FlightKind(req.Kind),
		Origin:      req.Origin,
		Destination: req.Destination,
		Departure:   req.Departure,
		Arrival:     req.Arrival,
		BasePrice:   req.BasePrice,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, flight)
}

func (h *FlightHandler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	flight, err := h.service.UpdateStatus(c.Request.Context(), c.Param("number"), domain.FlightStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) changeSchedule(c *gin.Context) {
	var req changeScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	flight, err := h.service.ChangeSchedule(c.Request.Context(), c.Param("number"), req.Departure, req.Arrival)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}
