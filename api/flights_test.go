package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/Domenick1991/flightreservation/internal/domain"
	"github.com/Domenick1991/flightreservation/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newFlightRouter(svc *MockFlightUseCase) *gin.Engine {
	r := newTestEngine()
	NewFlightHandler(svc).Register(r.Group("/flights"))
	return r
}

func TestFlightHandler_List(t *testing.T) {
	svc := new(MockFlightUseCase)
	summary := domain.Summarize(newTestFlight())
	svc.On("List", mock.Anything).Return([]domain.FlightSummary{summary}, nil)

	w := doJSON(t, newFlightRouter(svc), http.MethodGet, "/flights", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []domain.FlightSummary
	decode(t, w, &got)
	assert.Len(t, got, 1)
	assert.Equal(t, "TK101", got[0].Number)
	assert.Equal(t, 50, got[0].AvailableSeats)
}

func TestFlightHandler_ListError(t *testing.T) {
	svc := new(MockFlightUseCase)
	svc.On("List", mock.Anything).Return(nil, errors.New("boom"))

	w := doJSON(t, newFlightRouter(svc), http.MethodGet, "/flights", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var got errorResponse
	decode(t, w, &got)
	assert.Equal(t, "INTERNAL_ERROR", got.Code)
}

func TestFlightHandler_GetNotFound(t *testing.T) {
	svc := new(MockFlightUseCase)
	svc.On("Get", mock.Anything, "XX1").
		Return(domain.FlightSummary{}, fmt.Errorf("%w: XX1", domain.ErrFlightNotFound))

	w := doJSON(t, newFlightRouter(svc), http.MethodGet, "/flights/XX1", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var got errorResponse
	decode(t, w, &got)
	assert.Equal(t, "NOT_FOUND", got.Code)
	assert.Contains(t, got.Error, "XX1")
}

func TestFlightHandler_Seats(t *testing.T) {
	svc := new(MockFlightUseCase)
	seats := []domain.SeatSummary{
		{Number: "D1", Class: domain.ClassBusiness, Available: true},
		{Number: "D11", Class: domain.ClassEconomy, Available: false},
	}
	svc.On("AvailableSeats", mock.Anything, "TK101").Return(seats, nil)

	w := doJSON(t, newFlightRouter(svc), http.MethodGet, "/flights/TK101/seats", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []domain.SeatSummary
	decode(t, w, &got)
	assert.Equal(t, seats, got)
}

func TestFlightHandler_Register(t *testing.T) {
	svc := new(MockFlightUseCase)
	dep := testNow.Add(48 * time.Hour)
	input := flights.RegisterFlightInput{
		Number:      "TK200",
		Kind:        domain.FlightKindInternational,
		Origin:      "Istanbul",
		Destination: "Paris",
		Departure:   dep,
		Arrival:     dep.Add(4 * time.Hour),
		BasePrice:   4500,
	}
	svc.On("Register", mock.Anything, input).Return(domain.FlightSummary{Number: "TK200"}, nil)

	w := doJSON(t, newFlightRouter(svc), http.MethodPost, "/flights", map[string]interface{}{
		"number":      "TK200",
		"kind":        "INTERNATIONAL",
		"origin":      "Istanbul",
		"destination": "Paris",
		"departure":   dep,
		"arrival":     dep.Add(4 * time.Hour),
		"base_price":  4500,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestFlightHandler_RegisterInvalidBody(t *testing.T) {
	svc := new(MockFlightUseCase)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed", body: `{"number":`},
		{name: "missing fields", body: `{"number":"TK1"}`},
		{name: "unknown kind", body: `{"number":"TK1","kind":"CARGO","origin":"A","destination":"B","departure":"2026-04-01T10:00:00Z","arrival":"2026-04-01T12:00:00Z"}`},
		{name: "negative price", body: `{"number":"TK1","kind":"DOMESTIC","origin":"A","destination":"B","departure":"2026-04-01T10:00:00Z","arrival":"2026-04-01T12:00:00Z","base_price":-1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, newFlightRouter(svc), http.MethodPost, "/flights", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestFlightHandler_RegisterDuplicate(t *testing.T) {
	svc := new(MockFlightUseCase)
	svc.On("Register", mock.Anything, mock.Anything).
		Return(domain.FlightSummary{}, fmt.Errorf("%w: TK101", domain.ErrFlightExists))

	w := doJSON(t, newFlightRouter(svc), http.MethodPost, "/flights",
		`{"number":"TK101","kind":"DOMESTIC","origin":"A","destination":"B","departure":"2026-04-01T10:00:00Z","arrival":"2026-04-01T12:00:00Z","base_price":100}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFlightHandler_UpdateStatus(t *testing.T) {
	svc := new(MockFlightUseCase)
	svc.On("UpdateStatus", mock.Anything, "TK101", domain.FlightStatusDelayed).
		Return(domain.FlightSummary{Number: "TK101", Status: domain.FlightStatusDelayed}, nil)

	w := doJSON(t, newFlightRouter(svc), http.MethodPut, "/flights/TK101/status", `{"status":"DELAYED"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	var got domain.FlightSummary
	decode(t, w, &got)
	assert.Equal(t, domain.FlightStatusDelayed, got.Status)
}

func TestFlightHandler_ChangeScheduleOutsideWindow(t *testing.T) {
	svc := new(MockFlightUseCase)
	svc.On("ChangeSchedule", mock.Anything, "TK101", mock.Anything, mock.Anything).
		Return(domain.FlightSummary{}, domain.ErrChangeNotAllowed)

	w := doJSON(t, newFlightRouter(svc), http.MethodPut, "/flights/TK101/schedule",
		`{"departure":"2026-04-01T10:00:00Z","arrival":"2026-04-01T12:00:00Z"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	var got errorResponse
	decode(t, w, &got)
	assert.Equal(t, "OUTSIDE_WINDOW", got.Code)
}
