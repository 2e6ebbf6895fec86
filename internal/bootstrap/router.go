package bootstrap

import (
	"net/http"

	"github.com/Domenick1991/flightreservation/api"
	"github.com/Domenick1991/flightreservation/config"
	"github.com/Domenick1991/flightreservation/internal/service/booking"
	"github.com/Domenick1991/flightreservation/internal/service/flights"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const openAPIPath = "/openapi"

// NewRouter wires the REST handlers under /api/v1.
func NewRouter(cfg config.HTTPConfig, logger *zap.Logger, flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.SwaggerDir != "" {
		r.Static(openAPIPath, cfg.SwaggerDir)
		r.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL(openAPIPath+"/flightreservation.swagger.json"),
		)))
	}

	v1 := r.Group("/api/v1")
	if cfg.RateLimit.RequestsPerSecond > 0 {
		v1.Use(api.RateLimit(api.NewClientLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst,
			api.WithIdleTTL(cfg.RateLimit.IdleTTL()),
		)))
	}

	api.NewFlightHandler(flightSvc).Register(v1.Group("/flights"))
	api.NewBookingHandler(bookingSvc).Register(v1.Group("/bookings"))
	api.NewQuoteHandler(bookingSvc).Register(v1.Group("/quotes"))

	return r
}
