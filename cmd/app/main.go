package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightreservation/config"
	"github.com/Domenick1991/flightreservation/internal/bootstrap"
	"github.com/Domenick1991/flightreservation/internal/cache"
	"github.com/Domenick1991/flightreservation/internal/domain"
	"github.com/Domenick1991/flightreservation/internal/kafka"
	"github.com/Domenick1991/flightreservation/internal/logger"
	"github.com/Domenick1991/flightreservation/internal/repository"
	"github.com/Domenick1991/flightreservation/internal/service/booking"
	"github.com/Domenick1991/flightreservation/internal/service/flights"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Pricing.Location()
	if err != nil {
		zl.Fatal("pricing timezone", zap.Error(err))
	}

	mode := domain.AllocationMode(cfg.Booking.AllocationMode)
	if mode != domain.AllocationAtomic && mode != domain.AllocationLegacy {
		zl.Fatal("unknown allocation mode", zap.String("mode", cfg.Booking.AllocationMode))
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.FlightsCacheTTLDuration())
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, kafka.WithProducerLogger(zl))
	defer producer.Close()
	if err := producer.CheckConnection(ctx); err != nil {
		zl.Warn("kafka unreachable, events will be retried per publish", zap.Error(err))
	}

	flightRepo := repository.NewFlightRepository()
	bookingRepo := repository.NewBookingRepository()
	paymentRepo := repository.NewPaymentRepository()

	flightService := flights.NewFlightService(
		flightRepo,
		redisCache,
		flights.WithLogger(zl),
		flights.WithDomesticTaxRate(cfg.Pricing.DomesticTaxRate),
	)
	if err := seedFlights(ctx, flightService, cfg.Flights); err != nil {
		zl.Fatal("seed flights", zap.Error(err))
	}

	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		paymentRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithAllocationMode(mode),
		booking.WithLogger(zl),
		booking.WithPricing(booking.PricingSettings{
			TaxRate:       cfg.Pricing.TaxRate,
			DiscountRate:  cfg.Pricing.DiscountRate,
			ReferenceYear: cfg.Pricing.ReferenceYear,
			Location:      loc,
		}),
	)

	if err := bootstrap.Run(ctx, cfg, zl, flightService, bookingService); err != nil {
		zl.Fatal("server error", zap.Error(err))
	}
}

func seedFlights(ctx context.Context, svc flights.FlightUseCase, seeds []config.FlightSeed) error {
	for _, s := range seeds {
		if _, err := svc.Register(ctx, flights.RegisterFlightInput{
			Number:      s.Number,
			Kind:        domain.FlightKind(s.Kind),
			Origin:      s.Origin,
			Destination: s.Destination,
			Departure:   s.Departure,
			Arrival:     s.Arrival,
			BasePrice:   s.BasePrice,
		}); err != nil {
			return err
		}
	}
	return nil
}
