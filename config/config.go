package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	GRPC    GRPCConfig    `yaml:"grpc"`
	Redis   RedisConfig   `yaml:"redis"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Log     LogConfig     `yaml:"log"`
	Pricing PricingConfig `yaml:"pricing"`
	Booking BookingConfig `yaml:"booking"`
	Flights []FlightSeed  `yaml:"flights"`
}

type HTTPConfig struct {
	Address    string          `yaml:"address"`
	SwaggerDir string          `yaml:"swagger_dir"`
	RateLimit  RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig is applied per client IP. Zero RequestsPerSecond disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	// IdleTTLSeconds drops buckets of clients not seen for that long. 0 keeps the default.
	IdleTTLSeconds int `yaml:"idle_ttl_seconds"`
}

func (r RateLimitConfig) IdleTTL() time.Duration {
	return time.Duration(r.IdleTTLSeconds) * time.Second
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type PricingConfig struct {
	TaxRate         float64 `yaml:"tax_rate"`
	DiscountRate    float64 `yaml:"discount_rate"`
	DomesticTaxRate float64 `yaml:"domestic_tax_rate"`
	// ReferenceYear pins high-season windows to one year; 0 makes them recur.
	ReferenceYear int    `yaml:"reference_year"`
	Timezone      string `yaml:"timezone"`
}

// Location resolves Timezone, falling back to UTC when unset.
func (p PricingConfig) Location() (*time.Location, error) {
	if p.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load pricing timezone %q: %w", p.Timezone, err)
	}
	return loc, nil
}

type BookingConfig struct {
	AllocationMode  string `yaml:"allocation_mode"`
	FlightsCacheTTL int    `yaml:"flights_cache_ttl_seconds"`
}

func (b BookingConfig) FlightsCacheTTLDuration() time.Duration {
	return time.Duration(b.FlightsCacheTTL) * time.Second
}

// FlightSeed describes a flight registered at startup.
type FlightSeed struct {
	Number      string    `yaml:"number"`
	Kind        string    `yaml:"kind"`
	Origin      string    `yaml:"origin"`
	Destination string    `yaml:"destination"`
	Departure   time.Time `yaml:"departure"`
	Arrival     time.Time `yaml:"arrival"`
	BasePrice   float64   `yaml:"base_price"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Booking.AllocationMode == "" {
		c.Booking.AllocationMode = "atomic"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "flightreservation-notifier"
	}
}
