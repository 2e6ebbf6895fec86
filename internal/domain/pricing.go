package domain

import (
	"fmt"
	"sync"
	"time"
)

// PricingStrategy turns a flight's base fare into a booking total.
type PricingStrategy interface {
	CalculateBasePrice(f Flight) float64
	ApplyDiscounts(basePrice float64, passengerCount int) float64
	ApplyTaxes(priceAfterDiscount float64) float64
	CalculateFinalPrice(f Flight, passengerCount int) (Quote, error)
}

// ClassPricer prices from the base fare memoized by the last CalculateFinalPrice call.
// Before the first pricing call both methods return 0.
type ClassPricer interface {
	PriceForClass(class ClassType) float64
	PriceForDate(date time.Time) float64
}

type PromoApplier interface {
	ApplyPromoCode(code string) error
}

// Quote is the result of one pricing run.
type Quote struct {
	FlightNumber    string  `json:"flight_number"`
	BasePrice       float64 `json:"base_price"`
	DiscountedPrice float64 `json:"discounted_price"`
	PerPassenger    float64 `json:"per_passenger"`
	PassengerCount  int     `json:"passenger_count"`
	Total           float64 `json:"total"`
}

func (q Quote) PriceForClass(class ClassType) float64 {
	return q.BasePrice * classMultiplier(class)
}

func classMultiplier(class ClassType) float64 {
	switch class {
	case ClassFirst:
		return 3.0
	case ClassBusiness:
		return 2.0
	default:
		return 1.0
	}
}

var promoCodes = map[string]float64{
	"SUMMER2023": 0.10,
	"WINTER2023": 0.15,
}

// StandardPricing charges the flight's base fare as is.
type StandardPricing struct {
	mu           sync.Mutex
	taxRate      float64
	discountRate float64
	lastBase     float64
}

func NewStandardPricing(taxRate, discountRate float64) *StandardPricing {
	return &StandardPricing{taxRate: taxRate, discountRate: discountRate}
}

func (p *StandardPricing) TaxRate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.taxRate
}

func (p *StandardPricing) DiscountRate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.discountRate
}

// BasePrice is the base fare memoized by the last pricing call.
func (p *StandardPricing) BasePrice() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastBase
}

func (p *StandardPricing) CalculateBasePrice(f Flight) float64 {
	return f.BasePrice()
}

// ApplyDiscounts returns the discounted per-passenger price. passengerCount is not used.
func (p *StandardPricing) ApplyDiscounts(basePrice float64, passengerCount int) float64 {
	return basePrice * (1 - p.DiscountRate())
}

func (p *StandardPricing) ApplyTaxes(priceAfterDiscount float64) float64 {
	return priceAfterDiscount * (1 + p.TaxRate())
}

func (p *StandardPricing) CalculateFinalPrice(f Flight, passengerCount int) (Quote, error) {
	if f == nil {
		return Quote{}, ErrNilFlight
	}
	return p.quote(f, p.CalculateBasePrice(f), passengerCount)
}

func (p *StandardPricing) quote(f Flight, base float64, passengerCount int) (Quote, error) {
	if passengerCount <= 0 {
		return Quote{}, fmt.Errorf("%w: got %d", ErrInvalidPassengerCount, passengerCount)
	}
	if base < 0 {
		return Quote{}, fmt.Errorf("%w: base fare %.2f", ErrInvalidPrice, base)
	}

	discounted := p.ApplyDiscounts(base, passengerCount)
	perPassenger := p.ApplyTaxes(discounted)

	p.mu.Lock()
	p.lastBase = base
	p.mu.Unlock()

	return Quote{
		FlightNumber:    f.Number(),
		BasePrice:       base,
		DiscountedPrice: discounted,
		PerPassenger:    perPassenger,
		PassengerCount:  passengerCount,
		Total:           perPassenger * float64(passengerCount),
	}, nil
}

// PriceForClass depends on a prior CalculateFinalPrice call.
func (p *StandardPricing) PriceForClass(class ClassType) float64 {
	return p.BasePrice() * classMultiplier(class)
}

// ApplyPromoCode adds the code's rate to the discount. Applying the same code twice stacks.
func (p *StandardPricing) ApplyPromoCode(code string) error {
	rate, ok := promoCodes[code]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPromoCode, code)
	}
	p.mu.Lock()
	p.discountRate += rate
	p.mu.Unlock()
	return nil
}

const (
	LowSeasonRate  = 0.8
	HighSeasonRate = 1.3
)

// SeasonWindow is an inclusive range of calendar dates.
type SeasonWindow struct {
	Start time.Time
	End   time.Time
}

func (w SeasonWindow) Contains(day time.Time) bool {
	return !day.Before(w.Start) && !day.After(w.End)
}

// HighSeasonWindows returns the high-season ranges anchored to year:
// Jun 15 - Sep 15, Sep 15 - Dec 15 and Dec 15 - Jan 15 of the following year.
func HighSeasonWindows(year int, loc *time.Location) []SeasonWindow {
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
	return []SeasonWindow{
		{Start: date(year, time.June, 15), End: date(year, time.September, 15)},
		{Start: date(year, time.September, 15), End: date(year, time.December, 15)},
		{Start: date(year, time.December, 15), End: date(year+1, time.January, 15)},
	}
}

type SeasonalOption func(*SeasonalPricing)

// WithReferenceYear pins the high-season windows to one year. 0 makes them recur yearly.
func WithReferenceYear(year int) SeasonalOption {
	return func(p *SeasonalPricing) {
		p.referenceYear = year
	}
}

func WithSeasonLocation(loc *time.Location) SeasonalOption {
	return func(p *SeasonalPricing) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// WithHighSeasons replaces the default windows entirely.
func WithHighSeasons(windows ...SeasonWindow) SeasonalOption {
	return func(p *SeasonalPricing) {
		p.custom = windows
	}
}

// SeasonalPricing scales the base fare up in high season and down otherwise.
type SeasonalPricing struct {
	StandardPricing
	lowSeasonRate  float64
	highSeasonRate float64
	referenceYear  int
	loc            *time.Location
	custom         []SeasonWindow
}

func NewSeasonalPricing(taxRate, discountRate float64, opts ...SeasonalOption) *SeasonalPricing {
	p := &SeasonalPricing{
		StandardPricing: StandardPricing{taxRate: taxRate, discountRate: discountRate},
		lowSeasonRate:   LowSeasonRate,
		highSeasonRate:  HighSeasonRate,
		loc:             time.UTC,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *SeasonalPricing) LowSeasonRate() float64  { return p.lowSeasonRate }
func (p *SeasonalPricing) HighSeasonRate() float64 { return p.highSeasonRate }

func (p *SeasonalPricing) windowsFor(day time.Time) []SeasonWindow {
	if p.custom != nil {
		return p.custom
	}
	if p.referenceYear != 0 {
		return HighSeasonWindows(p.referenceYear, p.loc)
	}
	// The Dec-Jan window of the previous year covers early January.
	return append(HighSeasonWindows(day.Year()-1, p.loc), HighSeasonWindows(day.Year(), p.loc)...)
}

func (p *SeasonalPricing) IsHighSeason(t time.Time) bool {
	local := t.In(p.loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.loc)
	for _, w := range p.windowsFor(day) {
		if w.Contains(day) {
			return true
		}
	}
	return false
}

func (p *SeasonalPricing) seasonRate(t time.Time) float64 {
	if p.IsHighSeason(t) {
		return p.highSeasonRate
	}
	return p.lowSeasonRate
}

func (p *SeasonalPricing) CalculateBasePrice(f Flight) float64 {
	return f.BasePrice() * p.seasonRate(f.DepartureTime())
}

func (p *SeasonalPricing) CalculateFinalPrice(f Flight, passengerCount int) (Quote, error) {
	if f == nil {
		return Quote{}, ErrNilFlight
	}
	return p.quote(f, p.CalculateBasePrice(f), passengerCount)
}

// PriceForDate applies the season multiplier for date to the memoized base fare.
func (p *SeasonalPricing) PriceForDate(date time.Time) float64 {
	return p.BasePrice() * p.seasonRate(date)
}

var (
	_ PricingStrategy = (*StandardPricing)(nil)
	_ PricingStrategy = (*SeasonalPricing)(nil)
	_ ClassPricer     = (*SeasonalPricing)(nil)
	_ PromoApplier    = (*StandardPricing)(nil)
	_ PromoApplier    = (*SeasonalPricing)(nil)
)
