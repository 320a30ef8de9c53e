package trip

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSource tells whether a price was read from search output or substituted.
type PriceSource string

const (
	SourceRaw      PriceSource = "raw"
	SourceFallback PriceSource = "fallback"
)

// PriceQuote is the outcome of a single price extraction.
type PriceQuote struct {
	Price  float64     `json:"price"`
	Source PriceSource `json:"source"`
}

// Found reports whether the price came from the search output.
func (q PriceQuote) Found() bool {
	return q.Source == SourceRaw
}

// FlightLeg is one direction of a round trip.
type FlightLeg struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Date        string  `json:"date"`
	Price       float64 `json:"price"`
	Airline     string  `json:"airline,omitempty"`
}

// FlightQuote is a priced round trip. Dates are opaque tokens.
type FlightQuote struct {
	Departure FlightLeg   `json:"departure"`
	Return    FlightLeg   `json:"return"`
	Source    PriceSource `json:"source"`
}

// OutboundPrice returns the departure leg price.
func (f FlightQuote) OutboundPrice() float64 { return f.Departure.Price }

// ReturnPrice returns the return leg price.
func (f FlightQuote) ReturnPrice() float64 { return f.Return.Price }

// Total returns the round-trip price.
func (f FlightQuote) Total() float64 {
	return f.Departure.Price + f.Return.Price
}

// HotelQuote holds a nightly rate. The stay cost is derived, never stored.
type HotelQuote struct {
	Destination   string      `json:"destination"`
	Checkin       string      `json:"checkin"`
	Checkout      string      `json:"checkout"`
	PricePerNight float64     `json:"price_per_night"`
	Name          string      `json:"name"`
	Source        PriceSource `json:"source"`
}

// StayCost returns the nightly rate multiplied by nights.
func (h HotelQuote) StayCost(nights int) float64 {
	return h.PricePerNight * float64(nights)
}

// Attraction is a sight with its entry fee.
type Attraction struct {
	Name string  `json:"name"`
	Fee  float64 `json:"fee"`
}

// DayPlan is a single calendar day of the itinerary.
type DayPlan struct {
	Day        int          `json:"day"`
	Activities []Attraction `json:"activities"`
	TravelCost float64      `json:"travel"`
}

// Fees returns the sum of entry fees for the day.
func (d DayPlan) Fees() float64 {
	var sum float64
	for _, a := range d.Activities {
		sum += a.Fee
	}
	return sum
}

// Total returns fees plus the day's travel cost.
func (d DayPlan) Total() float64 {
	return d.TravelCost + d.Fees()
}

// Itinerary is the day-by-day schedule for a destination.
type Itinerary struct {
	Destination string    `json:"destination"`
	Days        []DayPlan `json:"days"`
}

// Total returns the activities-plus-travel cost of the whole itinerary.
func (it Itinerary) Total() float64 {
	var sum float64
	for _, d := range it.Days {
		sum += d.Total()
	}
	return sum
}

// BudgetBreakdown reconciles all trip costs against the budget.
// TotalSpent and Remaining are exact; rounding happens only when displayed.
// Amounts encode as JSON strings with trailing zeros trimmed ("560.70" comes
// back as "560.7"), so decoded amounts keep their value but not their
// exponent: compare them with Decimal.Equal, not ==.
type BudgetBreakdown struct {
	FlightCost     decimal.Decimal `json:"flight_cost"`
	HotelCost      decimal.Decimal `json:"hotel_cost"`
	ActivitiesCost decimal.Decimal `json:"activities_cost"`
	TotalBudget    decimal.Decimal `json:"total_budget"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	Remaining      decimal.Decimal `json:"remaining"`
	Nights         int             `json:"nights"`
}

// OverBudget reports whether the plan spends more than the budget.
func (b BudgetBreakdown) OverBudget() bool {
	return b.Remaining.IsNegative()
}

// Plan is the reconciled bundle produced by one planning run.
type Plan struct {
	ID        string          `json:"id"`
	Flight    FlightQuote     `json:"flight"`
	Hotel     HotelQuote      `json:"hotel"`
	Itinerary Itinerary       `json:"itinerary"`
	Budget    BudgetBreakdown `json:"budget"`
	CreatedAt time.Time       `json:"created_at"`
}
