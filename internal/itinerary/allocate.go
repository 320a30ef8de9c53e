// Package itinerary spreads attractions over the days of a trip.
package itinerary

import "github.com/alex-user-go/tripplanner/internal/trip"

const (
	// DefaultDays is the trip length used when none is configured.
	DefaultDays = 7
	// DefaultDailyTravelCost is the local transport cost attached to every day.
	DefaultDailyTravelCost = 7.50
	// PerDay is how many attractions a day holds.
	PerDay = 2
)

// Allocator assigns attractions to days two at a time, in input order.
// It does not balance cost across days.
type Allocator struct {
	Days            int
	DailyTravelCost float64
}

// New creates an Allocator. A non-positive day count means DefaultDays and a
// negative travel cost means zero.
func New(days int, dailyTravelCost float64) Allocator {
	if days <= 0 {
		days = DefaultDays
	}
	if dailyTravelCost < 0 {
		dailyTravelCost = 0
	}
	return Allocator{Days: days, DailyTravelCost: dailyTravelCost}
}

// Default returns the seven-day allocator with the default travel cost.
func Default() Allocator {
	return New(DefaultDays, DefaultDailyTravelCost)
}

// Capacity returns how many attractions fit in the trip.
func (a Allocator) Capacity() int {
	return PerDay * a.days()
}

// Allocate builds the itinerary. Attraction i lands on day i/2+1; anything
// past Capacity is dropped.
func (a Allocator) Allocate(destination string, attractions []trip.Attraction) trip.Itinerary {
	n := a.days()

	days := make([]trip.DayPlan, n)
	for i := range days {
		days[i] = trip.DayPlan{
			Day:        i + 1,
			Activities: []trip.Attraction{},
			TravelCost: a.travelCost(),
		}
	}

	if len(attractions) > a.Capacity() {
		attractions = attractions[:a.Capacity()]
	}
	for i, attraction := range attractions {
		idx := i / PerDay
		if idx >= n {
			break
		}
		days[idx].Activities = append(days[idx].Activities, attraction)
	}

	return trip.Itinerary{Destination: destination, Days: days}
}

func (a Allocator) days() int {
	if a.Days <= 0 {
		return DefaultDays
	}
	return a.Days
}

func (a Allocator) travelCost() float64 {
	if a.DailyTravelCost < 0 {
		return 0
	}
	return a.DailyTravelCost
}
