// Package report renders a trip plan as human-readable text.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/alex-user-go/tripplanner/internal/trip"
)

// Render formats the plan: flights, hotel, day-by-day itinerary with running
// totals, then the budget breakdown.
func Render(plan *trip.Plan) string {
	if plan == nil {
		return ""
	}

	var b strings.Builder
	nights := plan.Budget.Nights

	fmt.Fprintf(&b, "Here's your %d-day itinerary for your trip to %s:\n\n", len(plan.Itinerary.Days), plan.Itinerary.Destination)

	b.WriteString("Flights:\n")
	dep := plan.Flight.Departure
	fmt.Fprintf(&b, "- Departure: %s to %s on %s", dep.Origin, dep.Destination, dep.Date)
	if dep.Airline != "" {
		fmt.Fprintf(&b, " with %s", dep.Airline)
	}
	fmt.Fprintf(&b, ", %s\n", money(dep.Price))
	ret := plan.Flight.Return
	fmt.Fprintf(&b, "- Return: %s to %s on %s, %s\n\n", ret.Origin, ret.Destination, ret.Date, money(ret.Price))

	h := plan.Hotel
	b.WriteString("Hotel:\n")
	fmt.Fprintf(&b, "- %s, %s per night, %s for %d nights (%s-%s)\n\n",
		h.Name, money(h.PricePerNight), amount(plan.Budget.HotelCost), nights, h.Checkin, h.Checkout)

	b.WriteString("Itinerary:\n")
	running := decimal.Zero
	for _, day := range plan.Itinerary.Days {
		fmt.Fprintf(&b, "Day %d:\n", day.Day)
		for _, a := range day.Activities {
			fmt.Fprintf(&b, "- %s: %s\n", a.Name, money(a.Fee))
		}
		dayTotal := decimal.NewFromFloat(day.Total())
		running = running.Add(dayTotal)
		fmt.Fprintf(&b, "- Daily Travel: %s\n", money(day.TravelCost))
		fmt.Fprintf(&b, "- Total: %s (running total %s)\n\n", amount(dayTotal), amount(running))
	}

	bd := plan.Budget
	b.WriteString("Budget Breakdown:\n")
	fmt.Fprintf(&b, "- Flights: %s\n", amount(bd.FlightCost))
	fmt.Fprintf(&b, "- Hotel (%d nights): %s\n", nights, amount(bd.HotelCost))
	fmt.Fprintf(&b, "- Activities + Travel: %s\n", amount(bd.ActivitiesCost))
	fmt.Fprintf(&b, "- Total Spent: %s\n", amount(bd.TotalSpent))
	fmt.Fprintf(&b, "- Remaining Budget: %s\n", amount(bd.Remaining))
	if bd.OverBudget() {
		fmt.Fprintf(&b, "\nThis plan is %s over budget.\n", amount(bd.Remaining.Neg()))
	}

	fmt.Fprintf(&b, "\nEnjoy your trip to %s!", plan.Itinerary.Destination)
	return b.String()
}

func money(f float64) string {
	return amount(decimal.NewFromFloat(f))
}

func amount(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
