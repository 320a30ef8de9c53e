// Package budget reconciles trip costs against the traveller's budget.
package budget

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/alex-user-go/tripplanner/internal/trip"
)

// DefaultNights is the stay length used when none is given.
const DefaultNights = 7

var nonNumeric = regexp.MustCompile(`[^\d.]`)

// Normalize reads an amount from loosely formatted input. Every character
// that is not a digit or a decimal point is dropped first, so "$1,200" reads
// as 1200 and "-5" as 5. Anything left unparsable reads as zero.
func Normalize(v any) decimal.Decimal {
	cleaned := nonNumeric.ReplaceAllString(stringify(v), "")
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Reconcile adds up flight, hotel and activity costs and compares them with
// the total budget. The hotel input is a nightly rate and is multiplied by
// nights here. Remaining may be negative.
func Reconcile(flightCost, hotelPerNight, activitiesTotal, totalBudget any, nights int) trip.BudgetBreakdown {
	if nights <= 0 {
		nights = DefaultNights
	}

	flight := Normalize(flightCost)
	hotel := Normalize(hotelPerNight).Mul(decimal.NewFromInt(int64(nights)))
	activities := Normalize(activitiesTotal)
	total := Normalize(totalBudget)

	spent := flight.Add(hotel).Add(activities)

	return trip.BudgetBreakdown{
		FlightCost:     flight,
		HotelCost:      hotel,
		ActivitiesCost: activities,
		TotalBudget:    total,
		TotalSpent:     spent,
		Remaining:      total.Sub(spent),
		Nights:         nights,
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case decimal.Decimal:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
