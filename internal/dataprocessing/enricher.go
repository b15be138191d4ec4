package dataprocessing

import (
	"bikeshare/pkg/contracts/domain"
)

// Enrich derives Month, Weekday and Hour from each trip's start time, in place,
// using the calendar of the timestamp's own location. It returns t so calls
// can be chained; enriching twice has no further effect.
func Enrich(t *Table) *Table {
	if t == nil {
		return nil
	}
	for i := range t.Trips {
		trip := &t.Trips[i]
		trip.Month = trip.StartTime.Month()
		trip.Weekday = domain.WeekdayOf(trip.StartTime)
		trip.Hour = trip.StartTime.Hour()
	}
	return t
}
