package dataprocessing

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	apierrors "bikeshare/internal/errors"
	"bikeshare/pkg/contracts/domain"
)

// ErrEmptyTable is returned by the statistics when the table holds no trips.
var ErrEmptyTable = apierrors.ErrEmptyTable

// mode returns the most frequent key. Ties go to the smallest key.
func mode[K cmp.Ordered](counts map[K]int) (K, int) {
	var best K
	bestCount := 0
	for k, n := range counts {
		if n > bestCount || (n == bestCount && k < best) {
			best, bestCount = k, n
		}
	}
	return best, bestCount
}

// ComputeTimeStats returns the most common month, day of week and start hour.
func ComputeTimeStats(t *Table) (domain.TimeStats, error) {
	if t.Len() == 0 {
		return domain.TimeStats{}, ErrEmptyTable
	}

	months := make(map[time.Month]int)
	days := make(map[domain.Weekday]int)
	hours := make(map[int]int)
	for _, trip := range t.Trips {
		months[trip.Month]++
		days[trip.Weekday]++
		hours[trip.Hour]++
	}

	m, mc := mode(months)
	d, dc := mode(days)
	h, hc := mode(hours)
	return domain.TimeStats{
		PopularMonth:   domain.MonthCount{Month: m, Name: m.String(), Count: mc},
		PopularWeekday: domain.WeekdayCount{Weekday: d, Name: d.String(), Count: dc},
		PopularHour:    domain.HourCount{Hour: h, Count: hc},
	}, nil
}

// TripLabel formats a start/end station pair.
func TripLabel(start, end string) string {
	return start + " to " + end
}

// ComputeStationStats returns the most used start station, end station and
// start/end combination. Rows with an empty station do not vote.
func ComputeStationStats(t *Table) (domain.StationStats, error) {
	if t.Len() == 0 {
		return domain.StationStats{}, ErrEmptyTable
	}
	if !t.Schema.HasStartStation {
		return domain.StationStats{}, apierrors.NewSchemaMismatchError("start station")
	}
	if !t.Schema.HasEndStation {
		return domain.StationStats{}, apierrors.NewSchemaMismatchError("end station")
	}

	starts := make(map[string]int)
	ends := make(map[string]int)
	pairs := make(map[string]int)
	for _, trip := range t.Trips {
		if trip.StartStation != "" {
			starts[trip.StartStation]++
		}
		if trip.EndStation != "" {
			ends[trip.EndStation]++
		}
		if trip.StartStation != "" && trip.EndStation != "" {
			pairs[TripLabel(trip.StartStation, trip.EndStation)]++
		}
	}
	if len(starts) == 0 {
		return domain.StationStats{}, apierrors.NewSchemaMismatchError("start station")
	}
	if len(ends) == 0 {
		return domain.StationStats{}, apierrors.NewSchemaMismatchError("end station")
	}

	var stats domain.StationStats
	stats.PopularStartStation.Value, stats.PopularStartStation.Count = mode(starts)
	stats.PopularEndStation.Value, stats.PopularEndStation.Count = mode(ends)
	stats.PopularTrip.Value, stats.PopularTrip.Count = mode(pairs)
	return stats, nil
}

// SplitHMS breaks a number of seconds into whole hours, minutes and seconds,
// truncating the fractional second.
func SplitHMS(total float64) domain.HMS {
	return domain.HMS{
		TotalSeconds: total,
		Hours:        int64(math.Floor(total / 3600)),
		Minutes:      int64(math.Floor(math.Mod(total, 3600) / 60)),
		Seconds:      int64(math.Floor(math.Mod(total, 60))),
	}
}

// ComputeDurationStats returns total and mean travel time over the trips that
// carry a duration.
func ComputeDurationStats(t *Table) (domain.DurationStats, error) {
	if t.Len() == 0 {
		return domain.DurationStats{}, ErrEmptyTable
	}
	if !t.Schema.HasDuration {
		return domain.DurationStats{}, apierrors.NewSchemaMismatchError("trip duration")
	}

	var sum float64
	n := 0
	for _, trip := range t.Trips {
		if trip.HasDuration {
			sum += trip.Duration
			n++
		}
	}
	if n == 0 {
		return domain.DurationStats{}, apierrors.NewSchemaMismatchError("trip duration")
	}

	return domain.DurationStats{
		Total:     SplitHMS(sum),
		Mean:      SplitHMS(sum / float64(n)),
		TripCount: n,
	}, nil
}

// NormalizeGender maps a raw gender label to Male, Female or No data.
func NormalizeGender(raw string) string {
	switch {
	case strings.EqualFold(raw, domain.GenderMale):
		return domain.GenderMale
	case strings.EqualFold(raw, domain.GenderFemale):
		return domain.GenderFemale
	default:
		return domain.GenderNoData
	}
}

// ComputeUserStats returns user type counts and, where the dataset carries
// them, gender and birth year statistics.
func ComputeUserStats(t *Table) (domain.UserStats, error) {
	if t.Len() == 0 {
		return domain.UserStats{}, ErrEmptyTable
	}
	if !t.Schema.HasUserType {
		return domain.UserStats{}, apierrors.NewSchemaMismatchError("user type")
	}

	types := make(map[string]int)
	for _, trip := range t.Trips {
		if trip.UserType != "" {
			types[trip.UserType]++
		}
	}
	userTypes := make([]domain.Count, 0, len(types))
	for v, n := range types {
		userTypes = append(userTypes, domain.Count{Value: v, Count: n})
	}
	slices.SortFunc(userTypes, func(a, b domain.Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})

	return domain.UserStats{
		UserTypes:  userTypes,
		Gender:     genderBreakdown(t),
		BirthYears: birthYearStats(t),
	}, nil
}

func genderBreakdown(t *Table) domain.GenderBreakdown {
	if !t.Schema.HasGender {
		return domain.GenderBreakdown{}
	}
	g := domain.GenderBreakdown{Available: true}
	for _, trip := range t.Trips {
		switch NormalizeGender(trip.Gender) {
		case domain.GenderMale:
			g.Male++
		case domain.GenderFemale:
			g.Female++
		default:
			g.NoData++
		}
	}
	return g
}

func birthYearStats(t *Table) domain.BirthYearStats {
	if !t.Schema.HasBirthYear {
		return domain.BirthYearStats{}
	}
	s := domain.BirthYearStats{Available: true, Total: len(t.Trips)}
	years := make(map[int]int)
	for _, trip := range t.Trips {
		if trip.BirthYear == 0 {
			continue
		}
		years[trip.BirthYear]++
		if s.Present == 0 || trip.BirthYear < s.Earliest {
			s.Earliest = trip.BirthYear
		}
		if trip.BirthYear > s.MostRecent {
			s.MostRecent = trip.BirthYear
		}
		s.Present++
	}
	if s.Present == 0 {
		return s
	}
	s.HasValues = true
	s.MostCommon, _ = mode(years)
	s.Percent = int(math.RoundToEven(100 * float64(s.Present) / float64(s.Total)))
	return s
}
