package domain

import (
	"time"
)

// Count pairs a value with its number of occurrences.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// MonthCount is the most frequent month.
type MonthCount struct {
	Month time.Month `json:"month"`
	Name  string     `json:"name"`
	Count int        `json:"count"`
}

// WeekdayCount is the most frequent day of week.
type WeekdayCount struct {
	Weekday Weekday `json:"weekday"`
	Name    string  `json:"name"`
	Count   int     `json:"count"`
}

// HourCount is the most frequent start hour.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// TimeStats holds the most frequent times of travel.
type TimeStats struct {
	PopularMonth   MonthCount   `json:"popular_month"`
	PopularWeekday WeekdayCount `json:"popular_weekday"`
	PopularHour    HourCount    `json:"popular_hour"`
}

// StationStats holds the most popular stations and trip.
type StationStats struct {
	PopularStartStation Count `json:"popular_start_station"`
	PopularEndStation   Count `json:"popular_end_station"`
	PopularTrip         Count `json:"popular_trip"`
}

// HMS is a duration broken into whole hours, minutes and seconds.
// The fractional part of the seconds is truncated.
type HMS struct {
	TotalSeconds float64 `json:"total_seconds"`
	Hours        int64   `json:"hours"`
	Minutes      int64   `json:"minutes"`
	Seconds      int64   `json:"seconds"`
}

// DurationStats holds total and mean travel time.
type DurationStats struct {
	Total     HMS `json:"total"`
	Mean      HMS `json:"mean"`
	TripCount int `json:"trip_count"`
}

// GenderBreakdown reports counts for Male, Female and No data, in that order.
// Available is false when the dataset has no gender column.
type GenderBreakdown struct {
	Available bool `json:"available"`
	Male      int  `json:"male"`
	Female    int  `json:"female"`
	NoData    int  `json:"no_data"`
}

// Categories returns the breakdown in its fixed order.
func (g GenderBreakdown) Categories() []Count {
	return []Count{
		{Value: GenderMale, Count: g.Male},
		{Value: GenderFemale, Count: g.Female},
		{Value: GenderNoData, Count: g.NoData},
	}
}

// Gender category labels.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderNoData = "No data"
)

// BirthYearStats describes the birth years present in a table.
// Available is false when the dataset has no birth year column; HasValues is
// false when the column exists but every value is missing.
type BirthYearStats struct {
	Available  bool `json:"available"`
	HasValues  bool `json:"has_values"`
	Earliest   int  `json:"earliest,omitempty"`
	MostRecent int  `json:"most_recent,omitempty"`
	MostCommon int  `json:"most_common,omitempty"`
	Present    int  `json:"present"`
	Total      int  `json:"total"`
	Percent    int  `json:"percent"`
}

// UserStats holds user demographics.
type UserStats struct {
	UserTypes  []Count         `json:"user_types"`
	Gender     GenderBreakdown `json:"gender"`
	BirthYears BirthYearStats  `json:"birth_years"`
}

// Report bundles all four statistic groups for one query cycle.
// Timings holds the compute duration of each group.
type Report struct {
	Criteria    FilterCriteria           `json:"criteria"`
	TripCount   int                      `json:"trip_count"`
	Time        TimeStats                `json:"time"`
	Stations    StationStats             `json:"stations"`
	Durations   DurationStats            `json:"durations"`
	Users       UserStats                `json:"users"`
	Unavailable []string                 `json:"unavailable,omitempty"`
	Timings     map[string]time.Duration `json:"timings,omitempty"`
	GeneratedAt time.Time                `json:"generated_at"`
}

// Has reports whether group was computed. Groups listed in Unavailable could
// not be computed because the dataset lacks the columns they need.
func (r *Report) Has(group string) bool {
	for _, g := range r.Unavailable {
		if g == group {
			return false
		}
	}
	return true
}

// Statistic group names used for timings, routes and exports.
const (
	GroupTime      = "time"
	GroupStations  = "stations"
	GroupDurations = "durations"
	GroupUsers     = "users"
)

// Groups lists the statistic groups in report order.
var Groups = []string{GroupTime, GroupStations, GroupDurations, GroupUsers}
