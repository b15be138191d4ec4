package exporter

import (
	"fmt"
	"strings"

	"bikeshare/pkg/contracts/domain"
)

// SummaryHeaders are the columns of the report summary table.
var SummaryHeaders = []string{"Group", "Metric", "Value"}

// TripHeaders are the columns of the raw trip table.
var TripHeaders = []string{"Index", "Start Time", "End Time", "Trip Duration", "User Type", "Gender", "Birth Year"}

// Document is what an export renders: a report and, optionally, the filtered
// trips it was computed from.
type Document struct {
	Report *domain.Report       `json:"report"`
	Trips  []domain.DisplayRow `json:"trips,omitempty"`
}

// SummaryRows flattens a report into Group, Metric, Value rows. Every export
// format renders the same rows.
func SummaryRows(r *domain.Report) [][]string {
	rows := [][]string{
		{"filter", "city", r.Criteria.City.Title()},
		{"filter", "month", r.Criteria.Month.String()},
		{"filter", "day", r.Criteria.Day.String()},
		{"filter", "trips", formatInt(r.TripCount)},
	}

	add := func(group, metric, value string) {
		rows = append(rows, []string{group, metric, value})
	}

	for _, group := range domain.Groups {
		if !r.Has(group) {
			add(group, "unavailable", "dataset lacks the required columns")
			continue
		}
		switch group {
		case domain.GroupTime:
			add(group, "most common month", r.Time.PopularMonth.Name)
			add(group, "most common month count", formatInt(r.Time.PopularMonth.Count))
			add(group, "most common day of week", r.Time.PopularWeekday.Name)
			add(group, "most common day of week count", formatInt(r.Time.PopularWeekday.Count))
			add(group, "most common start hour", formatInt(r.Time.PopularHour.Hour))
			add(group, "most common start hour count", formatInt(r.Time.PopularHour.Count))
		case domain.GroupStations:
			s := r.Stations
			add(group, "most common start station", s.PopularStartStation.Value)
			add(group, "most common start station count", formatInt(s.PopularStartStation.Count))
			add(group, "most common end station", s.PopularEndStation.Value)
			add(group, "most common end station count", formatInt(s.PopularEndStation.Count))
			add(group, "most frequent trip", s.PopularTrip.Value)
			add(group, "most frequent trip count", formatInt(s.PopularTrip.Count))
		case domain.GroupDurations:
			d := r.Durations
			add(group, "total travel time", FormatHMS(d.Total))
			add(group, "total travel seconds", formatFloat(d.Total.TotalSeconds))
			add(group, "mean travel time", FormatHMS(d.Mean))
			add(group, "mean travel seconds", formatFloat(d.Mean.TotalSeconds))
			add(group, "trips with duration", formatInt(d.TripCount))
		case domain.GroupUsers:
			rows = append(rows, userRows(r.Users)...)
		}
		if d, ok := r.Timings[group]; ok {
			add(group, "computed in seconds", FormatSeconds(d))
		}
	}
	return rows
}

func userRows(u domain.UserStats) [][]string {
	group := domain.GroupUsers
	var rows [][]string
	for _, c := range u.UserTypes {
		rows = append(rows, []string{group, "user type " + strings.ToLower(c.Value), formatInt(c.Count)})
	}

	rows = append(rows, []string{group, "gender available", formatBool(u.Gender.Available)})
	if u.Gender.Available {
		for _, c := range u.Gender.Categories() {
			rows = append(rows, []string{group, "gender " + strings.ToLower(c.Value), formatInt(c.Count)})
		}
	}

	b := u.BirthYears
	rows = append(rows, []string{group, "birth year available", formatBool(b.Available && b.HasValues)})
	if b.Available && b.HasValues {
		rows = append(rows,
			[]string{group, "earliest birth year", formatInt(b.Earliest)},
			[]string{group, "most recent birth year", formatInt(b.MostRecent)},
			[]string{group, "most common birth year", formatInt(b.MostCommon)},
			[]string{group, "birth year present", fmt.Sprintf("%d of %d (%d%%)", b.Present, b.Total, b.Percent)},
		)
	}
	return rows
}

// TripRow renders one display row in TripHeaders order. Missing fields are
// empty strings.
func TripRow(row domain.DisplayRow) []string {
	return []string{
		formatInt(row.Index),
		row.StartTime.Format(TimestampLayout),
		formatTime(row.EndTime),
		formatOptionalFloat(row.TripDuration),
		formatOptionalString(row.UserType),
		formatOptionalString(row.Gender),
		formatOptionalInt(row.BirthYear),
	}
}
