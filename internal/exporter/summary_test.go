package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare/pkg/contracts/domain"
)

func findRow(rows [][]string, group, metric string) ([]string, bool) {
	for _, r := range rows {
		if r[0] == group && r[1] == metric {
			return r, true
		}
	}
	return nil, false
}

func TestSummaryRows(t *testing.T) {
	rows := SummaryRows(sampleReport())

	for _, r := range rows {
		require.Len(t, r, len(SummaryHeaders))
	}

	tests := []struct {
		group, metric, value string
	}{
		{"filter", "city", "Chicago"},
		{"filter", "month", "March"},
		{"filter", "day", "all"},
		{"filter", "trips", "4"},
		{domain.GroupTime, "most common day of week", "Wednesday"},
		{domain.GroupTime, "most common start hour", "17"},
		{domain.GroupStations, "most frequent trip", "Canal St & Adams St to Clinton St & Madison St"},
		{domain.GroupDurations, "total travel time", "1 hours, 2 minutes and 5 seconds"},
		{domain.GroupDurations, "total travel seconds", "3725.5"},
		{domain.GroupTime, "computed in seconds", "0.001500"},
		{domain.GroupUsers, "user type subscriber", "3"},
		{domain.GroupUsers, "gender no data", "1"},
		{domain.GroupUsers, "earliest birth year", "1985"},
		{domain.GroupUsers, "birth year present", "3 of 4 (75%)"},
	}
	for _, tt := range tests {
		row, ok := findRow(rows, tt.group, tt.metric)
		if assert.True(t, ok, "%s/%s", tt.group, tt.metric) {
			assert.Equal(t, tt.value, row[2], "%s/%s", tt.group, tt.metric)
		}
	}
}

func TestSummaryRows_Washington(t *testing.T) {
	r := sampleReport()
	r.Users.Gender = domain.GenderBreakdown{}
	r.Users.BirthYears = domain.BirthYearStats{}
	r.Unavailable = []string{domain.GroupStations}

	rows := SummaryRows(r)

	row, ok := findRow(rows, domain.GroupStations, "unavailable")
	require.True(t, ok)
	assert.NotEmpty(t, row[2])
	_, ok = findRow(rows, domain.GroupStations, "most common start station")
	assert.False(t, ok)

	row, ok = findRow(rows, domain.GroupUsers, "gender available")
	require.True(t, ok)
	assert.Equal(t, "false", row[2])
	_, ok = findRow(rows, domain.GroupUsers, "gender male")
	assert.False(t, ok)
	_, ok = findRow(rows, domain.GroupUsers, "earliest birth year")
	assert.False(t, ok)
}

func TestTripRow(t *testing.T) {
	trips := sampleTrips()

	assert.Equal(t,
		[]string{"1", "2017-03-08 17:30:00", "2017-03-08 17:40:00", "600", "Subscriber", "Male", "1990"},
		TripRow(trips[0]))
	assert.Equal(t,
		[]string{"2", "2017-03-09 08:00:00", "", "", "", "", ""},
		TripRow(trips[1]))
}
