package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "bikeshare/internal/errors"
	"bikeshare/pkg/contracts/domain"
)

func sampleTable(t *testing.T) *Table {
	return newTable(tripsAt(t,
		"2017-01-02 08:00:00", // Monday, January
		"2017-03-06 09:00:00", // Monday, March
		"2017-03-07 10:00:00", // Tuesday, March
		"2017-03-12 11:00:00", // Sunday, March
		"2017-06-05 12:00:00", // Monday, June
	))
}

func TestEnrich(t *testing.T) {
	table := sampleTable(t)

	trip := table.Trips[3]
	assert.Equal(t, time.March, trip.Month)
	assert.Equal(t, domain.Sunday, trip.Weekday)
	assert.Equal(t, 11, trip.Hour)

	before := append([]domain.Trip(nil), table.Trips...)
	Enrich(table)
	assert.Equal(t, before, table.Trips, "enrich is idempotent")
	assert.Nil(t, Enrich(nil))
}

func TestFilter_IdentityWithoutNarrowing(t *testing.T) {
	table := sampleTable(t)

	got, err := Filter(table, domain.NewFilterCriteria(domain.CityChicago, domain.AnyMonth, domain.AnyDay))
	require.NoError(t, err)
	assert.Same(t, table, got)
	assert.Equal(t, table.Len(), got.Len())
}

func TestFilter_Narrowing(t *testing.T) {
	tests := []struct {
		name      string
		month     domain.Month
		day       domain.Weekday
		wantHours []int
	}{
		{"month only", domain.Month(time.March), domain.AnyDay, []int{9, 10, 11}},
		{"day only", domain.AnyMonth, domain.Monday, []int{8, 9, 12}},
		{"month and day", domain.Month(time.March), domain.Monday, []int{9}},
		{"june", domain.Month(time.June), domain.AnyDay, []int{12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := sampleTable(t)
			got, err := Filter(table, domain.NewFilterCriteria(domain.CityChicago, tt.month, tt.day))
			require.NoError(t, err)

			hours := make([]int, 0, got.Len())
			for _, trip := range got.Trips {
				if tt.month != domain.AnyMonth {
					assert.Equal(t, time.Month(tt.month), trip.Month)
				}
				if tt.day != domain.AnyDay {
					assert.Equal(t, tt.day, trip.Weekday)
				}
				hours = append(hours, trip.Hour)
			}
			assert.Equal(t, tt.wantHours, hours)
			assert.Equal(t, table.Schema, got.Schema)
			assert.Equal(t, 5, table.Len(), "input table is unchanged")
		})
	}
}

func TestFilter_NoDataForFilter(t *testing.T) {
	criteria := domain.NewFilterCriteria(domain.CityChicago, domain.Month(time.February), domain.Sunday)

	_, err := Filter(sampleTable(t), criteria)
	require.Error(t, err)
	assert.ErrorIs(t, err, apierrors.ErrNoDataForFilter)

	var appErr *apierrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "chicago", appErr.Context["city"])
	assert.Equal(t, "february", appErr.Context["month"])
	assert.Equal(t, "sunday", appErr.Context["day"])
}

func TestFilter_EmptyInput(t *testing.T) {
	_, err := Filter(&Table{City: domain.CityChicago}, domain.NewFilterCriteria(domain.CityChicago, domain.AnyMonth, domain.AnyDay))
	assert.ErrorIs(t, err, apierrors.ErrNoDataForFilter)
}
