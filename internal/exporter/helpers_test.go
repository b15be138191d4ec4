package exporter

import (
	"time"

	"bikeshare/pkg/contracts/domain"
)

func sampleReport() *domain.Report {
	return &domain.Report{
		Criteria:  domain.NewFilterCriteria(domain.CityChicago, domain.Month(time.March), domain.AnyDay),
		TripCount: 4,
		Time: domain.TimeStats{
			PopularMonth:   domain.MonthCount{Month: time.March, Name: "March", Count: 4},
			PopularWeekday: domain.WeekdayCount{Weekday: domain.Wednesday, Name: "Wednesday", Count: 3},
			PopularHour:    domain.HourCount{Hour: 17, Count: 2},
		},
		Stations: domain.StationStats{
			PopularStartStation: domain.Count{Value: "Canal St & Adams St", Count: 3},
			PopularEndStation:   domain.Count{Value: "Clinton St & Madison St", Count: 2},
			PopularTrip:         domain.Count{Value: "Canal St & Adams St to Clinton St & Madison St", Count: 2},
		},
		Durations: domain.DurationStats{
			Total:     domain.HMS{TotalSeconds: 3725.5, Hours: 1, Minutes: 2, Seconds: 5},
			Mean:      domain.HMS{TotalSeconds: 931.375, Hours: 0, Minutes: 15, Seconds: 31},
			TripCount: 4,
		},
		Users: domain.UserStats{
			UserTypes: []domain.Count{{Value: "Subscriber", Count: 3}, {Value: "Customer", Count: 1}},
			Gender:    domain.GenderBreakdown{Available: true, Male: 2, Female: 1, NoData: 1},
			BirthYears: domain.BirthYearStats{
				Available: true, HasValues: true,
				Earliest: 1985, MostRecent: 1990, MostCommon: 1990,
				Present: 3, Total: 4, Percent: 75,
			},
		},
		Timings: map[string]time.Duration{
			domain.GroupTime:      1500 * time.Microsecond,
			domain.GroupStations:  time.Millisecond,
			domain.GroupDurations: time.Millisecond,
			domain.GroupUsers:     time.Millisecond,
		},
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func sampleTrips() []domain.DisplayRow {
	end := time.Date(2017, 3, 8, 17, 40, 0, 0, time.UTC)
	duration := 600.0
	userType := "Subscriber"
	gender := "Male"
	year := 1990
	return []domain.DisplayRow{
		{
			Index:        1,
			StartTime:    time.Date(2017, 3, 8, 17, 30, 0, 0, time.UTC),
			EndTime:      &end,
			TripDuration: &duration,
			UserType:     &userType,
			Gender:       &gender,
			BirthYear:    &year,
		},
		{
			Index:     2,
			StartTime: time.Date(2017, 3, 9, 8, 0, 0, 0, time.UTC),
		},
	}
}
