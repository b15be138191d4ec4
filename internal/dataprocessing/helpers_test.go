package dataprocessing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bikeshare/pkg/contracts/domain"
)

var fullSchema = Schema{
	HasEndTime:      true,
	HasDuration:     true,
	HasStartStation: true,
	HasEndStation:   true,
	HasUserType:     true,
	HasGender:       true,
	HasBirthYear:    true,
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04:05", s)
	require.NoError(t, err)
	return ts
}

// tripsAt builds enriched trips starting at the given timestamps.
func tripsAt(t *testing.T, starts ...string) []domain.Trip {
	t.Helper()
	trips := make([]domain.Trip, len(starts))
	for i, s := range starts {
		trips[i] = domain.Trip{
			Index:        i,
			StartTime:    mustTime(t, s),
			Duration:     600,
			HasDuration:  true,
			StartStation: "Canal St & Adams St",
			EndStation:   "Clinton St & Madison St",
			UserType:     "Subscriber",
			Gender:       "Male",
			BirthYear:    1990,
		}
	}
	return trips
}

func newTable(trips []domain.Trip) *Table {
	return Enrich(&Table{City: domain.CityChicago, Schema: fullSchema, Trips: trips})
}

func writeFile(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

const chicagoHeader = ",Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year"
