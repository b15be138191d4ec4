package services

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"bikeshare/internal/dataprocessing"
	"bikeshare/pkg/contracts/domain"
)

const chicagoHeader = ",Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year"

// marchRows holds seven March 2017 trips on Mon, Mon, Tue, Wed, Wed, Wed, Fri
// and one April trip.
var marchRows = []string{
	"1,2017-03-06 08:00:00,2017-03-06 08:10:00,600,Canal St & Adams St,Clinton St & Madison St,Subscriber,Male,1990",
	"2,2017-03-13 09:00:00,2017-03-13 09:05:00,300,Canal St & Adams St,Clinton St & Madison St,Subscriber,Female,1985",
	"3,2017-03-07 17:00:00,2017-03-07 17:20:00,1200,Streeter Dr & Grand Ave,Lake Shore Dr & Monroe St,Customer,,",
	"4,2017-03-08 17:30:00,2017-03-08 17:40:00,600,Canal St & Adams St,Clinton St & Madison St,Subscriber,Male,1990",
	"5,2017-03-15 17:45:00,2017-03-15 18:00:00,900,Canal St & Adams St,Clinton St & Madison St,Subscriber,Male,1988",
	"6,2017-03-22 08:15:00,2017-03-22 08:20:00,300,Streeter Dr & Grand Ave,Clinton St & Madison St,Customer,Female,1992",
	"7,2017-03-10 17:05:00,2017-03-10 17:15:00,600,Canal St & Adams St,Lake Shore Dr & Monroe St,Subscriber,Male,1990",
	"8,2017-04-03 12:00:00,2017-04-03 12:30:00,1800,Canal St & Adams St,Clinton St & Madison St,Subscriber,Male,1990",
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeDataset(t *testing.T, dir, name string, lines ...string) {
	t.Helper()
	content := strings.Join(lines, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func chicagoDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeDataset(t, dir, "chicago.csv", append([]string{chicagoHeader}, marchRows...)...)
	return dir
}

func newFileService(t *testing.T, dir string, opts AnalysisOptions) *AnalysisService {
	t.Helper()
	logger := quietLogger()
	loader := dataprocessing.NewLoader(dataprocessing.NewFileResolver(dir), logger)
	return NewAnalysisService(loader, nil, opts, logger)
}

func criteria(month domain.Month, day domain.Weekday) domain.FilterCriteria {
	return domain.NewFilterCriteria(domain.CityChicago, month, day)
}

// funcLoader adapts a function to TableLoader.
type funcLoader func(ctx context.Context, city domain.City) (*dataprocessing.Table, dataprocessing.LoadStats, error)

func (f funcLoader) LoadWithStats(ctx context.Context, city domain.City) (*dataprocessing.Table, dataprocessing.LoadStats, error) {
	return f(ctx, city)
}
