package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	apierrors "bikeshare/internal/errors"
	"bikeshare/pkg/contracts/domain"
)

// Column names as they appear in the city datasets.
const (
	ColumnIndex        = "Unnamed: 0"
	ColumnStartTime    = "Start Time"
	ColumnEndTime      = "End Time"
	ColumnTripDuration = "Trip Duration"
	ColumnStartStation = "Start Station"
	ColumnEndStation   = "End Station"
	ColumnUserType     = "User Type"
	ColumnGender       = "Gender"
	ColumnBirthYear    = "Birth Year"
)

// TimestampLayouts are tried in order when parsing start and end times.
var TimestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04",
	"1/2/2006 15:04",
	"1/2/06 15:04",
}

// columnMap holds the position of each known column, -1 when absent.
type columnMap struct {
	index        int
	startTime    int
	endTime      int
	duration     int
	startStation int
	endStation   int
	userType     int
	gender       int
	birthYear    int
}

func mapColumns(header []string) columnMap {
	cm := columnMap{-1, -1, -1, -1, -1, -1, -1, -1, -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "", strings.ToLower(ColumnIndex):
			if cm.index < 0 {
				cm.index = i
			}
		case strings.ToLower(ColumnStartTime):
			cm.startTime = i
		case strings.ToLower(ColumnEndTime):
			cm.endTime = i
		case strings.ToLower(ColumnTripDuration):
			cm.duration = i
		case strings.ToLower(ColumnStartStation):
			cm.startStation = i
		case strings.ToLower(ColumnEndStation):
			cm.endStation = i
		case strings.ToLower(ColumnUserType):
			cm.userType = i
		case strings.ToLower(ColumnGender):
			cm.gender = i
		case strings.ToLower(ColumnBirthYear):
			cm.birthYear = i
		}
	}
	return cm
}

func (cm columnMap) schema() Schema {
	return Schema{
		HasEndTime:      cm.endTime >= 0,
		HasDuration:     cm.duration >= 0,
		HasStartStation: cm.startStation >= 0,
		HasEndStation:   cm.endStation >= 0,
		HasUserType:     cm.userType >= 0,
		HasGender:       cm.gender >= 0,
		HasBirthYear:    cm.birthYear >= 0,
	}
}

// LoadStats describes one load.
type LoadStats struct {
	Rows         int
	Loaded       int
	Skipped      int
	FirstSkipped int
	Duration     time.Duration
}

// Loader reads a city's dataset into a Table.
type Loader struct {
	resolver SourceResolver
	logger   *slog.Logger
}

// NewLoader creates a loader that opens sources through resolver.
func NewLoader(resolver SourceResolver, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		resolver: resolver,
		logger:   logger.With(slog.String("component", "loader")),
	}
}

// Load reads the full dataset for city. Rows whose start time cannot be parsed
// are skipped. A missing or unreadable source, a missing start time column or
// a dataset without a single usable row yields a DATA_UNAVAILABLE error.
func (l *Loader) Load(ctx context.Context, city domain.City) (*Table, error) {
	table, _, err := l.LoadWithStats(ctx, city)
	return table, err
}

// LoadWithStats is Load that also reports row counts.
func (l *Loader) LoadWithStats(ctx context.Context, city domain.City) (*Table, LoadStats, error) {
	var stats LoadStats
	start := time.Now()

	if !city.Valid() {
		return nil, stats, apierrors.NewDataUnavailableError(string(city), "unknown city", nil)
	}

	src, err := l.resolver.Open(ctx, city)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, stats, err
		}
		return nil, stats, apierrors.NewDataUnavailableError(string(city), "dataset could not be opened", err)
	}
	defer src.Close()

	table, stats, err := readTable(ctx, city, src)
	stats.Duration = time.Since(start)
	if err != nil {
		return nil, stats, err
	}

	if stats.Skipped > 0 {
		l.logger.WarnContext(ctx, "skipped rows with unparsable start time",
			slog.String("city", string(city)),
			slog.Int("skipped", stats.Skipped),
			slog.Int("first_line", stats.FirstSkipped),
		)
	}
	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("city", string(city)),
		slog.Int("trips", stats.Loaded),
		slog.Duration("duration", stats.Duration),
	)
	return table, stats, nil
}

// ReadTable builds a table from an already opened source.
func ReadTable(ctx context.Context, city domain.City, src Source) (*Table, error) {
	table, _, err := readTable(ctx, city, src)
	return table, err
}

func readTable(ctx context.Context, city domain.City, src Source) (*Table, LoadStats, error) {
	var stats LoadStats
	cm := mapColumns(src.Header())
	if cm.startTime < 0 {
		return nil, stats, apierrors.NewDataUnavailableError(string(city),
			fmt.Sprintf("dataset has no %q column", ColumnStartTime), nil)
	}

	table := &Table{City: city, Schema: cm.schema()}
	for pos := 0; ; pos++ {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		row, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, apierrors.NewDataUnavailableError(string(city),
				fmt.Sprintf("failed to read row %d", pos+2), err)
		}
		stats.Rows++

		trip, ok := parseTrip(row, cm, pos)
		if !ok {
			if stats.Skipped == 0 {
				// header is line 1
				stats.FirstSkipped = pos + 2
			}
			stats.Skipped++
			continue
		}
		table.Trips = append(table.Trips, trip)
	}

	stats.Loaded = len(table.Trips)
	if stats.Loaded == 0 {
		return nil, stats, apierrors.NewDataUnavailableError(string(city), "dataset contains no usable trips", nil)
	}
	return table, stats, nil
}

func parseTrip(row []string, cm columnMap, pos int) (domain.Trip, bool) {
	start, ok := parseTimestamp(cell(row, cm.startTime))
	if !ok {
		return domain.Trip{}, false
	}

	trip := domain.Trip{
		Index:        pos,
		StartTime:    start,
		StartStation: cell(row, cm.startStation),
		EndStation:   cell(row, cm.endStation),
		UserType:     cell(row, cm.userType),
		Gender:       cell(row, cm.gender),
	}
	if idx, ok := parseWhole(cell(row, cm.index)); ok {
		trip.Index = idx
	}
	if end, ok := parseTimestamp(cell(row, cm.endTime)); ok {
		trip.EndTime = end
	}
	if d, err := strconv.ParseFloat(cell(row, cm.duration), 64); err == nil && d >= 0 && !math.IsInf(d, 0) {
		trip.Duration = d
		trip.HasDuration = true
	}
	if y, ok := parseWhole(cell(row, cm.birthYear)); ok && y > 0 {
		trip.BirthYear = y
	}
	return trip, true
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ParseTimestamp parses s with the first matching layout in TimestampLayouts.
func ParseTimestamp(s string) (time.Time, bool) {
	return parseTimestamp(strings.TrimSpace(s))
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range TimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseWhole accepts "1992" and "1992.0".
func parseWhole(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
