package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	apierrors "bikeshare/internal/errors"
	"bikeshare/internal/exporter"
	"bikeshare/internal/services"
	"bikeshare/internal/validation"
	"bikeshare/pkg/contracts/domain"
)

// QueryService runs one query cycle for the console.
type QueryService interface {
	Query(ctx context.Context, criteria domain.FilterCriteria) (*services.QueryCycle, error)
}

var separator = strings.Repeat("-", 40)

// Console is the interactive prompt loop. It reads answers line by line
// from in and writes everything the user sees to out.
type Console struct {
	in       *bufio.Scanner
	out      io.Writer
	service  QueryService
	pageSize int
	logger   *slog.Logger
}

// New creates a console. pageSize <= 0 shows 5 trips at a time.
func New(in io.Reader, out io.Writer, service QueryService, pageSize int, logger *slog.Logger) *Console {
	if pageSize <= 0 {
		pageSize = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{
		in:       bufio.NewScanner(in),
		out:      out,
		service:  service,
		pageSize: pageSize,
		logger:   logger.With(slog.String("component", "console")),
	}
}

// Run repeats query cycles until the user declines to continue or the input
// ends. End of input is not an error.
func (c *Console) Run(ctx context.Context) error {
	for {
		again, err := c.cycle(ctx)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(c.out)
			return nil
		}
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

func (c *Console) cycle(ctx context.Context) (bool, error) {
	criteria, err := c.Filters()
	if err != nil {
		return false, err
	}

	cycle, err := c.service.Query(ctx, criteria)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		c.logger.DebugContext(ctx, "query failed",
			slog.String("criteria", criteria.String()),
			slog.String("error", err.Error()))
		fmt.Fprintln(c.out, describeError(criteria, err))
		return c.confirm("")
	}

	if err := c.PrintStats(cycle); err != nil {
		return false, err
	}
	if err := c.browseTrips(cycle); err != nil {
		return false, err
	}
	return c.confirm("\nWould you like to restart and see additional data? (yes/no).\n")
}

// Filters greets the user and asks for city, month and day, repeating each
// question until the answer is valid.
func (c *Console) Filters() (domain.FilterCriteria, error) {
	fmt.Fprintln(c.out, "Hello! Let's explore some US bikeshare data!")

	city, err := ask(c, fmt.Sprintf("Please, enter the city you would like to see data for (%s): ",
		strings.Join(validation.CityChoices(), ", ")),
		domain.ParseCity,
		fmt.Sprintf("The name entered is not a valid city name. Please, try again with one of these city names: %s.",
			strings.Join(validation.CityChoices(), ", ")))
	if err != nil {
		return domain.FilterCriteria{}, err
	}

	month, err := ask(c, fmt.Sprintf("Please, enter the month from %s to %s you would like to see data for (you can also select \"all\"!): ",
		domain.FirstSupportedMonth, domain.LastSupportedMonth),
		domain.ParseMonth,
		fmt.Sprintf("The month entered is not a valid one. Please, try again with one of these or typing \"all\": %s",
			strings.Join(domain.SupportedMonths(), ", ")))
	if err != nil {
		return domain.FilterCriteria{}, err
	}

	day, err := ask(c, "Please, enter the day of the week you would like to see data for (you can also select \"all\"!): ",
		domain.ParseWeekday,
		fmt.Sprintf("The day of the week entered is not a valid one. Please, try again with one of these or typing \"all\": %s",
			strings.Join(domain.Weekdays(), ", ")))
	if err != nil {
		return domain.FilterCriteria{}, err
	}

	fmt.Fprintln(c.out, separator)
	return domain.NewFilterCriteria(city, month, day), nil
}

// ask prompts until parse accepts a non-blank answer. A blank line would
// otherwise parse as "no filter".
func ask[T any](c *Console, prompt string, parse func(string) (T, error), invalid string) (T, error) {
	for {
		answer, err := c.readLine(prompt)
		if err != nil {
			var zero T
			return zero, err
		}
		if answer != "" {
			if v, err := parse(answer); err == nil {
				return v, nil
			}
		}
		fmt.Fprintln(c.out, invalid)
	}
}

func (c *Console) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) confirm(prompt string) (bool, error) {
	answer, err := c.readLine(prompt)
	if err != nil {
		return false, err
	}
	return isYes(answer), nil
}

func isYes(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "y":
		return true
	}
	return false
}

// PrintStats prints the four statistic groups, each followed by the time it
// took to compute. Groups whose columns the dataset lacks are reported as
// not available.
func (c *Console) PrintStats(cycle *services.QueryCycle) error {
	sections := []struct {
		group   string
		heading string
		print   func() error
	}{
		{domain.GroupTime, "Calculating The Most Frequent Times of Travel...", func() error {
			s, err := cycle.TimeStats()
			if err == nil {
				c.printTimeStats(s)
			}
			return err
		}},
		{domain.GroupStations, "Calculating The Most Popular Stations and Trip...", func() error {
			s, err := cycle.StationStats()
			if err == nil {
				c.printStationStats(s)
			}
			return err
		}},
		{domain.GroupDurations, "Calculating Trip Duration...", func() error {
			s, err := cycle.DurationStats()
			if err == nil {
				c.printDurationStats(s)
			}
			return err
		}},
		{domain.GroupUsers, "Calculating User Stats...", func() error {
			s, err := cycle.UserStats()
			if err == nil {
				c.printUserStats(s)
			}
			return err
		}},
	}

	for _, section := range sections {
		fmt.Fprintf(c.out, "\n%s\n\n", section.heading)
		start := time.Now()

		err := section.print()
		if apierrors.TypeOf(err) == apierrors.ErrTypeSchemaMismatch {
			fmt.Fprintf(c.out, "%s data are not available for this city.\n", groupTitle(section.group))
		} else if err != nil {
			return fmt.Errorf("%s statistics: %w", section.group, err)
		}

		fmt.Fprintf(c.out, "\nThis took %s seconds.\n", exporter.FormatSeconds(time.Since(start)))
		fmt.Fprintln(c.out, separator)
	}
	return nil
}

func (c *Console) printTimeStats(s domain.TimeStats) {
	fmt.Fprintf(c.out, "The most popular month of the year for travelling is: %s\n", s.PopularMonth.Name)
	fmt.Fprintf(c.out, "The most popular day of the week for travelling is: %s\n", s.PopularWeekday.Name)
	fmt.Fprintf(c.out, "The most popular hour of the day for travelling is: %d\n", s.PopularHour.Hour)
}

func (c *Console) printStationStats(s domain.StationStats) {
	fmt.Fprintf(c.out, "The most popular start station is: %s\n", s.PopularStartStation.Value)
	fmt.Fprintf(c.out, "The most popular end station is: %s\n", s.PopularEndStation.Value)
	fmt.Fprintf(c.out, "The most popular trip starts and ends in these stations: %s\n", s.PopularTrip.Value)
}

func (c *Console) printDurationStats(s domain.DurationStats) {
	fmt.Fprintf(c.out, "Total travel time is %s.\n", exporter.FormatHMS(s.Total))
	fmt.Fprintf(c.out, "Mean travel time is %s.\n", exporter.FormatHMS(s.Mean))
}

func (c *Console) printUserStats(s domain.UserStats) {
	fmt.Fprintln(c.out, "This is the number of users of each type:")
	c.printCounts(s.UserTypes)

	if s.Gender.Available {
		fmt.Fprintln(c.out, "Number of users per gender:")
		c.printCounts(s.Gender.Categories())
	} else {
		fmt.Fprintln(c.out, "Gender data are not available.")
	}

	b := s.BirthYears
	switch {
	case !b.Available:
		fmt.Fprintln(c.out, "Birth year data are not available.")
	case !b.HasValues:
		fmt.Fprintf(c.out, "Birth year data are missing for all %d users in this city for the selected dates.\n", b.Total)
	default:
		fmt.Fprintf(c.out, "Earliest year of birth: %d\n", b.Earliest)
		fmt.Fprintf(c.out, "Most recent year of birth: %d\n", b.MostRecent)
		fmt.Fprintf(c.out, "Most common year of birth: %d\n", b.MostCommon)
		fmt.Fprintf(c.out, "Birth year data available for %d%% of users in this city for the selected dates (which is %d out of %d users).\n",
			b.Percent, b.Present, b.Total)
	}
}

func (c *Console) printCounts(counts []domain.Count) {
	tw := tabwriter.NewWriter(c.out, 0, 0, 4, ' ', 0)
	for _, cnt := range counts {
		fmt.Fprintf(tw, "%s\t%d\n", cnt.Value, cnt.Count)
	}
	tw.Flush()
	fmt.Fprintln(c.out)
}

// browseTrips shows raw trips a page at a time for as long as the user asks.
func (c *Console) browseTrips(cycle *services.QueryCycle) error {
	offset := 0
	for {
		more, err := c.confirm("Would you like to see individual trip data? (yes/no): ")
		if err != nil || !more {
			return err
		}
		if offset >= cycle.Len() {
			fmt.Fprintln(c.out, "That was all! There are no more trips to show.")
			return nil
		}

		page := cycle.Page(offset, c.pageSize)
		fmt.Fprintf(c.out, "\nShowing %d individual trips for the selected city and dates:\n", len(page.Rows))
		c.PrintRows(page.Rows)
		offset = page.NextOffset
	}
}

// PrintRows prints display rows as an aligned table.
func (c *Console) PrintRows(rows []domain.DisplayRow) {
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(exporter.TripHeaders, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(exporter.TripRow(row), "\t"))
	}
	tw.Flush()
}

// describeError explains a failed query and asks whether to try again.
func describeError(criteria domain.FilterCriteria, err error) string {
	const again = "Would you like to try again? (yes/no)"
	switch apierrors.TypeOf(err) {
	case apierrors.ErrTypeNoDataForFilter:
		return fmt.Sprintf("Oops, there is no data available for the selected city %s, on the selected dates (%s, %s). %s",
			criteria.City.Title(), criteria.Month, criteria.Day, again)
	case apierrors.ErrTypeDataUnavailable:
		return fmt.Sprintf("Error: The data file for %s could not be read. %s", criteria.City.Title(), again)
	}
	return fmt.Sprintf("Oops, something went wrong: %v. %s", err, again)
}

func groupTitle(group string) string {
	switch group {
	case domain.GroupTime:
		return "Travel time"
	case domain.GroupStations:
		return "Station"
	case domain.GroupDurations:
		return "Trip duration"
	case domain.GroupUsers:
		return "User type"
	}
	return group
}
