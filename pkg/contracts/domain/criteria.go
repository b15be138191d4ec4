package domain

import (
	"fmt"
	"strings"
	"time"
)

// City identifies one of the supported bikeshare systems.
type City string

const (
	CityChicago     City = "chicago"
	CityNewYorkCity City = "new york city"
	CityWashington  City = "washington"
)

// Cities lists the supported cities in prompt order.
var Cities = []City{CityChicago, CityNewYorkCity, CityWashington}

var citySources = map[City]string{
	CityChicago:     "chicago",
	CityNewYorkCity: "new_york_city",
	CityWashington:  "washington",
}

// SourceName returns the base file name of the city's dataset.
func (c City) SourceName() string {
	return citySources[c]
}

// Slug returns a URL friendly form of the city name.
func (c City) Slug() string {
	return strings.ReplaceAll(string(c), " ", "-")
}

// Title returns the display name, e.g. "New York City".
func (c City) Title() string {
	words := strings.Fields(string(c))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Valid reports whether c is a supported city.
func (c City) Valid() bool {
	_, ok := citySources[c]
	return ok
}

// ParseCity accepts a city name or slug in any case.
func ParseCity(s string) (City, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", " ", "_", " ").Replace(key)
	key = strings.Join(strings.Fields(key), " ")
	c := City(key)
	if !c.Valid() {
		return "", fmt.Errorf("unknown city %q", s)
	}
	return c, nil
}

// Month is a calendar month filter. AnyMonth disables month narrowing.
type Month int

// AnyMonth is the "no filter" month.
const AnyMonth Month = 0

// FirstSupportedMonth and LastSupportedMonth bound the months covered by the datasets.
const (
	FirstSupportedMonth = Month(time.January)
	LastSupportedMonth  = Month(time.June)
)

// String returns the month name or "all".
func (m Month) String() string {
	if m == AnyMonth {
		return NoFilterToken
	}
	return time.Month(m).String()
}

// Supported reports whether m is AnyMonth or inside the covered range.
func (m Month) Supported() bool {
	return m == AnyMonth || (m >= FirstSupportedMonth && m <= LastSupportedMonth)
}

// SupportedMonths returns the month names accepted as input.
func SupportedMonths() []string {
	names := make([]string, 0, int(LastSupportedMonth))
	for m := FirstSupportedMonth; m <= LastSupportedMonth; m++ {
		names = append(names, m.String())
	}
	return names
}

// ParseMonth parses a month name from the supported range, or a no-filter token.
func ParseMonth(s string) (Month, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if IsNoFilter(key) {
		return AnyMonth, nil
	}
	for m := FirstSupportedMonth; m <= LastSupportedMonth; m++ {
		if strings.ToLower(m.String()) == key {
			return m, nil
		}
	}
	return AnyMonth, fmt.Errorf("unsupported month %q", s)
}

// Weekday is a day of week with Monday=0 ... Sunday=6. AnyDay disables day narrowing.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// AnyDay is the "no filter" weekday.
const AnyDay Weekday = -1

var weekdayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// String returns the canonical capitalized name or "all".
func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return NoFilterToken
	}
	return weekdayNames[d]
}

// WeekdayOf converts a time.Weekday (Sunday=0) to the Monday-first ordering.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// Weekdays returns the seven day names in calendar order.
func Weekdays() []string {
	return weekdayNames[:]
}

// ParseWeekday parses a day name case-insensitively, or a no-filter token.
func ParseWeekday(s string) (Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if IsNoFilter(key) {
		return AnyDay, nil
	}
	for i, name := range weekdayNames {
		if strings.ToLower(name) == key {
			return Weekday(i), nil
		}
	}
	return AnyDay, fmt.Errorf("unknown day of week %q", s)
}

// NoFilterToken is the canonical input token that disables a narrowing.
const NoFilterToken = "all"

// IsNoFilter reports whether s is one of the tokens meaning "no filter".
func IsNoFilter(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case NoFilterToken, "no filter", "none", "":
		return true
	}
	return false
}

// FilterCriteria is the selection for one query cycle. It is built once at the
// input boundary and not modified afterwards.
type FilterCriteria struct {
	City  City    `json:"city"`
	Month Month   `json:"month"`
	Day   Weekday `json:"day"`
}

// NewFilterCriteria builds criteria from already parsed values.
func NewFilterCriteria(city City, month Month, day Weekday) FilterCriteria {
	return FilterCriteria{City: city, Month: month, Day: day}
}

// String renders the criteria for logs and error messages.
func (c FilterCriteria) String() string {
	return fmt.Sprintf("city=%s month=%s day=%s", c.City, strings.ToLower(c.Month.String()), strings.ToLower(c.Day.String()))
}

// MarshalText encodes the month as its name.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses a month name.
func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalText encodes the weekday as its name.
func (d Weekday) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses a weekday name.
func (d *Weekday) UnmarshalText(b []byte) error {
	parsed, err := ParseWeekday(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
