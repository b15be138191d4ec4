package domain

import (
	"time"
)

// Trip represents a single bikeshare ride as read from a city dataset.
// Month, Weekday and Hour are derived from StartTime by the enricher and are
// not part of the source data.
type Trip struct {
	Index        int       `json:"index"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time,omitempty"`
	Duration     float64   `json:"trip_duration"`
	HasDuration  bool      `json:"-"`
	StartStation string    `json:"start_station,omitempty"`
	EndStation   string    `json:"end_station,omitempty"`
	UserType     string    `json:"user_type,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	BirthYear    int       `json:"birth_year,omitempty"`

	// Derived fields
	Month   time.Month `json:"month"`
	Weekday Weekday    `json:"weekday"`
	Hour    int        `json:"hour"`
}

// DisplayRow is the fixed projection of a trip used for raw record inspection.
// Fields the dataset does not carry are nil.
type DisplayRow struct {
	Index        int        `json:"index"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	TripDuration *float64   `json:"trip_duration"`
	UserType     *string    `json:"user_type"`
	Gender       *string    `json:"gender"`
	BirthYear    *int       `json:"birth_year"`
}

// Page is one window of display rows.
type Page struct {
	Rows       []DisplayRow `json:"rows"`
	Offset     int          `json:"offset"`
	Size       int          `json:"size"`
	NextOffset int          `json:"next_offset"`
	Total      int          `json:"total"`
	HasMore    bool         `json:"has_more"`
}
