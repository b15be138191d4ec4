package dataprocessing

import (
	"bikeshare/pkg/contracts/domain"
)

// Schema records which optional columns a dataset carries. It is computed once
// from the header at load time and consulted by every statistic.
type Schema struct {
	HasEndTime      bool `json:"has_end_time"`
	HasDuration     bool `json:"has_duration"`
	HasStartStation bool `json:"has_start_station"`
	HasEndStation   bool `json:"has_end_station"`
	HasUserType     bool `json:"has_user_type"`
	HasGender       bool `json:"has_gender"`
	HasBirthYear    bool `json:"has_birth_year"`
}

// Table is an ordered collection of trips for one city.
type Table struct {
	City   domain.City
	Schema Schema
	Trips  []domain.Trip
}

// Len returns the number of trips.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Trips)
}

// derive returns a table sharing t's city and schema with the given trips.
func (t *Table) derive(trips []domain.Trip) *Table {
	return &Table{City: t.City, Schema: t.Schema, Trips: trips}
}
