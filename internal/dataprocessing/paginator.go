package dataprocessing

import (
	"bikeshare/pkg/contracts/domain"
)

// DefaultPageSize is the number of rows shown per page when none is given.
const DefaultPageSize = 5

// Paginate returns the rows [offset, offset+size) of t as display rows,
// clipped to the table bounds. A non-positive size uses DefaultPageSize and
// a negative offset starts at the first row.
func Paginate(t *Table, offset, size int) domain.Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	total := t.Len()
	start := min(offset, total)
	end := start + min(size, total-start)

	rows := make([]domain.DisplayRow, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, Project(t.Trips[i], t.Schema))
	}

	return domain.Page{
		Rows:       rows,
		Offset:     offset,
		Size:       size,
		NextOffset: offset + len(rows),
		Total:      total,
		HasMore:    offset < total && size < total-offset,
	}
}

// Project converts a trip into the fixed display projection. Fields the
// dataset does not carry, or that are missing on this row, are nil.
func Project(trip domain.Trip, schema Schema) domain.DisplayRow {
	row := domain.DisplayRow{
		Index:     trip.Index,
		StartTime: trip.StartTime,
	}
	if schema.HasEndTime && !trip.EndTime.IsZero() {
		end := trip.EndTime
		row.EndTime = &end
	}
	if schema.HasDuration && trip.HasDuration {
		d := trip.Duration
		row.TripDuration = &d
	}
	if schema.HasUserType && trip.UserType != "" {
		u := trip.UserType
		row.UserType = &u
	}
	if schema.HasGender && trip.Gender != "" {
		g := trip.Gender
		row.Gender = &g
	}
	if schema.HasBirthYear && trip.BirthYear != 0 {
		y := trip.BirthYear
		row.BirthYear = &y
	}
	return row
}
