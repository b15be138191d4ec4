package dataprocessing

import (
	"strings"
	"time"

	apierrors "bikeshare/internal/errors"
	"bikeshare/pkg/contracts/domain"
)

// Filter narrows an enriched table to the trips matching criteria. Month and
// day narrowing compose by AND; a "no filter" value skips that narrowing, and
// with no narrowing at all the input table itself is returned. Otherwise the
// result is a new table sharing the schema; the input is never modified.
//
// An empty result is reported as NO_DATA_FOR_FILTER, so a table returned
// without error always holds at least one trip.
func Filter(t *Table, criteria domain.FilterCriteria) (*Table, error) {
	if t.Len() == 0 {
		return nil, noDataFor(criteria)
	}
	if criteria.Month == domain.AnyMonth && criteria.Day == domain.AnyDay {
		return t, nil
	}

	kept := make([]domain.Trip, 0, len(t.Trips)/4)
	for _, trip := range t.Trips {
		if criteria.Month != domain.AnyMonth && trip.Month != time.Month(criteria.Month) {
			continue
		}
		if criteria.Day != domain.AnyDay && trip.Weekday != criteria.Day {
			continue
		}
		kept = append(kept, trip)
	}

	if len(kept) == 0 {
		return nil, noDataFor(criteria)
	}
	return t.derive(kept), nil
}

func noDataFor(c domain.FilterCriteria) error {
	return apierrors.NewNoDataForFilterError(string(c.City),
		strings.ToLower(c.Month.String()), strings.ToLower(c.Day.String()))
}
