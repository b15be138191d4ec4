// Package dataprocessing implements the trip pipeline for the bikeshare
// datasets: loading a city's records, deriving calendar fields, narrowing by
// month and day, computing descriptive statistics and paging raw rows.
//
// # Architecture
//
// The package is organized into five components:
//
// 1. Loader: reads a CSV or XLSX dataset through a SourceResolver into a Table
// 2. Enricher: derives month, weekday and hour from each start time
// 3. Filter: narrows a table by month and day of week
// 4. Statistics: time, station, duration and user statistics
// 5. Paginator: fixed-size windows of display rows
//
// # Usage
//
//	loader := dataprocessing.NewLoader(dataprocessing.NewFileResolver("data"), logger)
//	table, err := loader.Load(ctx, domain.CityChicago)
//	if err != nil {
//	    return err
//	}
//	filtered, err := dataprocessing.Filter(dataprocessing.Enrich(table), criteria)
//	if err != nil {
//	    return err // NO_DATA_FOR_FILTER
//	}
//	stats, err := dataprocessing.ComputeTimeStats(filtered)
//
// # Data Flow
//
//	Source → Loader → Table → Enrich → Filter → Statistics / Paginate
//
// # Error Handling
//
// Errors are AppError values from internal/errors:
//
//   - DATA_UNAVAILABLE when a dataset is missing, unreadable or has no usable rows
//   - NO_DATA_FOR_FILTER when month and day select nothing
//   - SCHEMA_MISMATCH when a statistic needs a column the dataset lacks
//
// A table is owned by a single query cycle and is not safe for concurrent
// mutation.
package dataprocessing
