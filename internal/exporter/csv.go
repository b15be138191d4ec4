package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"bikeshare/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	// BOMPrefix adds a UTF-8 BOM for Excel compatibility
	BOMPrefix bool
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(bom bool) *CSVWriter {
	return &CSVWriter{BOMPrefix: bom}
}

// Write renders the summary table and, when the document carries trips, a
// blank line followed by the trip table.
func (w *CSVWriter) Write(out io.Writer, doc Document) error {
	if doc.Report == nil {
		return ErrNoReport
	}

	if w.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(out)
	if err := cw.Write(SummaryHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range SummaryRows(doc.Report) {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if len(doc.Trips) > 0 {
		if err := cw.Write(nil); err != nil {
			return err
		}
		stream, err := newStreamWriter(cw, TripHeaders)
		if err != nil {
			return err
		}
		for _, row := range doc.Trips {
			if err := stream.WriteTrip(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTrips writes only the trip table.
func (w *CSVWriter) WriteTrips(out io.Writer, trips []domain.DisplayRow) error {
	if w.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}
	stream, err := NewStreamWriter(out, TripHeaders)
	if err != nil {
		return err
	}
	for _, row := range trips {
		if err := stream.WriteTrip(row); err != nil {
			return err
		}
	}
	return stream.Close()
}

// StreamWriter writes trip rows one at a time, for tables too large to
// render in one go.
type StreamWriter struct {
	writer *csv.Writer
	count  int
}

// NewStreamWriter creates a streaming CSV writer and writes the headers
func NewStreamWriter(out io.Writer, headers []string) (*StreamWriter, error) {
	return newStreamWriter(csv.NewWriter(out), headers)
}

func newStreamWriter(cw *csv.Writer, headers []string) (*StreamWriter, error) {
	if len(headers) > 0 {
		if err := cw.Write(headers); err != nil {
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}
	return &StreamWriter{writer: cw}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	if err := s.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record %d: %w", s.count, err)
	}
	s.count++
	return nil
}

// WriteTrip writes one display row.
func (s *StreamWriter) WriteTrip(row domain.DisplayRow) error {
	return s.WriteRecord(TripRow(row))
}

// Count returns the number of records written after the headers.
func (s *StreamWriter) Count() int { return s.count }

// Close flushes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	return s.writer.Error()
}
