package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook export.
const (
	SheetSummary   = "Summary"
	SheetUserTypes = "User Types"
	SheetTrips     = "Trips"
)

// XLSXWriter renders a document as an Excel workbook.
type XLSXWriter struct{}

// NewXLSXWriter creates a workbook writer.
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// Write renders the Summary, User Types and Trips sheets. The Trips sheet
// only has its header row when the document carries no trips.
func (w *XLSXWriter) Write(out io.Writer, doc Document) error {
	if doc.Report == nil {
		return ErrNoReport
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	if err := writeSheet(f, SheetSummary, bold, SummaryHeaders, SummaryRows(doc.Report)); err != nil {
		return err
	}

	var userTypes [][]string
	for _, c := range doc.Report.Users.UserTypes {
		userTypes = append(userTypes, []string{c.Value, formatInt(c.Count)})
	}
	if _, err := f.NewSheet(SheetUserTypes); err != nil {
		return err
	}
	if err := writeSheet(f, SheetUserTypes, bold, []string{"User Type", "Count"}, userTypes); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetTrips); err != nil {
		return err
	}
	if err := writeTripSheet(f, bold, doc); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, headers []string, rows [][]string) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("%s headers: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	return f.SetColWidth(sheet, "A", lastCol, 28)
}

// writeTripSheet uses the excelize stream writer; rows must be written in order.
func writeTripSheet(f *excelize.File, headerStyle int, doc Document) error {
	sw, err := f.NewStreamWriter(SheetTrips)
	if err != nil {
		return err
	}
	if err := sw.SetColWidth(1, len(TripHeaders), 20); err != nil {
		return err
	}

	header := make([]interface{}, len(TripHeaders))
	for i, h := range TripHeaders {
		header[i] = h
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return err
	}

	for i, row := range doc.Trips {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.Index,
			row.StartTime.Format(TimestampLayout),
			formatTime(row.EndTime),
			nil,
			formatOptionalString(row.UserType),
			formatOptionalString(row.Gender),
			nil,
		}
		if row.TripDuration != nil {
			values[3] = *row.TripDuration
		}
		if row.BirthYear != nil {
			values[6] = *row.BirthYear
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("trip row %d: %w", i+2, err)
		}
	}
	return sw.Flush()
}
