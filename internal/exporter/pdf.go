package exporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"bikeshare/pkg/contracts/domain"
)

// PDFWriter renders a one page A4 summary of a report.
type PDFWriter struct {
	// Now stamps the footer; nil uses time.Now.
	Now func() time.Time
}

// NewPDFWriter creates a PDF writer.
func NewPDFWriter() *PDFWriter {
	return &PDFWriter{Now: time.Now}
}

// Write renders the summary rows grouped by statistic group. Trips are not
// rendered; the PDF is a summary.
func (w *PDFWriter) Write(out io.Writer, doc Document) error {
	if doc.Report == nil {
		return ErrNoReport
	}
	r := doc.Report

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Bikeshare report", false)
	pdf.SetAuthor("bikeshare", false)
	pdf.AddPage()
	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "US Bikeshare Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("City: %s   Month: %s   Day: %s",
		r.Criteria.City.Title(), r.Criteria.Month, r.Criteria.Day))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Trips analysed: %d", r.TripCount))
	pdf.Ln(10)

	current := ""
	for _, row := range SummaryRows(r) {
		group, metric, value := row[0], row[1], row[2]
		if group == "filter" {
			continue
		}
		if group != current {
			current = group
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", 13)
			pdf.Cell(0, 8, sectionTitle(group))
			pdf.Ln(8)
			pdf.SetFont("Helvetica", "", 10)
		}
		pdf.CellFormat(80, 6, tr(metric), "B", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(value), "B", 1, "L", false, 0, "")
	}

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 5, "Generated "+now().Format("2006-01-02 15:04"))

	if err := pdf.Output(out); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

func sectionTitle(group string) string {
	switch group {
	case domain.GroupTime:
		return "Most Frequent Times of Travel"
	case domain.GroupStations:
		return "Most Popular Stations and Trip"
	case domain.GroupDurations:
		return "Trip Duration"
	case domain.GroupUsers:
		return "User Stats"
	}
	return strings.ToUpper(group[:1]) + group[1:]
}
