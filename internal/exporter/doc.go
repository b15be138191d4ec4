// Package exporter renders query cycle reports to files.
//
// Every format starts from the same flattened summary (SummaryRows): one
// Group, Metric, Value row per statistic, in report order. On top of that:
//
// CSVWriter writes the summary, optionally followed by the filtered trips,
// with an optional UTF-8 BOM for Excel compatibility. StreamWriter writes trip
// rows one at a time.
//
// XLSXWriter builds a workbook with Summary, User Types and Trips sheets
// using excelize; the Trips sheet is written through the excelize stream
// writer.
//
// PDFWriter renders a one page A4 summary with gofpdf.
//
// Example usage:
//
//	doc := exporter.Document{Report: report, Trips: cycle.Rows()}
//	err := exporter.Export(w, exporter.FormatXLSX, doc)
package exporter
