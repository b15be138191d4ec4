package exporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatXLSX, FormatPDF, FormatJSON}

var (
	ErrNoReport          = errors.New("export has no report")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// ParseFormat accepts a format name or file extension in any case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// Writer renders a document in one format.
type Writer interface {
	Write(out io.Writer, doc Document) error
}

// JSONWriter renders the document as indented JSON.
type JSONWriter struct{}

func (JSONWriter) Write(out io.Writer, doc Document) error {
	if doc.Report == nil {
		return ErrNoReport
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// NewWriter returns the writer for format. CSV output carries a BOM so the
// file opens cleanly in spreadsheet tools.
func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatCSV:
		return NewCSVWriter(true), nil
	case FormatXLSX:
		return NewXLSXWriter(), nil
	case FormatPDF:
		return NewPDFWriter(), nil
	case FormatJSON:
		return JSONWriter{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Export renders doc to out in the given format.
func Export(out io.Writer, format Format, doc Document) error {
	w, err := NewWriter(format)
	if err != nil {
		return err
	}
	return w.Write(out, doc)
}
