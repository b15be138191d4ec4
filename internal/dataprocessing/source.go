package dataprocessing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"bikeshare/pkg/contracts/domain"
)

// Source iterates over the rows of a tabular dataset. Next returns io.EOF
// after the last row.
type Source interface {
	Header() []string
	Next() ([]string, error)
	Close() error
}

// SourceResolver opens the dataset for a city.
type SourceResolver interface {
	Open(ctx context.Context, city domain.City) (Source, error)
}

// ErrSourceNotFound is returned when no candidate file exists for a city.
var ErrSourceNotFound = errors.New("no dataset source found")

// SourceExtensions lists the supported file extensions in lookup order.
var SourceExtensions = []string{".csv", ".xlsx"}

// FileResolver resolves city datasets to files in a directory.
type FileResolver struct {
	Dir string
}

// NewFileResolver creates a resolver rooted at dir.
func NewFileResolver(dir string) *FileResolver {
	return &FileResolver{Dir: dir}
}

// Candidates returns the paths tried for a city, in order.
func (r *FileResolver) Candidates(city domain.City) []string {
	paths := make([]string, 0, len(SourceExtensions))
	for _, ext := range SourceExtensions {
		paths = append(paths, filepath.Join(r.Dir, city.SourceName()+ext))
	}
	return paths
}

// Locate returns the first existing candidate path for a city.
func (r *FileResolver) Locate(city domain.City) (string, error) {
	for _, p := range r.Candidates(city) {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w for %s in %s", ErrSourceNotFound, city, r.Dir)
}

// Open implements SourceResolver.
func (r *FileResolver) Open(ctx context.Context, city domain.City) (Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := r.Locate(city)
	if err != nil {
		return nil, err
	}
	return OpenSource(path, city.Title())
}

// OpenSource opens path according to its extension. sheet is the preferred
// worksheet for spreadsheet sources.
func OpenSource(path, sheet string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return OpenCSVSource(path)
	case ".xlsx":
		return OpenXLSXSource(path, sheet)
	default:
		return nil, fmt.Errorf("unsupported dataset format: %s", path)
	}
}

// CSVSource reads rows from a comma separated file.
type CSVSource struct {
	reader *csv.Reader
	closer io.Closer
	header []string
}

// OpenCSVSource opens a CSV file and reads its header.
func OpenCSVSource(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	src, err := NewCSVSource(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	src.closer = f
	return src, nil
}

// NewCSVSource reads the header from r and returns a source over the remaining rows.
func NewCSVSource(r io.Reader) (*CSVSource, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("dataset is empty")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return &CSVSource{reader: reader, header: header}, nil
}

// Header returns the column names.
func (s *CSVSource) Header() []string { return s.header }

// Next returns the next row.
func (s *CSVSource) Next() ([]string, error) {
	return s.reader.Read()
}

// Close releases the underlying file.
func (s *CSVSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// XLSXSource reads rows from a worksheet of an Excel workbook.
type XLSXSource struct {
	file   *excelize.File
	rows   *excelize.Rows
	header []string
	Sheet  string
}

// OpenXLSXSource opens a workbook and reads the header of the sheet named
// preferred, falling back to the first sheet.
func OpenXLSXSource(path, preferred string) (*XLSXSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	sheet := ""
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(strings.TrimSpace(name), preferred) {
			sheet = name
			break
		}
	}
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	src := &XLSXSource{file: f, rows: rows, Sheet: sheet}
	header, err := src.Next()
	if err != nil {
		src.Close()
		if err == io.EOF {
			return nil, errors.New("dataset is empty")
		}
		return nil, err
	}
	src.header = header
	return src, nil
}

// Header returns the column names.
func (s *XLSXSource) Header() []string { return s.header }

// Next returns the next row.
func (s *XLSXSource) Next() ([]string, error) {
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return s.rows.Columns()
}

// Close releases the row iterator and the workbook.
func (s *XLSXSource) Close() error {
	rerr := s.rows.Close()
	if err := s.file.Close(); err != nil {
		return err
	}
	return rerr
}
