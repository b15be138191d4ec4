package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"bikeshare/internal/dataprocessing"
	"bikeshare/pkg/contracts/domain"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// DatasetInfo describes the source file backing one city.
type DatasetInfo struct {
	City      domain.City `json:"city"`
	Title     string      `json:"title"`
	Slug      string      `json:"slug"`
	Available bool        `json:"available"`
	Path      string      `json:"path,omitempty"`
	Format    string      `json:"format,omitempty"`
	SizeBytes int64       `json:"size_bytes,omitempty"`
	ModTime   time.Time   `json:"modified_at,omitempty"`
}

// Discovery provides file discovery operations over the data directory
type Discovery struct {
	dataDir  string
	resolver *dataprocessing.FileResolver
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(dataDir string) *Discovery {
	return &Discovery{
		dataDir:  dataDir,
		resolver: dataprocessing.NewFileResolver(dataDir),
	}
}

// FindDatasetFiles finds all csv and xlsx files in the data directory.
// Spreadsheet lock files (~$name.xlsx) are ignored.
func (d *Discovery) FindDatasetFiles() ([]FileInfo, error) {
	entries, err := os.ReadDir(d.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.dataDir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "~$") {
			continue
		}
		if !isDatasetExt(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(d.dataDir, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// Datasets reports, for every supported city, which file would be loaded.
func (d *Discovery) Datasets() []DatasetInfo {
	out := make([]DatasetInfo, 0, len(domain.Cities))
	for _, city := range domain.Cities {
		ds := DatasetInfo{
			City:  city,
			Title: city.Title(),
			Slug:  city.Slug(),
		}
		if path, err := d.resolver.Locate(city); err == nil {
			ds.Available = true
			ds.Path = path
			ds.Format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
			if info, err := os.Stat(path); err == nil {
				ds.SizeBytes = info.Size()
				ds.ModTime = info.ModTime()
			}
		}
		out = append(out, ds)
	}
	return out
}

// AvailableCount returns how many cities have a dataset on disk.
func AvailableCount(datasets []DatasetInfo) int {
	n := 0
	for _, ds := range datasets {
		if ds.Available {
			n++
		}
	}
	return n
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}
	return latest, true
}

func isDatasetExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range dataprocessing.SourceExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
