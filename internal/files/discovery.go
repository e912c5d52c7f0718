package files

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"
)

// tripFilePattern matches TLC monthly file names like
// yellow_tripdata_2025-01.csv and captures the month.
var tripFilePattern = regexp.MustCompile(`^yellow_tripdata_(\d{4}-\d{2})\.csv$`)

// TripFile is a discovered monthly trip file
type TripFile struct {
	Path    string
	Name    string
	Month   string // "2006-01" form
	Size    int64
	ModTime time.Time
}

// Discovery provides trip file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindTripFiles finds all monthly trip CSVs in the directory, sorted
// by month ascending. Non-matching files are ignored.
func (d *Discovery) FindTripFiles(dir string) ([]TripFile, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var found []TripFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := tripFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, TripFile{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Month:   m[1],
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Month < found[j].Month })

	return found, nil
}

// FindMonths filters the discovered files down to the requested
// months, keeping month order. Months with no file present are
// reported in the second return value.
func (d *Discovery) FindMonths(dir string, months []string) ([]TripFile, []string, error) {
	all, err := d.FindTripFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	byMonth := make(map[string]TripFile, len(all))
	for _, f := range all {
		byMonth[f.Month] = f
	}

	var found []TripFile
	var missing []string
	for _, month := range months {
		if f, ok := byMonth[month]; ok {
			found = append(found, f)
		} else {
			missing = append(missing, month)
		}
	}
	return found, missing, nil
}

// Paths extracts the file paths in order
func Paths(tripFiles []TripFile) []string {
	out := make([]string, len(tripFiles))
	for i, f := range tripFiles {
		out[i] = f.Path
	}
	return out
}
