package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for ALL file paths in the application.
type Paths struct {
	ExecutableDir string
	DataDir       string
	ReportsDir    string
	LogsDir       string

	// Well-known input files (inside DataDir)
	OrdersCSV      string
	LineItemsCSV   string
	ProductsCSV    string
	AislesCSV      string
	DepartmentsCSV string

	// Well-known report files (inside ReportsDir)
	ChartWorkbook string
	InsightsFile  string
	OrderFactsCSV string
}

// GetPaths returns the application paths relative to the executable location.
// All paths are relative to the executable directory, never the current
// working directory.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return PathsIn(filepath.Dir(exe)), nil
}

// PathsIn builds the path layout rooted at the given base directory.
//
// Directory structure:
//
//	base/
//	  ├── data/       (source tables: orders.csv, order_products.csv, ...)
//	  ├── reports/    (generated summary CSVs, charts workbook, insights)
//	  └── logs/
func PathsIn(baseDir string) *Paths {
	dataDir := filepath.Join(baseDir, "data")
	reportsDir := filepath.Join(baseDir, "reports")

	return &Paths{
		ExecutableDir: baseDir,
		DataDir:       dataDir,
		ReportsDir:    reportsDir,
		LogsDir:       filepath.Join(baseDir, "logs"),

		OrdersCSV:      filepath.Join(dataDir, "orders.csv"),
		LineItemsCSV:   filepath.Join(dataDir, "order_products.csv"),
		ProductsCSV:    filepath.Join(dataDir, "products.csv"),
		AislesCSV:      filepath.Join(dataDir, "aisles.csv"),
		DepartmentsCSV: filepath.Join(dataDir, "departments.csv"),

		ChartWorkbook: filepath.Join(reportsDir, "basket_charts.xlsx"),
		InsightsFile:  filepath.Join(reportsDir, "insights.txt"),
		OrderFactsCSV: filepath.Join(reportsDir, "order_facts.csv"),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.ReportsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetDataPath returns the path for a source data file
func (p *Paths) GetDataPath(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
