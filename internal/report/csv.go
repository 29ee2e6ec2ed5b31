package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cartscope/internal/analytics"
	"cartscope/internal/config"
	"cartscope/internal/dataset"
)

// CSVWriter exports summary tables and fact rows as CSV reports.
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options. Relative paths
// resolve into the reports directory.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	w.logger.Info("writing CSV report",
		slog.String("path", fullPath),
		slog.Int("records", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// WriteSummary writes one aggregation summary as a two-column CSV.
func (w *CSVWriter) WriteSummary(filename string, summary analytics.Summary) error {
	records := make([][]string, 0, len(summary.Rows))
	for _, row := range summary.Rows {
		records = append(records, []string{row.Key, formatInt(row.Count)})
	}
	return w.WriteCSV(filename, WriteOptions{
		Headers:   []string{summary.KeyLabel, summary.ValueLabel},
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteRates writes a rate table. Undefined ratios render as "undefined".
func (w *CSVWriter) WriteRates(filename string, rates analytics.RateTable) error {
	records := make([][]string, 0, len(rates.Rows))
	for _, row := range rates.Rows {
		records = append(records, []string{row.Key, row.Label, row.Rate.String()})
	}
	return w.WriteCSV(filename, WriteOptions{
		Headers:   []string{"key", "label", "rate"},
		Records:   records,
		BOMPrefix: true,
	})
}

// StreamWriter provides streaming CSV writing for large outputs
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter creates a new streaming CSV writer
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	fullPath := w.resolvePath(filePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{file: file, writer: writer}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// WriteOrderFacts streams the per-order-per-product fact table.
func (w *CSVWriter) WriteOrderFacts(filePath string, facts []dataset.OrderFact) error {
	stream, err := w.CreateStreamWriter(filePath, []string{
		"order_id", "user_id", "order_dow", "order_hour_of_day",
		"product_id", "product_name", "aisle_name", "department_name",
		"add_to_cart_order", "reordered",
	})
	if err != nil {
		return err
	}
	defer stream.Close()

	for _, f := range facts {
		if err := stream.WriteRecord([]string{
			formatInt(f.OrderID),
			formatInt(f.UserID),
			fmt.Sprintf("%d", f.OrderDow),
			fmt.Sprintf("%d", f.OrderHour),
			formatInt(f.ProductID),
			f.ProductName,
			f.AisleName,
			f.DepartmentName,
			formatInt(f.AddToCartOrder),
			fmt.Sprintf("%d", f.Reordered),
		}); err != nil {
			return err
		}
	}

	return nil
}

// resolvePath resolves a path to the reports directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return w.paths.GetReportPath(filePath)
}
