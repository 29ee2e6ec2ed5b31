package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"cartscope/internal/analytics"
)

// ChartBook renders summary tables into a single xlsx workbook, one sheet
// per summary with its data and a labeled chart.
type ChartBook struct {
	file   *excelize.File
	logger *slog.Logger
	sheets int
}

// NewChartBook creates an empty chart workbook.
func NewChartBook(logger *slog.Logger) *ChartBook {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartBook{file: excelize.NewFile(), logger: logger}
}

// AddBarChart renders a summary as a bar (column) chart.
func (b *ChartBook) AddBarChart(sheet string, summary analytics.Summary) error {
	return b.addChart(sheet, summary, excelize.Col)
}

// AddLineChart renders a summary as a line chart.
func (b *ChartBook) AddLineChart(sheet string, summary analytics.Summary) error {
	return b.addChart(sheet, summary, excelize.Line)
}

// addChart writes the summary's rows into columns A/B of a new sheet and
// attaches a chart referencing them.
func (b *ChartBook) addChart(sheet string, summary analytics.Summary, chartType excelize.ChartType) error {
	if err := b.writeSummarySheet(sheet, summary); err != nil {
		return err
	}

	n := len(summary.Rows)
	chart := &excelize.Chart{
		Type: chartType,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", sheet),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, n+1),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheet, n+1),
		}},
		Title:  []excelize.RichTextRun{{Text: summary.Title}},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: summary.KeyLabel}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: summary.ValueLabel}}},
		Legend: excelize.ChartLegend{Position: "bottom"},
	}

	if err := b.file.AddChart(sheet, "D2", chart); err != nil {
		return fmt.Errorf("failed to add chart to sheet %s: %w", sheet, err)
	}

	b.logger.Debug("added chart sheet",
		slog.String("sheet", sheet),
		slog.Int("rows", n))
	return nil
}

// AddCartSizeChart renders the cart-size histogram with mean and median
// reference lines overlaid as constant line series.
func (b *ChartBook) AddCartSizeChart(sheet string, stats analytics.CartSizeStats) error {
	summary := stats.Distribution
	if err := b.writeSummarySheet(sheet, summary); err != nil {
		return err
	}

	n := len(summary.Rows)
	if n == 0 {
		return nil
	}

	// Reference line values repeated per category; excelize has no native
	// axis reference line, so they are drawn as overlay series.
	if err := b.file.SetCellValue(sheet, "C1", "mean"); err != nil {
		return err
	}
	if err := b.file.SetCellValue(sheet, "D1", "median"); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := b.file.SetCellValue(sheet, fmt.Sprintf("C%d", i+2), stats.Mean); err != nil {
			return err
		}
		if err := b.file.SetCellValue(sheet, fmt.Sprintf("D%d", i+2), stats.Median); err != nil {
			return err
		}
	}

	bars := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", sheet),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, n+1),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheet, n+1),
		}},
		Title:  []excelize.RichTextRun{{Text: summary.Title}},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: summary.KeyLabel}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: summary.ValueLabel}}},
		Legend: excelize.ChartLegend{Position: "bottom"},
	}
	overlay := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$C$1", sheet),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, n+1),
				Values:     fmt.Sprintf("%s!$C$2:$C$%d", sheet, n+1),
			},
			{
				Name:       fmt.Sprintf("%s!$D$1", sheet),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, n+1),
				Values:     fmt.Sprintf("%s!$D$2:$D$%d", sheet, n+1),
			},
		},
	}

	if err := b.file.AddChart(sheet, "F2", bars, overlay); err != nil {
		return fmt.Errorf("failed to add cart size chart: %w", err)
	}
	return nil
}

// writeSummarySheet creates the sheet and fills columns A/B with the
// summary's header and rows.
func (b *ChartBook) writeSummarySheet(sheet string, summary analytics.Summary) error {
	if _, err := b.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	b.sheets++

	if err := b.file.SetSheetRow(sheet, "A1", &[]interface{}{summary.KeyLabel, summary.ValueLabel}); err != nil {
		return err
	}
	for i, row := range summary.Rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := b.file.SetSheetRow(sheet, cell, &[]interface{}{row.Key, row.Count}); err != nil {
			return err
		}
	}
	return nil
}

// SaveAs writes the workbook, dropping the default empty sheet.
func (b *ChartBook) SaveAs(path string) error {
	if b.sheets > 0 {
		if err := b.file.DeleteSheet("Sheet1"); err != nil {
			b.logger.Warn("could not drop default sheet", slog.String("error", err.Error()))
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := b.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	b.logger.Info("wrote chart workbook",
		slog.String("path", path),
		slog.Int("sheets", b.sheets))
	return nil
}

// Close releases the underlying workbook resources.
func (b *ChartBook) Close() error {
	return b.file.Close()
}
