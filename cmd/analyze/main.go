package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"cartscope/internal/analytics"
	"cartscope/internal/config"
	"cartscope/internal/dataset"
	apperrors "cartscope/internal/errors"
	"cartscope/internal/infrastructure"
	"cartscope/internal/report"
)

func main() {
	dataDir := flag.String("data", "", "directory containing the source tables (defaults to data/ next to the executable)")
	outDir := flag.String("out", "", "directory for generated reports (defaults to reports/ next to the executable)")
	topN := flag.Int("top", 0, "ranking size for top-N summaries (defaults to config)")
	mergeSoftDups := flag.Bool("merge-soft-dups", false, "merge products whose names differ only in letter case")
	flag.Parse()

	// .env is optional; real environment always wins
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		paths = overrideDataDir(paths, *dataDir)
	}
	if *outDir != "" {
		paths.ReportsDir = *outDir
		paths.ChartWorkbook = paths.GetReportPath("basket_charts.xlsx")
		paths.InsightsFile = paths.GetReportPath("insights.txt")
		paths.OrderFactsCSV = paths.GetReportPath("order_facts.csv")
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	if *topN > 0 {
		cfg.Analysis.TopN = *topN
	}
	if *mergeSoftDups {
		cfg.Analysis.MergeSoftDuplicates = true
	}

	cfg.Logging.FilePath = paths.GetLogPath("analyze.log")
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogger()

	ctx := infrastructure.ContextWithRunID(context.Background())

	logger.InfoContext(ctx, "Starting basket analysis",
		slog.String("data_dir", paths.DataDir),
		slog.String("reports_dir", paths.ReportsDir),
		slog.Int("top_n", cfg.Analysis.TopN),
		slog.Bool("merge_soft_duplicates", cfg.Analysis.MergeSoftDuplicates))

	if err := run(ctx, logger, cfg, paths); err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Analysis failed")
		if apperrors.HasCode(err, apperrors.CodeFileAccess) {
			fmt.Fprintf(os.Stderr, "Place the five source tables in %s and re-run.\n", paths.DataDir)
		}
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Analysis completed",
		slog.String("charts", paths.ChartWorkbook),
		slog.String("insights", paths.InsightsFile))
}

// run executes the pipeline: load, clean, join, aggregate, report. Strictly
// linear; any structural failure aborts the whole run.
func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, paths *config.Paths) error {
	logger = infrastructure.WithComponent(logger, "pipeline")

	// Load
	sources := dataset.SourcePaths{
		Orders:      paths.OrdersCSV,
		LineItems:   paths.LineItemsCSV,
		Products:    paths.ProductsCSV,
		Aisles:      paths.AislesCSV,
		Departments: paths.DepartmentsCSV,
	}
	raw, err := dataset.LoadDataset(ctx, logger, sources, cfg.Analysis.DelimiterRune())
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	// Clean
	cleaner := dataset.NewCleaner(logger, cfg.Analysis.MergeSoftDuplicates)
	clean, quality, err := cleaner.Clean(ctx, raw)
	if err != nil {
		return fmt.Errorf("cleaning dataset: %w", err)
	}

	// Join
	details := dataset.JoinItemDetails(clean.LineItems, clean.Products, clean.Aisles, clean.Departments)
	facts := dataset.JoinOrderFacts(details, clean.Orders)
	logger.InfoContext(ctx, "joined fact table",
		slog.Int("item_details", len(details)),
		slog.Int("order_facts", len(facts)))

	// Aggregate
	topN := cfg.Analysis.TopN
	ordersByDow := analytics.OrdersByDow(clean.Orders)
	ordersByHour := analytics.OrdersByHour(clean.Orders)
	activeUsers := analytics.ActiveUsersByHour(clean.Orders)
	topProducts := analytics.TopReorderedProducts(details, topN)
	productRates := analytics.ProductReorderRates(clean.Products, clean.LineItems)
	userRates := analytics.UserReorderRates(clean.Orders, facts)
	cartSizes := analytics.CartSizes(clean.LineItems)
	ordersPerUser := analytics.OrdersPerUser(clean.Orders)
	topDepts := analytics.TopDepartments(details, topN)
	topAisles := analytics.TopAisles(details, topN)

	var reorderedTotal int64
	for _, item := range clean.LineItems {
		if item.Reordered == 1 {
			reorderedTotal++
		}
	}
	overallRate := analytics.Ratio{Num: reorderedTotal, Den: int64(len(clean.LineItems))}

	// Report
	csvWriter := report.NewCSVWriter(paths, logger)
	summaries := map[string]analytics.Summary{
		"orders_by_dow.csv":   ordersByDow,
		"orders_by_hour.csv":  ordersByHour,
		"active_users.csv":    activeUsers,
		"top_products.csv":    topProducts,
		"cart_sizes.csv":      cartSizes.Distribution,
		"orders_per_user.csv": ordersPerUser,
		"top_departments.csv": topDepts,
		"top_aisles.csv":      topAisles,
	}
	for filename, summary := range summaries {
		if err := csvWriter.WriteSummary(filename, summary); err != nil {
			return fmt.Errorf("writing %s: %w", filename, err)
		}
	}
	if err := csvWriter.WriteRates("product_reorder_rates.csv", productRates); err != nil {
		return fmt.Errorf("writing product rates: %w", err)
	}
	if err := csvWriter.WriteRates("user_reorder_rates.csv", userRates); err != nil {
		return fmt.Errorf("writing user rates: %w", err)
	}
	if err := csvWriter.WriteOrderFacts(paths.OrderFactsCSV, facts); err != nil {
		return fmt.Errorf("writing order facts: %w", err)
	}

	book := report.NewChartBook(logger)
	defer book.Close()
	charts := []struct {
		sheet   string
		summary analytics.Summary
		line    bool
	}{
		{sheet: "OrdersByDow", summary: ordersByDow},
		{sheet: "OrdersByHour", summary: ordersByHour, line: true},
		{sheet: "ActiveUsers", summary: activeUsers, line: true},
		{sheet: "TopProducts", summary: topProducts},
		{sheet: "OrdersPerUser", summary: ordersPerUser},
		{sheet: "TopDepartments", summary: topDepts},
		{sheet: "TopAisles", summary: topAisles},
	}
	for _, c := range charts {
		var err error
		if c.line {
			err = book.AddLineChart(c.sheet, c.summary)
		} else {
			err = book.AddBarChart(c.sheet, c.summary)
		}
		if err != nil {
			return fmt.Errorf("charting %s: %w", c.sheet, err)
		}
	}
	if err := book.AddCartSizeChart("CartSizes", cartSizes); err != nil {
		return fmt.Errorf("charting cart sizes: %w", err)
	}
	if err := book.SaveAs(paths.ChartWorkbook); err != nil {
		return err
	}

	insights := report.Insights{
		Quality:       quality,
		OrdersByDow:   ordersByDow,
		OrdersByHour:  ordersByHour,
		ActiveUsers:   activeUsers,
		TopProducts:   topProducts,
		TopDepts:      topDepts,
		CartSizes:     cartSizes,
		OrdersPerUser: ordersPerUser,
		OverallRate:   overallRate,
	}
	if err := report.WriteInsights(paths.InsightsFile, insights); err != nil {
		return err
	}

	return nil
}

// overrideDataDir points the well-known input files at an explicit data
// directory while keeping the rest of the layout executable-relative.
func overrideDataDir(p *config.Paths, dir string) *config.Paths {
	p.DataDir = dir
	p.OrdersCSV = p.GetDataPath("orders.csv")
	p.LineItemsCSV = p.GetDataPath("order_products.csv")
	p.ProductsCSV = p.GetDataPath("products.csv")
	p.AislesCSV = p.GetDataPath("aisles.csv")
	p.DepartmentsCSV = p.GetDataPath("departments.csv")
	return p
}
