package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/webdev1881/retail-ftp-2/internal/config"
	"github.com/webdev1881/retail-ftp-2/internal/export"
	"github.com/webdev1881/retail-ftp-2/internal/feed"
	"github.com/webdev1881/retail-ftp-2/internal/model"
	"github.com/webdev1881/retail-ftp-2/internal/service"
)

// Console front end over the same report pipeline the web server uses.
func main() {
	cfg := config.Load()
	if err := cfg.EnsureDirs(); err != nil {
		log.Fatalf("Cannot create working directories: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer logger.Sync()

	connector := feed.NewFTPConnector(cfg.FTP, logger)
	reportService := service.NewReportService(cfg, connector, logger)

	in := bufio.NewScanner(os.Stdin)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("RETAIL FEED ANALYZER")
	fmt.Printf("Feed server: %s:%d, working dir: %s\n", cfg.FTP.Host, cfg.FTP.Port, cfg.Dirs.Base)
	fmt.Println(strings.Repeat("=", 60))

	for {
		fmt.Println("\n1) Sales report")
		fmt.Println("2) Losses report")
		fmt.Println("3) Period comparison")
		fmt.Println("4) Detailed losses report")
		fmt.Println("5) Scan remote structure")
		fmt.Println("0) Quit")

		switch prompt(in, "Choice", "0") {
		case "1":
			runReport(in, cfg, reportService, model.KindSales)
		case "2":
			runReport(in, cfg, reportService, model.KindLosses)
		case "3":
			runReport(in, cfg, reportService, model.KindComparison)
		case "4":
			runReport(in, cfg, reportService, model.KindDetailedLosses)
		case "5":
			scanStructure(cfg, logger)
		case "0", "q":
			return
		default:
			fmt.Println("Unknown choice")
		}
	}
}

func prompt(in *bufio.Scanner, label, fallback string) string {
	if fallback != "" {
		fmt.Printf("%s [%s]: ", label, fallback)
	} else {
		fmt.Printf("%s: ", label)
	}
	if !in.Scan() {
		return fallback
	}
	answer := strings.TrimSpace(in.Text())
	if answer == "" {
		return fallback
	}
	return answer
}

func runReport(in *bufio.Scanner, cfg config.Config, svc service.ReportService, kind model.ReportKind) {
	req := model.ReportRequest{
		Kind: kind,
		Period: model.Period{
			Start: prompt(in, "Start date", "2025-06-01"),
			End:   prompt(in, "End date", "2025-06-03"),
		},
	}
	if kind == model.KindComparison {
		req.Period2 = &model.Period{
			Start: prompt(in, "Second period start", "2025-06-08"),
			End:   prompt(in, "Second period end", "2025-06-10"),
		}
	}

	cities := prompt(in, "Cities (comma-separated codes, empty = all)", "")
	if cities != "" {
		for _, code := range strings.Split(cities, ",") {
			req.Cities = append(req.Cities, strings.TrimSpace(code))
		}
	}

	if strings.EqualFold(prompt(in, "Clear cache before loading? (y/n)", "n"), "y") {
		clearCache(cfg.Dirs.Cache)
	}

	fmt.Println("\nLoading feed data...")
	result, err := svc.Generate(context.Background(), req)
	if err != nil {
		fmt.Printf("Report failed: %v\n", err)
		return
	}
	printSummary(result)

	format := strings.ToLower(prompt(in, "Save report? (csv/xlsx/n)", "n"))
	if format == "csv" || format == "xlsx" {
		saveReport(cfg, result, format)
	}
}

func clearCache(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Printf("Cannot read cache dir: %v\n", err)
		return
	}
	for _, entry := range entries {
		os.Remove(filepath.Join(dir, entry.Name()))
	}
	fmt.Printf("Cache cleared (%d files)\n", len(entries))
}

func printSummary(result model.ReportResult) {
	s := result.Summary
	fmt.Println("\n" + strings.Repeat("-", 60))
	fmt.Printf("Report: %s (run %s)\n", result.Kind, result.RunID)
	fmt.Printf("Rows: %d, shops: %d\n", s.Rows, s.Shops)
	fmt.Printf("Total: count %d, amount %s, qty %s\n",
		s.Total.Count, s.Total.Amount.StringFixed(2), s.Total.Qty.String())
	fmt.Printf("Average per shop: %s, per document: %s\n",
		s.AvgPerShop.StringFixed(2), s.AvgPerDoc.StringFixed(2))

	if len(s.CityRollups) > 0 {
		fmt.Println("\nBy city:")
		for _, roll := range s.CityRollups {
			fmt.Printf("  %-14s shops %2d, count %4d, amount %s\n",
				roll.Label, roll.Shops, roll.Measure.Count, roll.Measure.Amount.StringFixed(2))
		}
	}
	if len(s.TopByValue) > 0 {
		fmt.Println("\nTop shops by amount:")
		for i, entry := range s.TopByValue {
			fmt.Printf("  %d. %s (%s): %s\n", i+1, entry.Label, entry.City, entry.Value.StringFixed(2))
		}
	}
	if len(s.TopLossTypes) > 0 {
		fmt.Println("\nTop loss types:")
		for i, entry := range s.TopLossTypes {
			fmt.Printf("  %d. %s: %s\n", i+1, entry.Label, entry.Value.StringFixed(2))
		}
	}
	fmt.Println(strings.Repeat("-", 60))
}

func saveReport(cfg config.Config, result model.ReportResult, format string) {
	name := export.FileName(result.Kind, format)
	path := filepath.Join(cfg.Dirs.Reports, name)

	var err error
	if format == "xlsx" {
		wb, werr := export.WriteExcel(result)
		if werr != nil {
			err = werr
		} else {
			err = wb.SaveAs(path)
		}
	} else {
		out, cerr := os.Create(path)
		if cerr != nil {
			err = cerr
		} else {
			err = export.WriteCSV(out, result)
			out.Close()
		}
	}
	if err != nil {
		fmt.Printf("Save failed: %v\n", err)
		return
	}
	fmt.Printf("Report saved: %s\n", path)
}

func scanStructure(cfg config.Config, logger *zap.Logger) {
	ctx := context.Background()
	client, err := feed.Dial(ctx, cfg.FTP, logger)
	if err != nil {
		fmt.Printf("Connection failed: %v\n", err)
		return
	}
	defer client.Quit()

	fmt.Printf("Scanning %s...\n", cfg.RemoteRoot)
	node, err := client.ScanStructure(ctx, cfg.RemoteRoot, 4)
	if err != nil {
		fmt.Printf("Scan failed: %v\n", err)
		return
	}

	path := filepath.Join(cfg.Dirs.Base, "ftp_structure.json")
	if err := feed.SaveStructure(path, node); err != nil {
		fmt.Printf("Save failed: %v\n", err)
		return
	}
	fmt.Printf("Structure saved: %s (%d top-level entries)\n", path, len(node.Children))
}
