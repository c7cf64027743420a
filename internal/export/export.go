package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/webdev1881/retail-ftp-2/internal/model"
)

// column describes one output column shared by the CSV and Excel writers.
// Numeric columns get a number format in Excel and carry native values
// there; in CSV everything is text.
type column struct {
	title   string
	numeric bool
	text    func(model.ReportRow) string
	value   func(model.ReportRow) interface{}
}

func countColumn(title string, get func(model.ReportRow) int64) column {
	return column{
		title: title,
		text:  func(r model.ReportRow) string { return fmt.Sprintf("%d", get(r)) },
		value: func(r model.ReportRow) interface{} { return get(r) },
	}
}

func decimalColumn(title string, get func(model.ReportRow) string, num func(model.ReportRow) float64) column {
	return column{
		title:   title,
		numeric: true,
		text:    func(r model.ReportRow) string { return get(r) },
		value:   func(r model.ReportRow) interface{} { return num(r) },
	}
}

func textColumn(title string, get func(model.ReportRow) string) column {
	return column{
		title: title,
		text:  get,
		value: func(r model.ReportRow) interface{} { return get(r) },
	}
}

// columns builds the column set for one report. Identity columns that the
// grouping collapsed away (shop, type, date) are dropped when no row
// carries them.
func columns(result model.ReportResult) []column {
	var hasShop, hasType, hasDate bool
	for _, row := range result.Rows {
		hasShop = hasShop || row.ShopID != ""
		hasType = hasType || row.LossTypeID != ""
		hasDate = hasDate || row.Date != ""
	}

	cols := []column{textColumn("city", func(r model.ReportRow) string { return r.City })}
	if hasShop {
		cols = append(cols,
			textColumn("shop_id", func(r model.ReportRow) string { return r.ShopID }),
			textColumn("shop_name", func(r model.ReportRow) string { return r.ShopName }))
	}
	if hasType {
		cols = append(cols,
			textColumn("loss_type", func(r model.ReportRow) string { return r.LossTypeName }))
	}
	if hasDate {
		cols = append(cols, textColumn("date", func(r model.ReportRow) string { return r.Date }))
	}

	countTitle := "receipts"
	if result.Kind == model.KindLosses || result.Kind == model.KindDetailedLosses {
		countTitle = "documents"
	}
	cols = append(cols,
		countColumn(countTitle, func(r model.ReportRow) int64 { return r.Measure.Count }),
		decimalColumn("amount",
			func(r model.ReportRow) string { return r.Measure.Amount.StringFixed(2) },
			func(r model.ReportRow) float64 { return r.Measure.Amount.InexactFloat64() }),
		decimalColumn("qty",
			func(r model.ReportRow) string { return r.Measure.Qty.String() },
			func(r model.ReportRow) float64 { return r.Measure.Qty.InexactFloat64() }))

	if result.Kind == model.KindComparison {
		cols = append(cols,
			countColumn("receipts_p2", func(r model.ReportRow) int64 { return r.Period2.Count }),
			decimalColumn("amount_p2",
				func(r model.ReportRow) string { return r.Period2.Amount.StringFixed(2) },
				func(r model.ReportRow) float64 { return r.Period2.Amount.InexactFloat64() }),
			decimalColumn("amount_change",
				func(r model.ReportRow) string { return r.Change.Amount.StringFixed(2) },
				func(r model.ReportRow) float64 { return r.Change.Amount.InexactFloat64() }),
			decimalColumn("amount_change_pct",
				func(r model.ReportRow) string { return r.Change.AmountPct.StringFixed(2) },
				func(r model.ReportRow) float64 { return r.Change.AmountPct.InexactFloat64() }))
	}
	return cols
}

// WriteCSV writes the report in the same pipe-delimited dialect the feed
// files use.
func WriteCSV(w io.Writer, result model.ReportResult) error {
	cols := columns(result)
	cw := csv.NewWriter(w)
	cw.Comma = '|'

	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.title
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(cols))
	for _, row := range result.Rows {
		for i, col := range cols {
			record[i] = col.text(row)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

const reportSheet = "Report"

// WriteExcel renders the report as a two-sheet workbook: the row data plus
// a summary sheet with totals and leaderboards.
func WriteExcel(result model.ReportResult) (*excelize.File, error) {
	cols := columns(result)
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", reportSheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("excel header style: %w", err)
	}
	moneyFmt := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return nil, fmt.Errorf("excel number style: %w", err)
	}

	for i, col := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(reportSheet, cell, col.title)
	}
	f.SetRowStyle(reportSheet, 1, 1, headerStyle)

	for r, row := range result.Rows {
		for c, col := range cols {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(reportSheet, cell, col.value(row))
			if col.numeric {
				f.SetCellStyle(reportSheet, cell, cell, moneyStyle)
			}
		}
	}

	for i, col := range cols {
		name, _ := excelize.ColumnNumberToName(i + 1)
		width := 14.0
		if len(col.title) > 10 {
			width = 20.0
		}
		f.SetColWidth(reportSheet, name, name, width)
	}

	writeSummarySheet(f, result, headerStyle)
	return f, nil
}

func writeSummarySheet(f *excelize.File, result model.ReportResult, headerStyle int) {
	sheet := "Summary"
	f.NewSheet(sheet)

	s := result.Summary
	data := [][]interface{}{
		{"metric", "value"},
		{"rows", s.Rows},
		{"shops", s.Shops},
		{"total_count", s.Total.Count},
		{"total_amount", s.Total.Amount.StringFixed(2)},
		{"total_qty", s.Total.Qty.String()},
		{"avg_per_shop", s.AvgPerShop.StringFixed(2)},
		{"avg_per_doc", s.AvgPerDoc.StringFixed(2)},
	}
	for _, entry := range s.TopByValue {
		data = append(data, []interface{}{
			fmt.Sprintf("top_by_value: %s (%s)", entry.Label, entry.City),
			entry.Value.StringFixed(2),
		})
	}
	for _, roll := range s.CityRollups {
		data = append(data, []interface{}{
			fmt.Sprintf("city_total: %s", roll.Label),
			roll.Measure.Amount.StringFixed(2),
		})
	}

	for r, row := range data {
		for c, val := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			f.SetCellValue(sheet, cell, val)
		}
	}
	f.SetRowStyle(sheet, 1, 1, headerStyle)
	f.SetColWidth(sheet, "A", "A", 36)
	f.SetColWidth(sheet, "B", "B", 18)
}

// FileName returns a timestamped download name for a rendered report.
func FileName(kind model.ReportKind, ext string) string {
	return fmt.Sprintf("%s_report_%s.%s", kind, time.Now().Format("20060102_150405"), ext)
}
