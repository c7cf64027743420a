package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdev1881/retail-ftp-2/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func salesResult() model.ReportResult {
	return model.ReportResult{
		RunID: "run-1",
		Kind:  model.KindSales,
		Rows: []model.ReportRow{
			{City: "Kyiv", ShopID: "S1", ShopName: "Alpha",
				Measure: model.Measure{Count: 2, Amount: dec("100"), Qty: dec("5")}},
			{City: "Kyiv", ShopID: "S2", ShopName: "Beta",
				Measure: model.Measure{Count: 1, Amount: dec("40"), Qty: dec("2")}},
		},
		Summary: model.SummaryStats{
			Rows:  2,
			Shops: 2,
			Total: model.Measure{Count: 3, Amount: dec("140"), Qty: dec("7")},
		},
	}
}

func TestWriteCSVSales(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, salesResult()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "city|shop_id|shop_name|receipts|amount|qty", lines[0])
	assert.Equal(t, "Kyiv|S1|Alpha|2|100.00|5", lines[1])
	assert.Equal(t, "Kyiv|S2|Beta|1|40.00|2", lines[2])
}

func TestWriteCSVLossesIncludesType(t *testing.T) {
	result := model.ReportResult{
		Kind: model.KindLosses,
		Rows: []model.ReportRow{
			{City: "Kyiv", ShopID: "S1", ShopName: "Alpha",
				LossTypeID: "T1", LossTypeName: "Spoilage",
				Measure: model.Measure{Count: 1, Amount: dec("12.5"), Qty: dec("2")}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "city|shop_id|shop_name|loss_type|documents|amount|qty", lines[0])
	assert.Equal(t, "Kyiv|S1|Alpha|Spoilage|1|12.50|2", lines[1])
}

func TestWriteCSVComparisonColumns(t *testing.T) {
	p2 := model.Measure{Count: 2, Amount: dec("150"), Qty: dec("3")}
	result := model.ReportResult{
		Kind: model.KindComparison,
		Rows: []model.ReportRow{
			{City: "Kyiv", ShopID: "S1", ShopName: "Alpha",
				Measure: model.Measure{Count: 1, Amount: dec("100"), Qty: dec("2")},
				Period2: &p2,
				Change: &model.Delta{
					Count: 1, Amount: dec("50"), Qty: dec("1"),
					AmountPct: dec("50"),
				}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t,
		"city|shop_id|shop_name|receipts|amount|qty|receipts_p2|amount_p2|amount_change|amount_change_pct",
		lines[0])
	assert.Equal(t, "Kyiv|S1|Alpha|1|100.00|2|2|150.00|50.00|50.00", lines[1])
}

func TestWriteCSVCollapsedRowsDropShopColumns(t *testing.T) {
	result := model.ReportResult{
		Kind: model.KindSales,
		Rows: []model.ReportRow{
			{City: "Kyiv", Measure: model.Measure{Count: 3, Amount: dec("140"), Qty: dec("7")}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "city|receipts|amount|qty", lines[0])
	assert.Equal(t, "Kyiv|3|140.00|7", lines[1])
}

func TestWriteCSVDateColumn(t *testing.T) {
	result := model.ReportResult{
		Kind: model.KindSales,
		Rows: []model.ReportRow{
			{City: "Kyiv", ShopID: "S1", ShopName: "Alpha", Date: "2025-06-10",
				Measure: model.Measure{Count: 1, Amount: dec("10"), Qty: dec("1")}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "city|shop_id|shop_name|date|receipts|amount|qty", lines[0])
	assert.Contains(t, lines[1], "2025-06-10")
}

func TestWriteExcelSheetLayout(t *testing.T) {
	f, err := WriteExcel(salesResult())
	require.NoError(t, err)

	got, err := f.GetCellValue("Report", "A1")
	require.NoError(t, err)
	assert.Equal(t, "city", got)

	got, _ = f.GetCellValue("Report", "C2")
	assert.Equal(t, "Alpha", got)

	got, _ = f.GetCellValue("Report", "E2")
	assert.Equal(t, "100.00", got)

	got, _ = f.GetCellValue("Summary", "A1")
	assert.Equal(t, "metric", got)

	got, _ = f.GetCellValue("Summary", "B5")
	assert.Equal(t, "140.00", got)
}

func TestFileName(t *testing.T) {
	name := FileName(model.KindDetailedLosses, "xlsx")
	assert.True(t, strings.HasPrefix(name, "detailed_losses_report_"))
	assert.True(t, strings.HasSuffix(name, ".xlsx"))
}
