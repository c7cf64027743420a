package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/webdev1881/retail-ftp-2/internal/config"
	"github.com/webdev1881/retail-ftp-2/internal/feed"
	"github.com/webdev1881/retail-ftp-2/internal/model"
)

type stubConn struct {
	remote map[string]string
}

func (s *stubConn) Fetch(_ context.Context, remotePath, localPath string) (feed.Outcome, error) {
	if _, err := os.Stat(localPath); err == nil {
		return feed.OutcomeCached, nil
	}
	content, ok := s.remote[remotePath]
	if !ok {
		return feed.OutcomeNotFound, nil
	}
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return feed.OutcomeTransferError, err
	}
	if err := os.WriteFile(localPath, []byte(content), 0o644); err != nil {
		return feed.OutcomeTransferError, err
	}
	return feed.OutcomeDownloaded, nil
}

func (s *stubConn) Quit() error { return nil }

type stubConnector struct {
	conn *stubConn
	err  error
}

func (s *stubConnector) Connect(context.Context) (feed.Connection, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.conn, nil
}

func testService(t *testing.T, remote map[string]string) ReportService {
	t.Helper()
	cfg := config.Config{
		RemoteRoot: "/www",
		Dirs:       config.Dirs{Cache: t.TempDir()},
		Cities: []config.City{
			{Code: "kiev", Name: "Kyiv"},
			{Code: "dnepr", Name: "Dnipro"},
		},
	}
	return NewReportService(cfg, &stubConnector{conn: &stubConn{remote: remote}}, zap.NewNop())
}

func TestGenerateSalesEndToEnd(t *testing.T) {
	svc := testService(t, map[string]string{
		"/www/shop_kiev.csv": "id|name\nS1|Alpha\nS2|Beta\nS3|Gamma\n",
		"/www/receipt/receipt_kiev_2025-06-10.csv":   "id|shop_id\nr1|S1\nr2|S1\nr3|S2\n",
		"/www/cartitem/cartitem_kiev_2025-06-10.csv": "receipt_id|qty|total_price\nr1|3|60,00\nr2|2|40,00\nr3|2|40,00\n",
	})

	result, err := svc.Generate(context.Background(), model.ReportRequest{
		Kind:   model.KindSales,
		Period: model.Period{Start: "2025-06-10", End: "2025-06-10"},
		Cities: []string{"kiev"},
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 3)

	byShop := make(map[string]model.ReportRow)
	for _, row := range result.Rows {
		byShop[row.ShopID] = row
	}
	assert.EqualValues(t, 2, byShop["S1"].Measure.Count)
	assert.Equal(t, "100", byShop["S1"].Measure.Amount.String())
	assert.Equal(t, "5", byShop["S1"].Measure.Qty.String())

	assert.EqualValues(t, 1, byShop["S2"].Measure.Count)
	assert.Equal(t, "40", byShop["S2"].Measure.Amount.String())
	assert.Equal(t, "2", byShop["S2"].Measure.Qty.String())

	// S3 has no receipts yet still appears, zero-filled.
	assert.True(t, byShop["S3"].Measure.IsZero())

	assert.EqualValues(t, 3, result.Summary.Total.Count)
	assert.Equal(t, "140", result.Summary.Total.Amount.String())
	assert.NotEmpty(t, result.RunID)
}

func TestGenerateSalesMissingDatedFilesZeroFills(t *testing.T) {
	svc := testService(t, map[string]string{
		"/www/shop_kiev.csv": "id|name\nS1|Alpha\nS2|Beta\n",
		// no receipt or cartitem files at all
	})

	result, err := svc.Generate(context.Background(), model.ReportRequest{
		Kind:   model.KindSales,
		Period: model.Period{Start: "2025-06-10", End: "2025-06-12"},
		Cities: []string{"Kyiv"}, // display name also selects
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	for _, row := range result.Rows {
		assert.True(t, row.Measure.IsZero())
	}
}

func TestGenerateSkipsCityWithoutShopDirectory(t *testing.T) {
	svc := testService(t, map[string]string{
		"/www/shop_kiev.csv": "id|name\nS1|Alpha\n",
		// dnepr shop directory missing entirely
	})

	result, err := svc.Generate(context.Background(), model.ReportRequest{
		Kind:   model.KindSales,
		Period: model.Period{Start: "2025-06-10", End: "2025-06-10"},
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Kyiv", result.Rows[0].City)
}

func TestGenerateLossesCrossProductAndValidity(t *testing.T) {
	svc := testService(t, map[string]string{
		"/www/losstype.csv":  "id|name\nT1|Spoilage\nT2|Breakage\n",
		"/www/shop_kiev.csv": "id|name\nS1|Alpha\nS2|Beta\n",
		"/www/loss/loss_kiev_2025-06-10.csv":               "id|shop_id|type_id\nd1|S1|T1\nd2|bogus|T1\n",
		"/www/lossproduct/lossproduct_kiev_2025-06-10.csv": "document_id|qty|total_price\nd1|2|12,50\nd2|9|90\n",
	})

	result, err := svc.Generate(context.Background(), model.ReportRequest{
		Kind:   model.KindLosses,
		Period: model.Period{Start: "2025-06-10", End: "2025-06-10"},
		Cities: []string{"kiev"},
	})
	require.NoError(t, err)
	// 2 shops x 2 types
	require.Len(t, result.Rows, 4)

	var active int
	for _, row := range result.Rows {
		if !row.Measure.IsZero() {
			active++
			assert.Equal(t, "S1", row.ShopID)
			assert.Equal(t, "T1", row.LossTypeID)
			assert.Equal(t, "12.5", row.Measure.Amount.String())
		}
	}
	// the bogus-shop document and its products contributed nothing
	assert.Equal(t, 1, active)
}

func TestGenerateDetailedLossesFiltersZeroRows(t *testing.T) {
	svc := testService(t, map[string]string{
		"/www/losstype.csv":  "id|name\nT1|Spoilage\nT2|Breakage\n",
		"/www/shop_kiev.csv": "id|name\nS1|Alpha\nS2|Beta\n",
		"/www/loss/loss_kiev_2025-06-10.csv":               "id|shop_id|type_id\nd1|S1|T1\n",
		"/www/lossproduct/lossproduct_kiev_2025-06-10.csv": "document_id|qty|total_price\nd1|1|5\n",
	})

	result, err := svc.Generate(context.Background(), model.ReportRequest{
		Kind:   model.KindDetailedLosses,
		Period: model.Period{Start: "2025-06-10", End: "2025-06-10"},
		Cities: []string{"kiev"},
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Spoilage", result.Rows[0].LossTypeName)
}

func TestGenerateDetailedLossesKeepsAllWhenNoActivity(t *testing.T) {
	svc := testService(t, map[string]string{
		"/www/losstype.csv":  "id|name\nT1|Spoilage\n",
		"/www/shop_kiev.csv": "id|name\nS1|Alpha\nS2|Beta\n",
	})

	result, err := svc.Generate(context.Background(), model.ReportRequest{
		Kind:   model.KindDetailedLosses,
		Period: model.Period{Start: "2025-06-10", End: "2025-06-10"},
		Cities: []string{"kiev"},
	})
	require.NoError(t, err)
	// nothing to filter on: the complete zero-filled cross product stays
	require.Len(t, result.Rows, 2)
}

func TestGenerateLossesAbortsWithoutLossTypes(t *testing.T) {
	svc := testService(t, map[string]string{
		"/www/shop_kiev.csv": "id|name\nS1|Alpha\n",
	})

	_, err := svc.Generate(context.Background(), model.ReportRequest{
		Kind:   model.KindLosses,
		Period: model.Period{Start: "2025-06-10", End: "2025-06-10"},
	})
	assert.True(t, errors.Is(err, feed.ErrMissingReference))
}

func TestGenerateComparison(t *testing.T) {
	svc := testService(t, map[string]string{
		"/www/shop_kiev.csv": "id|name\nS1|Alpha\n",
		"/www/receipt/receipt_kiev_2025-06-01.csv":   "id|shop_id\nr1|S1\n",
		"/www/cartitem/cartitem_kiev_2025-06-01.csv": "receipt_id|qty|total_price\nr1|1|100\n",
		"/www/receipt/receipt_kiev_2025-06-08.csv":   "id|shop_id\nr2|S1\nr3|S1\n",
		"/www/cartitem/cartitem_kiev_2025-06-08.csv": "receipt_id|qty|total_price\nr2|1|90\nr3|1|60\n",
	})

	result, err := svc.Generate(context.Background(), model.ReportRequest{
		Kind:    model.KindComparison,
		Period:  model.Period{Start: "2025-06-01", End: "2025-06-01"},
		Period2: &model.Period{Start: "2025-06-08", End: "2025-06-08"},
		Cities:  []string{"kiev"},
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)

	row := result.Rows[0]
	assert.Equal(t, "100", row.Measure.Amount.String())
	assert.Equal(t, "150", row.Period2.Amount.String())
	assert.Equal(t, "50", row.Change.Amount.String())
	assert.Equal(t, "50", row.Change.AmountPct.String())
	assert.EqualValues(t, 1, row.Change.Count)
}

func TestGenerateComparisonRequiresSecondPeriod(t *testing.T) {
	svc := testService(t, nil)

	_, err := svc.Generate(context.Background(), model.ReportRequest{
		Kind:   model.KindComparison,
		Period: model.Period{Start: "2025-06-01", End: "2025-06-01"},
	})
	assert.Error(t, err)
}

func TestGenerateConnectionFailureIsFatal(t *testing.T) {
	cfg := config.Config{
		RemoteRoot: "/www",
		Dirs:       config.Dirs{Cache: t.TempDir()},
		Cities:     []config.City{{Code: "kiev", Name: "Kyiv"}},
	}
	svc := NewReportService(cfg, &stubConnector{err: errors.New("dial tcp: refused")}, zap.NewNop())

	_, err := svc.Generate(context.Background(), model.ReportRequest{
		Kind:   model.KindSales,
		Period: model.Period{Start: "2025-06-10", End: "2025-06-10"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, feed.ErrUnavailable))
}

func TestGenerateRejectsMalformedPeriod(t *testing.T) {
	svc := testService(t, nil)

	_, err := svc.Generate(context.Background(), model.ReportRequest{
		Kind:   model.KindSales,
		Period: model.Period{Start: "June 10", End: "2025-06-10"},
	})
	assert.Error(t, err)
}

func TestGenerateGroupByDateDetailRows(t *testing.T) {
	svc := testService(t, map[string]string{
		"/www/shop_kiev.csv": "id|name\nS1|Alpha\nS2|Beta\n",
		"/www/receipt/receipt_kiev_2025-06-10.csv":   "id|shop_id\nr1|S1\n",
		"/www/cartitem/cartitem_kiev_2025-06-10.csv": "receipt_id|qty|total_price\nr1|1|10\n",
		"/www/receipt/receipt_kiev_2025-06-11.csv":   "id|shop_id\nr2|S1\n",
		"/www/cartitem/cartitem_kiev_2025-06-11.csv": "receipt_id|qty|total_price\nr2|2|20\n",
	})

	result, err := svc.Generate(context.Background(), model.ReportRequest{
		Kind:    model.KindSales,
		Period:  model.Period{Start: "2025-06-10", End: "2025-06-11"},
		Cities:  []string{"kiev"},
		GroupBy: []string{"city", "shop", "date"},
	})
	require.NoError(t, err)
	// detail rows cover only days with activity; no zero-fill here,
	// and amounts sort descending within the city
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "2025-06-11", result.Rows[0].Date)
	assert.Equal(t, "2025-06-10", result.Rows[1].Date)
}
