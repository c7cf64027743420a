package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/webdev1881/retail-ftp-2/internal/config"
	"github.com/webdev1881/retail-ftp-2/internal/feed"
	"github.com/webdev1881/retail-ftp-2/internal/model"
	"github.com/webdev1881/retail-ftp-2/pkg/daterange"
)

// ReportService is the single pipeline entry point. Both the web handler and
// the console front end are thin adapters over Generate; neither carries
// business logic of its own.
type ReportService interface {
	Generate(ctx context.Context, req model.ReportRequest) (model.ReportResult, error)
}

type reportService struct {
	cfg       config.Config
	connector feed.Connector
	logger    *zap.Logger
}

func NewReportService(cfg config.Config, connector feed.Connector, logger *zap.Logger) ReportService {
	return &reportService{cfg: cfg, connector: connector, logger: logger}
}

// Generate runs one full report: load, aggregate, assemble, format. Each run
// is stateless; the only shared resource is the on-disk cache, which is
// read-checked-then-written per file.
func (s *reportService) Generate(ctx context.Context, req model.ReportRequest) (model.ReportResult, error) {
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID), zap.String("kind", string(req.Kind)))

	dates, err := daterange.Days(req.Period.Start, req.Period.End)
	if err != nil {
		return model.ReportResult{}, fmt.Errorf("report period: %w", err)
	}

	var dates2 []string
	if req.Kind == model.KindComparison {
		if req.Period2 == nil {
			return model.ReportResult{}, errors.New("comparison report requires a second period")
		}
		dates2, err = daterange.Days(req.Period2.Start, req.Period2.End)
		if err != nil {
			return model.ReportResult{}, fmt.Errorf("second report period: %w", err)
		}
	}

	cities := s.selectCities(req.Cities)
	if len(cities) == 0 {
		return model.ReportResult{}, errors.New("no known cities selected")
	}

	conn, err := s.connector.Connect(ctx)
	if err != nil {
		return model.ReportResult{}, fmt.Errorf("%w: %v", feed.ErrUnavailable, err)
	}
	defer conn.Quit()

	loader := feed.NewLoader(conn, s.cfg.RemoteRoot, s.cfg.Dirs.Cache, logger)

	var lossTypes []model.LossType
	if req.Kind == model.KindLosses || req.Kind == model.KindDetailedLosses {
		// The loss-type table is global and anchors the cross product;
		// without it no loss report can be assembled at all.
		lossTypes, err = loader.LossTypes(ctx)
		if err != nil {
			return model.ReportResult{}, err
		}
	}

	var rows []model.ReportRow
	for _, city := range cities {
		shops, err := loader.Shops(ctx, city.Code)
		if err != nil {
			logger.Warn("city skipped, shop directory unavailable", zap.String("city", city.Code))
			continue
		}

		switch req.Kind {
		case model.KindSales:
			rows = append(rows, s.salesRows(ctx, loader, req, city, shops, dates, logger)...)
		case model.KindComparison:
			p1 := aggregateSales(
				loader.Receipts(ctx, city.Code, dates),
				loader.CartItems(ctx, city.Code, dates), logger)
			p2 := aggregateSales(
				loader.Receipts(ctx, city.Code, dates2),
				loader.CartItems(ctx, city.Code, dates2), logger)
			rows = append(rows, assembleComparison(city.Name, shops, p1, p2)...)
		case model.KindLosses, model.KindDetailedLosses:
			rows = append(rows, s.lossRows(ctx, loader, req, city, shops, lossTypes, dates, logger)...)
		default:
			return model.ReportResult{}, fmt.Errorf("unknown report kind %q", req.Kind)
		}
	}

	if len(req.GroupBy) > 0 && req.Kind != model.KindComparison {
		rows = collapseRows(rows,
			req.HasGroup("shop"),
			req.HasGroup("type") && (req.Kind == model.KindLosses || req.Kind == model.KindDetailedLosses),
			req.HasGroup("date"))
	}
	if req.Kind == model.KindDetailedLosses {
		rows = filterActive(rows)
	}

	sortRows(req.Kind, rows)

	result := model.ReportResult{
		RunID:   runID,
		Kind:    req.Kind,
		Rows:    rows,
		Summary: summarize(req.Kind, rows),
	}
	logger.Info("report generated",
		zap.Int("rows", len(result.Rows)),
		zap.Int("cities", len(cities)))
	return result, nil
}

// salesRows produces either the zero-filled per-shop aggregate or, when the
// request groups by date, per-day detail rows (which only cover shops with
// joined activity, as the feed carries no zero-activity detail).
func (s *reportService) salesRows(ctx context.Context, loader *feed.Loader, req model.ReportRequest, city config.City, shops []model.Shop, dates []string, logger *zap.Logger) []model.ReportRow {
	receipts := loader.Receipts(ctx, city.Code, dates)
	items := loader.CartItems(ctx, city.Code, dates)

	if !req.HasGroup("date") {
		agg := aggregateSales(receipts, items, logger)
		return assembleSales(city.Name, shops, agg)
	}

	names := shopNames(shops)
	var rows []model.ReportRow
	for _, date := range dates {
		agg := aggregateSales(filterReceipts(receipts, date), filterItems(items, date), logger)
		for _, shop := range shops {
			m, ok := agg[shop.ID]
			if !ok {
				continue
			}
			rows = append(rows, model.ReportRow{
				City:     city.Name,
				ShopID:   shop.ID,
				ShopName: names[shop.ID],
				Date:     date,
				Measure:  m,
			})
		}
	}
	return rows
}

func (s *reportService) lossRows(ctx context.Context, loader *feed.Loader, req model.ReportRequest, city config.City, shops []model.Shop, lossTypes []model.LossType, dates []string, logger *zap.Logger) []model.ReportRow {
	docs := loader.LossDocuments(ctx, city.Code, dates)
	products := loader.LossProducts(ctx, city.Code, dates)
	valid := make(map[string]bool, len(shops))
	for _, shop := range shops {
		valid[shop.ID] = true
	}

	if !req.HasGroup("date") {
		agg := aggregateLosses(docs, products, valid, logger)
		return assembleLosses(city.Name, shops, lossTypes, agg)
	}

	names := shopNames(shops)
	typeNames := make(map[string]string, len(lossTypes))
	for _, lt := range lossTypes {
		typeNames[lt.ID] = lt.Name
	}

	var rows []model.ReportRow
	for _, date := range dates {
		agg := aggregateLosses(filterDocs(docs, date), filterProducts(products, date), valid, logger)
		for _, shop := range shops {
			for _, lt := range lossTypes {
				m, ok := agg[lossKey{ShopID: shop.ID, TypeID: lt.ID}]
				if !ok {
					continue
				}
				rows = append(rows, model.ReportRow{
					City:         city.Name,
					ShopID:       shop.ID,
					ShopName:     names[shop.ID],
					LossTypeID:   lt.ID,
					LossTypeName: typeNames[lt.ID],
					Date:         date,
					Measure:      m,
				})
			}
		}
	}
	return rows
}

// selectCities resolves the request's city selector against the configured
// city table, preserving configuration order. Selectors match either the
// feed code or the display name; an empty selector means every city.
func (s *reportService) selectCities(selector []string) []config.City {
	if len(selector) == 0 {
		return s.cfg.Cities
	}
	wanted := make(map[string]bool, len(selector))
	for _, sel := range selector {
		wanted[sel] = true
	}
	var cities []config.City
	for _, city := range s.cfg.Cities {
		if wanted[city.Code] || wanted[city.Name] {
			cities = append(cities, city)
		}
	}
	return cities
}

func shopNames(shops []model.Shop) map[string]string {
	names := make(map[string]string, len(shops))
	for _, shop := range shops {
		names[shop.ID] = shop.Name
	}
	return names
}

func filterReceipts(in []model.Receipt, date string) []model.Receipt {
	var out []model.Receipt
	for _, r := range in {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out
}

func filterItems(in []model.CartItem, date string) []model.CartItem {
	var out []model.CartItem
	for _, it := range in {
		if it.Date == date {
			out = append(out, it)
		}
	}
	return out
}

func filterDocs(in []model.LossDocument, date string) []model.LossDocument {
	var out []model.LossDocument
	for _, d := range in {
		if d.Date == date {
			out = append(out, d)
		}
	}
	return out
}

func filterProducts(in []model.LossProduct, date string) []model.LossProduct {
	var out []model.LossProduct
	for _, p := range in {
		if p.Date == date {
			out = append(out, p)
		}
	}
	return out
}
