package feed

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/webdev1881/retail-ftp-2/internal/csvtable"
	"github.com/webdev1881/retail-ftp-2/internal/model"
)

// Loader obtains decoded feed tables through the fetch boundary and converts
// them into typed records. Per-file failures (missing remote file, transfer
// error, undecodable payload) are logged and contribute nothing; only
// reference tables escalate, via ErrMissingReference.
type Loader struct {
	fetcher    Fetcher
	remoteRoot string
	cacheDir   string
	logger     *zap.Logger
}

func NewLoader(fetcher Fetcher, remoteRoot, cacheDir string, logger *zap.Logger) *Loader {
	return &Loader{fetcher: fetcher, remoteRoot: remoteRoot, cacheDir: cacheDir, logger: logger}
}

// Remote file family naming. Reference tables are not date-scoped.
func (l *Loader) shopPaths(city string) (string, string) {
	name := fmt.Sprintf("shop_%s.csv", city)
	return path.Join(l.remoteRoot, name), filepath.Join(l.cacheDir, name)
}

func (l *Loader) lossTypePaths() (string, string) {
	return path.Join(l.remoteRoot, "losstype.csv"), filepath.Join(l.cacheDir, "losstype.csv")
}

func (l *Loader) datedPaths(entity, city, date string) (string, string) {
	name := fmt.Sprintf("%s_%s_%s.csv", entity, city, date)
	return path.Join(l.remoteRoot, entity, name), filepath.Join(l.cacheDir, name)
}

// table fetches and decodes one file. The second return is false when the
// file is unavailable for any absorbed reason.
func (l *Loader) table(ctx context.Context, remote, local string) (*csvtable.Table, bool) {
	outcome, err := l.fetcher.Fetch(ctx, remote, local)
	switch outcome {
	case OutcomeNotFound:
		l.logger.Info("feed file not found", zap.String("remote", remote))
		return nil, false
	case OutcomeTransferError:
		l.logger.Warn("feed file transfer failed", zap.String("remote", remote), zap.Error(err))
		return nil, false
	}

	f, err := os.Open(local)
	if err != nil {
		l.logger.Warn("cannot open cached file", zap.String("local", local), zap.Error(err))
		return nil, false
	}
	defer f.Close()

	tab, err := csvtable.Decode(f)
	if err != nil {
		l.logger.Warn("undecodable feed file, treated as absent",
			zap.String("local", local), zap.Error(err))
		return nil, false
	}
	return tab, true
}

// Shops loads one city's shop directory. Its absence makes the whole city
// unreportable, so it surfaces as ErrMissingReference.
func (l *Loader) Shops(ctx context.Context, city string) ([]model.Shop, error) {
	remote, local := l.shopPaths(city)
	tab, ok := l.table(ctx, remote, local)
	if !ok {
		return nil, fmt.Errorf("shops for city %s: %w", city, ErrMissingReference)
	}
	shops := make([]model.Shop, 0, tab.Len())
	for i := 0; i < tab.Len(); i++ {
		shops = append(shops, model.Shop{
			ID:       tab.Cell(i, "id"),
			Name:     tab.Cell(i, "name"),
			CityCode: city,
		})
	}
	return shops, nil
}

// LossTypes loads the global write-off type reference, required for every
// loss report.
func (l *Loader) LossTypes(ctx context.Context) ([]model.LossType, error) {
	remote, local := l.lossTypePaths()
	tab, ok := l.table(ctx, remote, local)
	if !ok {
		return nil, fmt.Errorf("loss types: %w", ErrMissingReference)
	}
	types := make([]model.LossType, 0, tab.Len())
	for i := 0; i < tab.Len(); i++ {
		types = append(types, model.LossType{
			ID:   tab.Cell(i, "id"),
			Name: tab.Cell(i, "name"),
		})
	}
	return types, nil
}

// Receipts loads every available receipt file for the city over the given
// dates, tagging rows with their source date. Missing dates are skipped; a
// city with no available files yields an empty, non-nil slice.
func (l *Loader) Receipts(ctx context.Context, city string, dates []string) []model.Receipt {
	receipts := []model.Receipt{}
	for _, date := range dates {
		remote, local := l.datedPaths("receipt", city, date)
		tab, ok := l.table(ctx, remote, local)
		if !ok {
			continue
		}
		for i := 0; i < tab.Len(); i++ {
			receipts = append(receipts, model.Receipt{
				ID:     tab.Cell(i, "id"),
				ShopID: tab.Cell(i, "shop_id"),
				Date:   date,
			})
		}
	}
	return receipts
}

// CartItems loads the sale line items for the city over the given dates.
func (l *Loader) CartItems(ctx context.Context, city string, dates []string) []model.CartItem {
	items := []model.CartItem{}
	for _, date := range dates {
		remote, local := l.datedPaths("cartitem", city, date)
		tab, ok := l.table(ctx, remote, local)
		if !ok {
			continue
		}
		for i := 0; i < tab.Len(); i++ {
			items = append(items, model.CartItem{
				ReceiptID:  tab.Cell(i, "receipt_id"),
				Qty:        tab.Decimal(i, "qty"),
				TotalPrice: tab.Decimal(i, "total_price"),
				Date:       date,
			})
		}
	}
	return items
}

// LossDocuments loads the write-off documents for the city over the given dates.
func (l *Loader) LossDocuments(ctx context.Context, city string, dates []string) []model.LossDocument {
	docs := []model.LossDocument{}
	for _, date := range dates {
		remote, local := l.datedPaths("loss", city, date)
		tab, ok := l.table(ctx, remote, local)
		if !ok {
			continue
		}
		for i := 0; i < tab.Len(); i++ {
			docs = append(docs, model.LossDocument{
				ID:     tab.Cell(i, "id"),
				ShopID: tab.Cell(i, "shop_id"),
				TypeID: tab.Cell(i, "type_id"),
				Date:   date,
			})
		}
	}
	return docs
}

// LossProducts loads the write-off line items for the city over the given dates.
func (l *Loader) LossProducts(ctx context.Context, city string, dates []string) []model.LossProduct {
	products := []model.LossProduct{}
	for _, date := range dates {
		remote, local := l.datedPaths("lossproduct", city, date)
		tab, ok := l.table(ctx, remote, local)
		if !ok {
			continue
		}
		for i := 0; i < tab.Len(); i++ {
			products = append(products, model.LossProduct{
				DocumentID: tab.Cell(i, "document_id"),
				Qty:        tab.Decimal(i, "qty"),
				TotalPrice: tab.Decimal(i, "total_price"),
				Date:       date,
			})
		}
	}
	return products
}
