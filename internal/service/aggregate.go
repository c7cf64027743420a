package service

import (
	"go.uber.org/zap"

	"github.com/webdev1881/retail-ftp-2/internal/model"
)

// lossKey is the aggregation key for write-off reports. Sales reports key on
// the shop id alone. Keys never cross city boundaries: aggregation always
// runs on a single city's tables.
type lossKey struct {
	ShopID string
	TypeID string
}

// aggregateSales joins cart items to their parent receipts and accumulates
// per-shop measures for one city. Receipt counts come from the receipt table
// itself; a shop with receipts but no matching line items still gets
// count > 0 with zero amount and quantity. Orphaned items (no parent receipt
// in the loaded set) are dropped, inner-join style.
func aggregateSales(receipts []model.Receipt, items []model.CartItem, logger *zap.Logger) map[string]model.Measure {
	shopByReceipt := make(map[string]string, len(receipts))
	agg := make(map[string]model.Measure)

	for _, r := range receipts {
		shopByReceipt[r.ID] = r.ShopID
		m := measureAt(agg, r.ShopID)
		m.Count++
		agg[r.ShopID] = m
	}

	orphaned := 0
	for _, item := range items {
		shopID, ok := shopByReceipt[item.ReceiptID]
		if !ok {
			orphaned++
			continue
		}
		m := measureAt(agg, shopID)
		m.Amount = m.Amount.Add(item.TotalPrice)
		m.Qty = m.Qty.Add(item.Qty)
		agg[shopID] = m
	}
	if orphaned > 0 {
		logger.Info("dropped cart items without a matching receipt", zap.Int("count", orphaned))
	}
	return agg
}

// aggregateLosses accumulates per (shop, type) measures for one city.
// Documents whose shop_id is not in the city's shop reference are excluded
// first; their line items disappear with the join key. Document counts come
// from the document table, line-item sums from the inner join.
func aggregateLosses(docs []model.LossDocument, products []model.LossProduct, validShops map[string]bool, logger *zap.Logger) map[lossKey]model.Measure {
	keyByDoc := make(map[string]lossKey, len(docs))
	agg := make(map[lossKey]model.Measure)

	excluded := 0
	for _, doc := range docs {
		if !validShops[doc.ShopID] {
			excluded++
			continue
		}
		key := lossKey{ShopID: doc.ShopID, TypeID: doc.TypeID}
		keyByDoc[doc.ID] = key
		m := lossMeasureAt(agg, key)
		m.Count++
		agg[key] = m
	}
	if excluded > 0 {
		logger.Info("excluded loss documents with unknown shop_id", zap.Int("count", excluded))
	}

	orphaned := 0
	for _, p := range products {
		key, ok := keyByDoc[p.DocumentID]
		if !ok {
			orphaned++
			continue
		}
		m := lossMeasureAt(agg, key)
		m.Amount = m.Amount.Add(p.TotalPrice)
		m.Qty = m.Qty.Add(p.Qty)
		agg[key] = m
	}
	if orphaned > 0 {
		logger.Info("dropped loss products without a matching document", zap.Int("count", orphaned))
	}
	return agg
}

func measureAt(agg map[string]model.Measure, key string) model.Measure {
	if m, ok := agg[key]; ok {
		return m
	}
	return model.ZeroMeasure()
}

func lossMeasureAt(agg map[lossKey]model.Measure, key lossKey) model.Measure {
	if m, ok := agg[key]; ok {
		return m
	}
	return model.ZeroMeasure()
}
