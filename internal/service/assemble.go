package service

import (
	"github.com/shopspring/decimal"

	"github.com/webdev1881/retail-ftp-2/internal/model"
)

var hundred = decimal.NewFromInt(100)

// assembleSales emits one row per reference shop, zero-filled when the shop
// had no activity. Row count always equals the shop directory size.
func assembleSales(cityName string, shops []model.Shop, agg map[string]model.Measure) []model.ReportRow {
	rows := make([]model.ReportRow, 0, len(shops))
	for _, shop := range shops {
		rows = append(rows, model.ReportRow{
			City:     cityName,
			ShopID:   shop.ID,
			ShopName: shop.Name,
			Measure:  measureAt(agg, shop.ID),
		})
	}
	return rows
}

// assembleLosses emits the full shop × loss-type cross product. A shop whose
// documents were all excluded upstream still appears, zero-filled: exclusion
// affects measures, never row presence.
func assembleLosses(cityName string, shops []model.Shop, types []model.LossType, agg map[lossKey]model.Measure) []model.ReportRow {
	rows := make([]model.ReportRow, 0, len(shops)*len(types))
	for _, shop := range shops {
		for _, lt := range types {
			rows = append(rows, model.ReportRow{
				City:         cityName,
				ShopID:       shop.ID,
				ShopName:     shop.Name,
				LossTypeID:   lt.ID,
				LossTypeName: lt.Name,
				Measure:      lossMeasureAt(agg, lossKey{ShopID: shop.ID, TypeID: lt.ID}),
			})
		}
	}
	return rows
}

// assembleComparison zips two period aggregations over the same shop
// reference, computing absolute and percent deltas. A percent change against
// a zero base is defined as zero, not infinity.
func assembleComparison(cityName string, shops []model.Shop, period1, period2 map[string]model.Measure) []model.ReportRow {
	rows := make([]model.ReportRow, 0, len(shops))
	for _, shop := range shops {
		p1 := measureAt(period1, shop.ID)
		p2 := measureAt(period2, shop.ID)

		countDelta := p2.Count - p1.Count
		amountDelta := p2.Amount.Sub(p1.Amount)
		qtyDelta := p2.Qty.Sub(p1.Qty)

		change := model.Delta{
			Count:     countDelta,
			Amount:    amountDelta,
			Qty:       qtyDelta,
			CountPct:  percentChange(decimal.NewFromInt(countDelta), decimal.NewFromInt(p1.Count)),
			AmountPct: percentChange(amountDelta, p1.Amount),
			QtyPct:    percentChange(qtyDelta, p1.Qty),
		}
		p2Copy := p2
		rows = append(rows, model.ReportRow{
			City:     cityName,
			ShopID:   shop.ID,
			ShopName: shop.Name,
			Measure:  p1,
			Period2:  &p2Copy,
			Change:   &change,
		})
	}
	return rows
}

func percentChange(delta, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return delta.Div(base).Mul(hundred)
}
