package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/webdev1881/retail-ftp-2/internal/model"
)

// sortRows orders the final row set: cities ascending, then the
// report-specific measure descending. Detailed loss rows group by shop name
// first so a shop's types read together. Sorting is stable, so ties keep
// assembly (reference) order.
func sortRows(kind model.ReportKind, rows []model.ReportRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.City != b.City {
			return a.City < b.City
		}
		switch kind {
		case model.KindComparison:
			return a.Change.Amount.GreaterThan(b.Change.Amount)
		case model.KindDetailedLosses:
			if a.ShopName != b.ShopName {
				return a.ShopName < b.ShopName
			}
			return a.Measure.Amount.GreaterThan(b.Measure.Amount)
		default:
			return a.Measure.Amount.GreaterThan(b.Measure.Amount)
		}
	})
}

// filterActive drops rows where every measure is zero, keeping the full set
// when filtering would leave nothing: a period with genuinely no activity
// still produces a complete (all-zero) report rather than an empty one.
func filterActive(rows []model.ReportRow) []model.ReportRow {
	active := make([]model.ReportRow, 0, len(rows))
	for _, row := range rows {
		if !row.Measure.IsZero() {
			active = append(active, row)
		}
	}
	if len(active) == 0 {
		return rows
	}
	return active
}

// collapseRows re-groups assembled rows onto the requested dimensions,
// summing measures for rows that fall together. Used when the request drops
// the shop (or type) dimension from group_by.
func collapseRows(rows []model.ReportRow, byShop, byType, byDate bool) []model.ReportRow {
	type groupKey struct {
		city, shopID, typeID, date string
	}
	grouped := make(map[groupKey]*model.ReportRow)
	order := []groupKey{}

	for _, row := range rows {
		key := groupKey{city: row.City}
		if byShop {
			key.shopID = row.ShopID
		}
		if byType {
			key.typeID = row.LossTypeID
		}
		if byDate {
			key.date = row.Date
		}
		g, ok := grouped[key]
		if !ok {
			collapsed := row
			if !byShop {
				collapsed.ShopID, collapsed.ShopName = "", ""
			}
			if !byType {
				collapsed.LossTypeID, collapsed.LossTypeName = "", ""
			}
			if !byDate {
				collapsed.Date = ""
			}
			collapsed.Measure = model.ZeroMeasure()
			grouped[key] = &collapsed
			order = append(order, key)
			g = grouped[key]
		}
		g.Measure = g.Measure.Add(row.Measure)
	}

	out := make([]model.ReportRow, 0, len(order))
	for _, key := range order {
		out = append(out, *grouped[key])
	}
	return out
}

// summarize computes the presentation statistics shown alongside every
// report: grand totals, per-shop averages and the top-5 leaderboards.
func summarize(kind model.ReportKind, rows []model.ReportRow) model.SummaryStats {
	stats := model.SummaryStats{
		Rows:  len(rows),
		Total: model.ZeroMeasure(),
	}

	shopTotals := make(map[string]*model.LeaderEntry)
	shopOrder := []string{}
	typeTotals := make(map[string]*model.LeaderEntry)
	typeMeasures := make(map[string]model.Measure)
	typeOrder := []string{}
	cityTotals := make(map[string]*model.Rollup)
	cityOrder := []string{}
	cityShops := make(map[string]map[string]bool)

	for _, row := range rows {
		stats.Total = stats.Total.Add(row.Measure)

		shopKey := row.City + "\x00" + row.ShopID
		if _, ok := shopTotals[shopKey]; !ok {
			shopTotals[shopKey] = &model.LeaderEntry{Label: row.ShopName, City: row.City, Value: decimal.Zero}
			shopOrder = append(shopOrder, shopKey)
		}
		shopTotals[shopKey].Count += row.Measure.Count
		shopTotals[shopKey].Value = shopTotals[shopKey].Value.Add(row.Measure.Amount)

		if row.LossTypeID != "" {
			if _, ok := typeTotals[row.LossTypeID]; !ok {
				typeTotals[row.LossTypeID] = &model.LeaderEntry{Label: row.LossTypeName, Value: decimal.Zero}
				typeOrder = append(typeOrder, row.LossTypeID)
			}
			typeTotals[row.LossTypeID].Count += row.Measure.Count
			typeTotals[row.LossTypeID].Value = typeTotals[row.LossTypeID].Value.Add(row.Measure.Amount)
			if _, ok := typeMeasures[row.LossTypeID]; !ok {
				typeMeasures[row.LossTypeID] = model.ZeroMeasure()
			}
			typeMeasures[row.LossTypeID] = typeMeasures[row.LossTypeID].Add(row.Measure)
		}

		if _, ok := cityTotals[row.City]; !ok {
			cityTotals[row.City] = &model.Rollup{Label: row.City, Measure: model.ZeroMeasure()}
			cityOrder = append(cityOrder, row.City)
			cityShops[row.City] = make(map[string]bool)
		}
		cityTotals[row.City].Measure = cityTotals[row.City].Measure.Add(row.Measure)
		if row.ShopID != "" {
			cityShops[row.City][row.ShopID] = true
		}
	}

	shopEntries := make([]model.LeaderEntry, 0, len(shopOrder))
	for _, key := range shopOrder {
		shopEntries = append(shopEntries, *shopTotals[key])
	}
	stats.Shops = len(shopEntries)

	stats.TopByValue = topN(shopEntries, 5, func(a, b model.LeaderEntry) bool {
		return a.Value.GreaterThan(b.Value)
	})
	stats.TopByCount = topN(shopEntries, 5, func(a, b model.LeaderEntry) bool {
		return a.Count > b.Count
	})

	if kind == model.KindLosses || kind == model.KindDetailedLosses {
		typeEntries := make([]model.LeaderEntry, 0, len(typeOrder))
		for _, id := range typeOrder {
			if !typeTotals[id].Value.IsZero() || typeTotals[id].Count > 0 {
				typeEntries = append(typeEntries, *typeTotals[id])
			}
		}
		stats.TopLossTypes = topN(typeEntries, 5, func(a, b model.LeaderEntry) bool {
			return a.Value.GreaterThan(b.Value)
		})
		for _, id := range typeOrder {
			stats.TypeRollups = append(stats.TypeRollups, model.Rollup{
				Label:   typeTotals[id].Label,
				Measure: typeMeasures[id],
			})
		}
	}

	for _, city := range cityOrder {
		roll := *cityTotals[city]
		roll.Shops = len(cityShops[city])
		stats.CityRollups = append(stats.CityRollups, roll)
	}

	if stats.Shops > 0 {
		stats.AvgPerShop = stats.Total.Amount.Div(decimal.NewFromInt(int64(stats.Shops))).Round(2)
	} else {
		stats.AvgPerShop = decimal.Zero
	}
	if stats.Total.Count > 0 {
		stats.AvgPerDoc = stats.Total.Amount.Div(decimal.NewFromInt(stats.Total.Count)).Round(2)
	} else {
		stats.AvgPerDoc = decimal.Zero
	}
	return stats
}

func topN(entries []model.LeaderEntry, n int, more func(a, b model.LeaderEntry) bool) []model.LeaderEntry {
	ranked := make([]model.LeaderEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool { return more(ranked[i], ranked[j]) })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
