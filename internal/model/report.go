package model

import "github.com/shopspring/decimal"

// ReportKind selects which report the pipeline produces.
type ReportKind string

const (
	KindSales          ReportKind = "sales"
	KindLosses         ReportKind = "losses"
	KindComparison     ReportKind = "comparison"
	KindDetailedLosses ReportKind = "detailed_losses"
)

// Measure is the additive value set accumulated per aggregation key. Count is
// the number of parent documents (receipts or write-off documents), Amount and
// Qty are summed from the joined line items. Only ever incremented; inputs are
// non-negative so measures stay non-negative.
type Measure struct {
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
	Qty    decimal.Decimal `json:"qty"`
}

// ZeroMeasure returns a Measure with all values at zero. Decimal zero values
// are explicit so JSON output renders "0" rather than an empty struct.
func ZeroMeasure() Measure {
	return Measure{Amount: decimal.Zero, Qty: decimal.Zero}
}

// Add folds another measure into this one.
func (m Measure) Add(other Measure) Measure {
	return Measure{
		Count:  m.Count + other.Count,
		Amount: m.Amount.Add(other.Amount),
		Qty:    m.Qty.Add(other.Qty),
	}
}

// IsZero reports whether all three values are zero.
func (m Measure) IsZero() bool {
	return m.Count == 0 && m.Amount.IsZero() && m.Qty.IsZero()
}

// Delta holds the comparison of one measure across two periods.
type Delta struct {
	Count     int64           `json:"count"`
	Amount    decimal.Decimal `json:"amount"`
	Qty       decimal.Decimal `json:"qty"`
	CountPct  decimal.Decimal `json:"count_pct"`
	AmountPct decimal.Decimal `json:"amount_pct"`
	QtyPct    decimal.Decimal `json:"qty_pct"`
}

// ReportRow is one externally visible line of a report. LossType fields are
// set for loss reports only, Period2/Change for comparison reports only, Date
// only when the request grouped by date. Rows are built once by the assembler
// and never mutated afterwards.
type ReportRow struct {
	City         string   `json:"city"`
	ShopID       string   `json:"shop_id,omitempty"`
	ShopName     string   `json:"shop_name,omitempty"`
	LossTypeID   string   `json:"loss_type_id,omitempty"`
	LossTypeName string   `json:"loss_type_name,omitempty"`
	Date         string   `json:"date,omitempty"`
	Measure      Measure  `json:"measure"`
	Period2      *Measure `json:"period2,omitempty"`
	Change       *Delta   `json:"change,omitempty"`
}

// LeaderEntry is one line of a top-N leaderboard.
type LeaderEntry struct {
	Label string          `json:"label"`
	City  string          `json:"city,omitempty"`
	Count int64           `json:"count"`
	Value decimal.Decimal `json:"value"`
}

// Rollup is a per-city or per-loss-type subtotal.
type Rollup struct {
	Label   string  `json:"label"`
	Shops   int     `json:"shops,omitempty"`
	Measure Measure `json:"measure"`
}

// SummaryStats accompanies every report result: grand totals, simple
// averages and the top-5 leaderboards shown by both front ends.
type SummaryStats struct {
	Rows         int             `json:"rows"`
	Shops        int             `json:"shops"`
	Total        Measure         `json:"total"`
	AvgPerShop   decimal.Decimal `json:"avg_per_shop"`
	AvgPerDoc    decimal.Decimal `json:"avg_per_doc"`
	TopByValue   []LeaderEntry   `json:"top_by_value,omitempty"`
	TopByCount   []LeaderEntry   `json:"top_by_count,omitempty"`
	TopLossTypes []LeaderEntry   `json:"top_loss_types,omitempty"`
	CityRollups  []Rollup        `json:"city_rollups,omitempty"`
	TypeRollups  []Rollup        `json:"type_rollups,omitempty"`
}

// Period is one inclusive date range in ISO YYYY-MM-DD form.
type Period struct {
	Start string `json:"start_date"`
	End   string `json:"end_date"`
}

// ReportRequest is what both front ends hand to the report service.
// GroupBy is a subset of {city, shop, type, date}; empty means the kind's
// natural aggregation key (city+shop, or city+shop+type for losses). Adding
// "date" switches sales/losses to per-day detail rows, which are not
// zero-filled; dropping "shop" collapses rows to city totals.
type ReportRequest struct {
	Kind    ReportKind `json:"report_type"`
	Period  Period     `json:"period"`
	Period2 *Period    `json:"period2,omitempty"`
	Cities  []string   `json:"cities,omitempty"` // city codes; empty selects all configured cities
	GroupBy []string   `json:"group_by,omitempty"`
}

// HasGroup reports whether the request asked for the given grouping dimension.
func (r ReportRequest) HasGroup(dim string) bool {
	for _, g := range r.GroupBy {
		if g == dim {
			return true
		}
	}
	return false
}

// ReportResult is the complete outcome of one report run.
type ReportResult struct {
	RunID   string       `json:"run_id"`
	Kind    ReportKind   `json:"report_type"`
	Rows    []ReportRow  `json:"rows"`
	Summary SummaryStats `json:"summary"`
}
