// Package aggregate folds canonical cash-flow records from all platforms
// into daily, monthly and total result tables. Daily cells are the only
// accumulation target; monthly and total tables are derived by re-summation
// so the roll-up invariant holds by construction. A cell distinguishes N/A
// (no contributing records) from a true zero sum.
package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nikosa/p2pflow/pkg/models"
)

// Cell maps cash-flow types to summed amounts. A type absent from the map
// is N/A: the platform never reported it in this bucket. A present zero is
// a true zero.
type Cell map[models.CashFlowType]decimal.Decimal

// Get returns the amount for t and whether the cell has data for it.
func (c Cell) Get(t models.CashFlowType) (decimal.Decimal, bool) {
	v, ok := c[t]
	return v, ok
}

func (c Cell) add(t models.CashFlowType, amount decimal.Decimal) {
	c[t] = c[t].Add(amount)
}

func (c Cell) clone() Cell {
	out := make(Cell, len(c))
	for t, v := range c {
		out[t] = v
	}
	return out
}

// DailyKey addresses one platform-day bucket.
type DailyKey struct {
	Platform string
	Date     time.Time
}

// MonthlyKey addresses one platform-month bucket.
type MonthlyKey struct {
	Platform string
	Month    models.Month
}

// ResultSet accumulates records for one evaluation run. It is filled
// incrementally from the orchestrator's single execution context; there are
// no concurrent writers. Parallelizing platform pipelines would require a
// writer lock around Fold.
type ResultSet struct {
	dateRange models.DateRange
	daily     map[DailyKey]Cell
	platforms map[string]struct{}
}

// New creates an empty result set for the given evaluation range.
func New(dateRange models.DateRange) *ResultSet {
	return &ResultSet{
		dateRange: dateRange,
		daily:     make(map[DailyKey]Cell),
		platforms: make(map[string]struct{}),
	}
}

// Fold accumulates records into the daily table. Folding is commutative and
// associative in record order. Records with an unknown cash-flow type
// contribute to no typed sum and are skipped; the platform still counts as
// folded so its rows appear in the output tables.
func (rs *ResultSet) Fold(platform string, records []models.Record) {
	rs.platforms[platform] = struct{}{}
	for _, rec := range records {
		if rec.Type.IsUnknown() || rec.Type == models.Ignore {
			continue
		}
		key := DailyKey{Platform: platform, Date: models.Day(rec.Date)}
		cell, ok := rs.daily[key]
		if !ok {
			cell = make(Cell)
			rs.daily[key] = cell
		}
		cell.add(rec.Type, rec.Amount)
	}
}

// Platforms lists all folded platforms in alphabetical order.
func (rs *ResultSet) Platforms() []string {
	names := make([]string, 0, len(rs.platforms))
	for name := range rs.platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Months lists every month of the evaluation range.
func (rs *ResultSet) Months() []models.Month {
	return rs.dateRange.Months()
}

// Daily returns the daily table with the derived total-income entry added
// to every cell that has at least one income contribution.
func (rs *ResultSet) Daily() map[DailyKey]Cell {
	out := make(map[DailyKey]Cell, len(rs.daily))
	for key, cell := range rs.daily {
		c := cell.clone()
		addTotalIncome(c)
		out[key] = c
	}
	return out
}

// Monthly derives the monthly table by re-summing daily cells. Every month
// of the evaluation range is materialized for every folded platform, so
// months without cash flows show up as all-N/A rows rather than vanishing.
func (rs *ResultSet) Monthly() map[MonthlyKey]Cell {
	out := make(map[MonthlyKey]Cell)
	for _, name := range rs.Platforms() {
		for _, month := range rs.Months() {
			out[MonthlyKey{Platform: name, Month: month}] = make(Cell)
		}
	}
	// Merge in date order so balance entries keep their positional meaning
	// regardless of map iteration order.
	keys := make([]DailyKey, 0, len(rs.daily))
	for key := range rs.daily {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Platform != keys[j].Platform {
			return keys[i].Platform < keys[j].Platform
		}
		return keys[i].Date.Before(keys[j].Date)
	})
	for _, key := range keys {
		mk := MonthlyKey{Platform: key.Platform, Month: models.MonthOf(key.Date)}
		target, ok := out[mk]
		if !ok {
			// Records outside the range were filtered by the parser, so
			// this only happens for callers folding raw data directly.
			target = make(Cell)
			out[mk] = target
		}
		mergeCell(target, rs.daily[key])
	}
	for _, cell := range out {
		addTotalIncome(cell)
	}
	return out
}

// Total derives the per-platform totals from the monthly table. Balances
// are not summed: the total start balance is the first month's and the
// total end balance the last month's, since summing balances across months
// is meaningless.
func (rs *ResultSet) Total() map[string]Cell {
	monthly := rs.Monthly()
	months := rs.Months()
	out := make(map[string]Cell)

	for _, name := range rs.Platforms() {
		total := make(Cell)
		for _, month := range months {
			cell := monthly[MonthlyKey{Platform: name, Month: month}]
			for t, v := range cell {
				if t.IsBalance() || t == models.TotalIncome {
					continue
				}
				total.add(t, v)
			}
		}
		// First month with a reported start balance, last with an end
		// balance.
		for _, month := range months {
			if v, ok := monthly[MonthlyKey{Platform: name, Month: month}][models.StartBalance]; ok {
				total[models.StartBalance] = v
				break
			}
		}
		for i := len(months) - 1; i >= 0; i-- {
			if v, ok := monthly[MonthlyKey{Platform: name, Month: months[i]}][models.EndBalance]; ok {
				total[models.EndBalance] = v
				break
			}
		}
		addTotalIncome(total)
		out[name] = total
	}
	return out
}

// mergeCell folds src into dst. Cash flows are summed. Balance entries keep
// positional meaning: callers merge in date order, so the first seen start
// balance and the last seen end balance win.
func mergeCell(dst, src Cell) {
	for t, v := range src {
		if t.IsBalance() {
			continue
		}
		dst.add(t, v)
	}
	if v, ok := src[models.StartBalance]; ok {
		if _, exists := dst[models.StartBalance]; !exists {
			dst[models.StartBalance] = v
		}
	}
	if v, ok := src[models.EndBalance]; ok {
		dst[models.EndBalance] = v
	}
}

// addTotalIncome computes the derived total-income entry from the income
// categories. The entry stays N/A when no income type has data.
func addTotalIncome(cell Cell) {
	var total decimal.Decimal
	seen := false
	for _, t := range models.IncomeTypes {
		if v, ok := cell[t]; ok {
			total = total.Add(v)
			seen = true
		}
	}
	if seen {
		cell[models.TotalIncome] = total
	}
}
