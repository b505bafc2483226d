// Package parser maps one downloaded raw statement file onto the canonical
// cash-flow model using the platform descriptor's column mapping. Parsing is
// all-or-nothing per platform: the result is either a complete record
// sequence plus diagnostics, or a single terminal error.
package parser

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/nikosa/p2pflow/pkg/models"
	"github.com/nikosa/p2pflow/pkg/platform"
)

// balanceTolerance absorbs the rounding platforms apply to reported
// balances.
var balanceTolerance = decimal.NewFromFloat(0.01)

// Statement is the parsed, normalized form of one raw statement file.
type Statement struct {
	Platform string
	Records  []models.Record
	// UnknownLabels lists the cash-flow labels the descriptor mapping did
	// not recognize, sorted and de-duplicated. The matching records carry
	// an unknown type and are excluded from typed sums, but kept for
	// reporting.
	UnknownLabels []string
	// Warnings carries non-fatal findings, currently only balance
	// reconciliation mismatches.
	Warnings []string
}

type Parser struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse reads the statement at path and produces canonical records for all
// rows inside dateRange.
func (p *Parser) Parse(desc *platform.Descriptor, path string, dateRange models.DateRange) (*Statement, error) {
	rows, err := readTable(desc, path)
	if err != nil {
		return nil, err
	}

	rows = trim(rows, desc.Columns.HeaderRows, desc.Columns.FooterRows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: statement has no header row", desc.Name)
	}

	cols, err := resolveColumns(desc, rows[0])
	if err != nil {
		return nil, err
	}

	st := &Statement{Platform: desc.Name}
	unknown := make(map[string]struct{})
	var sum decimal.Decimal
	var startBalance, endBalance *decimal.Decimal

	for i, row := range rows[1:] {
		if empty(row) {
			continue
		}
		cell := func(idx int) string {
			if idx < 0 || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		date, err := parseDate(cell(cols.date), desc.DateFormat)
		if err != nil {
			p.logger.Debug("skipping row without parsable date",
				"platform", desc.Name, "row", i+1, "value", cell(cols.date))
			continue
		}
		if !dateRange.Contains(date) {
			continue
		}

		amount, err := rowAmount(desc, cell, cols)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", desc.Name, i+1, err)
		}
		if desc.InvertSign {
			amount = amount.Neg()
		}

		currency := desc.Currency
		if cols.currency >= 0 {
			if c := cell(cols.currency); c != "" {
				currency = c
			}
		}

		label := cell(cols.label)
		var cfType models.CashFlowType
		switch {
		case desc.StartBalanceLabel != "" && label == desc.StartBalanceLabel:
			cfType = models.StartBalance
		case desc.EndBalanceLabel != "" && label == desc.EndBalanceLabel:
			cfType = models.EndBalance
		default:
			var ok bool
			cfType, ok = desc.CashFlowTypes[label]
			if !ok {
				cfType = models.Unknown(label)
				unknown[label] = struct{}{}
			}
		}
		if cfType == models.Ignore {
			continue
		}

		rec := models.Record{
			Platform: desc.Name,
			Date:     models.Day(date),
			Currency: currency,
			Type:     cfType,
			Amount:   amount,
		}
		st.Records = append(st.Records, rec)

		switch {
		case cfType == models.StartBalance:
			if startBalance == nil {
				v := amount
				startBalance = &v
			}
		case cfType == models.EndBalance:
			v := amount
			endBalance = &v
		case !cfType.IsUnknown():
			sum = sum.Add(amount)
		}
	}

	if cols.balance >= 0 && startBalance == nil && endBalance == nil {
		start, end, ok := p.balancesFromColumn(desc, rows[1:], cols)
		if ok {
			startBalance, endBalance = &start, &end
		}
	}

	if startBalance != nil && endBalance != nil {
		expected := startBalance.Add(sum)
		if expected.Sub(*endBalance).Abs().GreaterThan(balanceTolerance) {
			warning := fmt.Sprintf(
				"%s: end balance %s does not match start balance %s plus cash flows %s",
				desc.Name, endBalance.StringFixed(2), startBalance.StringFixed(2), sum.StringFixed(2))
			p.logger.Warn("balance mismatch", "platform", desc.Name,
				"start", startBalance.StringFixed(2), "end", endBalance.StringFixed(2),
				"sum", sum.StringFixed(2))
			st.Warnings = append(st.Warnings, warning)
		}
	}

	for label := range unknown {
		st.UnknownLabels = append(st.UnknownLabels, label)
	}
	sort.Strings(st.UnknownLabels)

	p.logger.Debug("parsed statement", "platform", desc.Name,
		"records", len(st.Records), "unknown_labels", len(st.UnknownLabels))
	return st, nil
}

// columns holds resolved cell indices; optional columns are -1.
type columns struct {
	date     int
	label    int
	value    int
	credit   int
	debit    int
	currency int
	balance  int
}

func resolveColumns(desc *platform.Descriptor, header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	lookup := func(name string) int {
		if name == "" {
			return -1
		}
		if i, ok := index[name]; ok {
			return i
		}
		return -2
	}

	cols := columns{
		date:     lookup(desc.Columns.Date),
		label:    lookup(desc.Columns.Label),
		value:    lookup(desc.Columns.Value),
		credit:   lookup(desc.Columns.Credit),
		debit:    lookup(desc.Columns.Debit),
		currency: lookup(desc.Columns.Currency),
		balance:  lookup(desc.Columns.Balance),
	}

	var missing []string
	for _, req := range desc.Columns.Required() {
		if lookup(req) == -2 {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return columns{}, &MissingColumnsError{Platform: desc.Name, Columns: missing}
	}
	// An absent optional balance column just disables reconciliation.
	if cols.balance == -2 {
		cols.balance = -1
	}
	if cols.currency == -2 {
		cols.currency = -1
	}
	return cols, nil
}

// rowAmount reads one row's amount, merging separate credit and debit
// columns into a single signed value when the descriptor maps no value
// column. Empty credit and debit cells count as zero.
func rowAmount(desc *platform.Descriptor, cell func(int) string, cols columns) (decimal.Decimal, error) {
	if cols.value >= 0 {
		v, err := parseAmount(cell(cols.value), desc.DecimalComma)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("bad amount %q: %w", cell(cols.value), err)
		}
		return v, nil
	}

	optional := func(idx int) (decimal.Decimal, error) {
		v := cell(idx)
		if v == "" {
			return decimal.Zero, nil
		}
		d, err := parseAmount(v, desc.DecimalComma)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("bad amount %q: %w", v, err)
		}
		return d, nil
	}
	credit, err := optional(cols.credit)
	if err != nil {
		return decimal.Decimal{}, err
	}
	debit, err := optional(cols.debit)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return credit.Sub(debit), nil
}

// balancesFromColumn derives start and end balances from the running balance
// column: the opening balance is the first row's balance minus its amount,
// the closing balance the last row's balance.
func (p *Parser) balancesFromColumn(desc *platform.Descriptor, dataRows [][]string, cols columns) (start, end decimal.Decimal, ok bool) {
	var first, last []string
	for _, row := range dataRows {
		if empty(row) || cols.balance >= len(row) {
			continue
		}
		if strings.TrimSpace(row[cols.balance]) == "" {
			continue
		}
		if first == nil {
			first = row
		}
		last = row
	}
	if first == nil {
		return start, end, false
	}

	cell := func(row []string) func(int) string {
		return func(idx int) string {
			if idx < 0 || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
	}
	firstBalance, err1 := parseAmount(cell(first)(cols.balance), desc.DecimalComma)
	firstAmount, err2 := rowAmount(desc, cell(first), cols)
	lastBalance, err3 := parseAmount(cell(last)(cols.balance), desc.DecimalComma)
	if err1 != nil || err2 != nil || err3 != nil {
		return start, end, false
	}
	if desc.InvertSign {
		firstAmount = firstAmount.Neg()
	}
	return firstBalance.Sub(firstAmount), lastBalance, true
}

func trim(rows [][]string, header, footer int) [][]string {
	if header > 0 {
		if header >= len(rows) {
			return nil
		}
		rows = rows[header:]
	}
	if footer > 0 {
		if footer >= len(rows) {
			return nil
		}
		rows = rows[:len(rows)-footer]
	}
	return rows
}

func empty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseDate accepts the descriptor layout as-is and, for statements that
// append a time of day, the layout applied to the first whitespace-separated
// token.
func parseDate(value, layout string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(layout, value); err == nil {
		return t, nil
	}
	if i := strings.IndexByte(value, ' '); i > 0 {
		return time.Parse(layout, value[:i])
	}
	return time.Time{}, fmt.Errorf("date %q does not match layout %q", value, layout)
}

// parseAmount normalizes platform number formats: currency symbols and
// spaces are stripped, thousands separators removed and an optional decimal
// comma converted.
func parseAmount(value string, decimalComma bool) (decimal.Decimal, error) {
	s := strings.Map(func(r rune) rune {
		switch r {
		case ' ', ' ', '€', '$', '£':
			return -1
		}
		return r
	}, value)

	if decimalComma {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(s)
}
