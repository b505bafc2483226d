package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is a canonical cash flow entry normalized from a platform statement
// row. Amounts are sign-normalized so that positive means inflow to the
// investor. Records are immutable once produced by the parser.
type Record struct {
	Platform string
	Date     time.Time
	Currency string
	Type     CashFlowType
	Amount   decimal.Decimal
}

// Day truncates the record date to day precision in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
