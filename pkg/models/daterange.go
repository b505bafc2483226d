package models

import (
	"fmt"
	"time"
)

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// First returns the first day of the month.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Last returns the last day of the month.
func (m Month) Last() time.Time {
	return m.First().AddDate(0, 1, -1)
}

// Next returns the following month.
func (m Month) Next() Month {
	return MonthOf(m.First().AddDate(0, 1, 0))
}

// Before reports whether m is earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// DateRange is a whole-month evaluation range. Start must be the first day
// of a month and End the last day of a month; partial months are not
// supported.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange validates and builds a whole-month date range.
func NewDateRange(start, end time.Time) (DateRange, error) {
	start = Day(start)
	end = Day(end)
	if start.Day() != 1 {
		return DateRange{}, fmt.Errorf("start date %s is not the first day of a month", start.Format("2006-01-02"))
	}
	if last := MonthOf(end).Last(); !end.Equal(last) {
		return DateRange{}, fmt.Errorf("end date %s is not the last day of a month", end.Format("2006-01-02"))
	}
	if end.Before(start) {
		return DateRange{}, fmt.Errorf("end date %s before start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return DateRange{Start: start, End: end}, nil
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Months lists every calendar month in the range in chronological order.
func (r DateRange) Months() []Month {
	var months []Month
	last := MonthOf(r.End)
	for m := MonthOf(r.Start); ; m = m.Next() {
		months = append(months, m)
		if m == last {
			break
		}
	}
	return months
}

func (r DateRange) String() string {
	return r.Start.Format("20060102") + "-" + r.End.Format("20060102")
}
