// Package export writes an aggregated result set as three CSV sheets:
// daily, monthly and total. Cells without data are written as the literal
// "N/A" so the distinction from a true zero survives into the output.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/nikosa/p2pflow/pkg/aggregate"
	"github.com/nikosa/p2pflow/pkg/models"
)

const naCell = "N/A"

// WriteResults writes daily.csv, monthly.csv and total.csv into dir.
func WriteResults(dir string, rs *aggregate.ResultSet) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	sheets := []struct {
		name  string
		write func(io.Writer, *aggregate.ResultSet) error
	}{
		{"daily.csv", WriteDaily},
		{"monthly.csv", WriteMonthly},
		{"total.csv", WriteTotal},
	}
	for _, sheet := range sheets {
		file, err := os.Create(filepath.Join(dir, sheet.name))
		if err != nil {
			return fmt.Errorf("creating %s: %w", sheet.name, err)
		}
		err = sheet.write(file, rs)
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", sheet.name, err)
		}
	}
	return nil
}

// WriteDaily writes the daily table, one row per platform and date.
func WriteDaily(w io.Writer, rs *aggregate.ResultSet) error {
	daily := rs.Daily()
	keys := make([]aggregate.DailyKey, 0, len(daily))
	for key := range daily {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Platform != keys[j].Platform {
			return keys[i].Platform < keys[j].Platform
		}
		return keys[i].Date.Before(keys[j].Date)
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(header("Date")); err != nil {
		return err
	}
	for _, key := range keys {
		row := []string{key.Platform, key.Date.Format("2006-01-02")}
		row = append(row, cells(daily[key])...)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMonthly writes the monthly table, one row per platform and month of
// the evaluation range.
func WriteMonthly(w io.Writer, rs *aggregate.ResultSet) error {
	monthly := rs.Monthly()

	cw := csv.NewWriter(w)
	if err := cw.Write(header("Month")); err != nil {
		return err
	}
	for _, name := range rs.Platforms() {
		for _, month := range rs.Months() {
			cell := monthly[aggregate.MonthlyKey{Platform: name, Month: month}]
			row := []string{name, month.String()}
			row = append(row, cells(cell)...)
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTotal writes one row per platform covering the whole range.
func WriteTotal(w io.Writer, rs *aggregate.ResultSet) error {
	total := rs.Total()

	cw := csv.NewWriter(w)
	if err := cw.Write(header("")); err != nil {
		return err
	}
	for _, name := range rs.Platforms() {
		row := []string{name, ""}
		row = append(row, cells(total[name])...)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func header(bucket string) []string {
	row := []string{"Platform", bucket}
	for _, t := range models.ResultTypes {
		row = append(row, string(t))
	}
	return row
}

func cells(cell aggregate.Cell) []string {
	row := make([]string, 0, len(models.ResultTypes))
	for _, t := range models.ResultTypes {
		if v, ok := cell.Get(t); ok {
			row = append(row, v.StringFixed(2))
		} else {
			row = append(row, naCell)
		}
	}
	return row
}
