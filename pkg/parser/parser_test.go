package parser

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/nikosa/p2pflow/pkg/models"
	"github.com/nikosa/p2pflow/pkg/platform"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func testDescriptor() *platform.Descriptor {
	return &platform.Descriptor{
		Name:      "Testia",
		Currency:  "EUR",
		Format:    platform.FormatCSV,
		Delimiter: ',',
		Columns: platform.Columns{
			Date:  "Date",
			Label: "Type",
			Value: "Amount",
		},
		CashFlowTypes: map[string]models.CashFlowType{
			"Zinszahlungen":     models.Interest,
			"Tilgungszahlungen": models.RedemptionPayment,
			"Einzahlungen":      models.DepositOrOutpayment,
			"Intern":            models.Ignore,
		},
		DateFormat: "2006-01-02",
	}
}

func writeStatement(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

func testRange(t *testing.T) models.DateRange {
	t.Helper()
	r, err := models.NewDateRange(
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestParseStatement(t *testing.T) {
	path := writeStatement(t, "testia_statement.csv", `Date,Type,Amount
2020-01-15,Zinszahlungen,12.34
2020-01-16,Tilgungszahlungen,50.00
2020-01-17,Einzahlungen,-100.00
2020-01-18,Intern,999.00
2019-12-31,Zinszahlungen,1.00
`)

	st, err := New(testLogger()).Parse(testDescriptor(), path, testRange(t))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// The internal transfer is dropped and the December row filtered out.
	if len(st.Records) != 3 {
		t.Fatalf("got %d records, want 3: %v", len(st.Records), st.Records)
	}

	first := st.Records[0]
	if first.Type != models.Interest {
		t.Errorf("first record type = %s, want interest", first.Type)
	}
	if want := decimal.RequireFromString("12.34"); !first.Amount.Equal(want) {
		t.Errorf("first record amount = %v, want %v", first.Amount, want)
	}
	if first.Currency != "EUR" {
		t.Errorf("first record currency = %s, want EUR", first.Currency)
	}
	if !first.Date.Equal(time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first record date = %v", first.Date)
	}
	if len(st.UnknownLabels) != 0 {
		t.Errorf("unexpected unknown labels: %v", st.UnknownLabels)
	}
}

func TestParseUnknownLabel(t *testing.T) {
	path := writeStatement(t, "testia_statement.csv", `Date,Type,Amount
2020-01-15,XYZ-Bonus,12.34
`)

	st, err := New(testLogger()).Parse(testDescriptor(), path, testRange(t))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(st.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(st.Records))
	}
	rec := st.Records[0]
	if !rec.Type.IsUnknown() {
		t.Fatalf("record type = %s, want unknown", rec.Type)
	}
	if rec.Type.Label() != "XYZ-Bonus" {
		t.Errorf("unknown label = %q, want XYZ-Bonus", rec.Type.Label())
	}
	if len(st.UnknownLabels) != 1 || st.UnknownLabels[0] != "XYZ-Bonus" {
		t.Errorf("diagnostics = %v, want [XYZ-Bonus]", st.UnknownLabels)
	}
}

func TestParseMissingColumns(t *testing.T) {
	path := writeStatement(t, "testia_statement.csv", `Date,Kind,Value
2020-01-15,Zinszahlungen,12.34
`)

	_, err := New(testLogger()).Parse(testDescriptor(), path, testRange(t))
	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want MissingColumnsError", err)
	}
	if len(missing.Columns) != 2 {
		t.Errorf("missing columns = %v, want [Type Amount]", missing.Columns)
	}
}

func TestParseFileNotFound(t *testing.T) {
	_, err := New(testLogger()).Parse(testDescriptor(), filepath.Join(t.TempDir(), "nope.csv"), testRange(t))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("error = %v, want ErrFileNotFound", err)
	}
}

func TestParseUnsupportedFormat(t *testing.T) {
	path := writeStatement(t, "testia_statement.pdf", "%PDF-1.4")
	_, err := New(testLogger()).Parse(testDescriptor(), path, testRange(t))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestParseDecimalCommaAndInvertedSign(t *testing.T) {
	desc := testDescriptor()
	desc.Delimiter = ';'
	desc.DecimalComma = true
	desc.InvertSign = true

	path := writeStatement(t, "testia_statement.csv", strings.Join([]string{
		"Date;Type;Amount",
		"2020-01-15;Zinszahlungen;-1.234,50",
	}, "\n"))

	st, err := New(testLogger()).Parse(desc, path, testRange(t))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if want := decimal.RequireFromString("1234.50"); !st.Records[0].Amount.Equal(want) {
		t.Errorf("amount = %v, want %v", st.Records[0].Amount, want)
	}
}

func TestParseDateWithTimeOfDay(t *testing.T) {
	path := writeStatement(t, "testia_statement.csv", `Date,Type,Amount
2020-01-15 13:37:00,Zinszahlungen,1.00
`)

	st, err := New(testLogger()).Parse(testDescriptor(), path, testRange(t))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(st.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(st.Records))
	}
}

func TestBalanceReconciliationWarning(t *testing.T) {
	desc := testDescriptor()
	desc.Columns.Balance = "Balance"

	// Derived start balance is 100.00, cash flows sum to 22.34, but the
	// statement reports a closing balance of 132.34.
	path := writeStatement(t, "testia_statement.csv", `Date,Type,Amount,Balance
2020-01-15,Zinszahlungen,12.34,112.34
2020-01-16,Zinszahlungen,10.00,132.34
`)

	st, err := New(testLogger()).Parse(desc, path, testRange(t))
	if err != nil {
		t.Fatalf("parse must not fail on balance mismatch: %v", err)
	}
	if len(st.Warnings) != 1 {
		t.Fatalf("warnings = %v, want one balance mismatch", st.Warnings)
	}
	if !strings.Contains(st.Warnings[0], "balance") {
		t.Errorf("warning %q does not mention the balance", st.Warnings[0])
	}
}

func TestBalanceReconciliationClean(t *testing.T) {
	desc := testDescriptor()
	desc.Columns.Balance = "Balance"

	path := writeStatement(t, "testia_statement.csv", `Date,Type,Amount,Balance
2020-01-15,Zinszahlungen,12.34,112.34
2020-01-16,Tilgungszahlungen,50.00,162.34
`)

	st, err := New(testLogger()).Parse(desc, path, testRange(t))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(st.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", st.Warnings)
	}
}

func TestHeaderAndFooterRowsSkipped(t *testing.T) {
	desc := testDescriptor()
	desc.Columns.HeaderRows = 2
	desc.Columns.FooterRows = 1

	path := writeStatement(t, "testia_statement.csv", `Account statement,,
Generated 2020-02-01,,
Date,Type,Amount
2020-01-15,Zinszahlungen,12.34
Sum,,12.34
`)

	st, err := New(testLogger()).Parse(desc, path, testRange(t))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(st.Records) != 1 {
		t.Errorf("got %d records, want 1", len(st.Records))
	}
}

func TestParseCreditDebitColumns(t *testing.T) {
	desc := testDescriptor()
	desc.Columns.Value = ""
	desc.Columns.Credit = "Credit"
	desc.Columns.Debit = "Debit"

	path := writeStatement(t, "testia_statement.csv", `Date,Type,Credit,Debit
2020-01-15,Zinszahlungen,12.34,
2020-01-16,Einzahlungen,,100.00
2020-01-17,Tilgungszahlungen,50.00,0.50
`)

	st, err := New(testLogger()).Parse(desc, path, testRange(t))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(st.Records) != 3 {
		t.Fatalf("got %d records, want 3: %v", len(st.Records), st.Records)
	}

	// Credit minus debit, with empty cells counting as zero.
	for i, want := range []string{"12.34", "-100.00", "49.50"} {
		if w := decimal.RequireFromString(want); !st.Records[i].Amount.Equal(w) {
			t.Errorf("record %d amount = %v, want %v", i, st.Records[i].Amount, w)
		}
	}
}

func TestParseCreditDebitMissingColumn(t *testing.T) {
	desc := testDescriptor()
	desc.Columns.Value = ""
	desc.Columns.Credit = "Credit"
	desc.Columns.Debit = "Debit"

	path := writeStatement(t, "testia_statement.csv", `Date,Type,Credit
2020-01-15,Zinszahlungen,12.34
`)

	_, err := New(testLogger()).Parse(desc, path, testRange(t))
	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("Parse error = %v, want MissingColumnsError", err)
	}
	if len(missing.Columns) != 1 || missing.Columns[0] != "Debit" {
		t.Errorf("missing columns = %v, want [Debit]", missing.Columns)
	}
}

func TestBalanceLabelRows(t *testing.T) {
	desc := testDescriptor()
	desc.StartBalanceLabel = "Anfangssaldo"
	desc.EndBalanceLabel = "Endsaldo"

	path := writeStatement(t, "testia_statement.csv", `Date,Type,Amount
2020-01-01,Anfangssaldo,100.00
2020-01-15,Zinszahlungen,12.34
2020-01-31,Endsaldo,112.34
`)

	st, err := New(testLogger()).Parse(desc, path, testRange(t))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// The balance rows resolve through the descriptor labels, not the
	// cash-flow mapping, and reconcile cleanly.
	if len(st.UnknownLabels) != 0 {
		t.Errorf("balance rows reported as unknown labels: %v", st.UnknownLabels)
	}
	if len(st.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", st.Warnings)
	}
	if st.Records[0].Type != models.StartBalance {
		t.Errorf("first record type = %s, want start balance", st.Records[0].Type)
	}
	if st.Records[2].Type != models.EndBalance {
		t.Errorf("last record type = %s, want end balance", st.Records[2].Type)
	}
}

func TestBalanceLabelMismatchWarns(t *testing.T) {
	desc := testDescriptor()
	desc.StartBalanceLabel = "Anfangssaldo"
	desc.EndBalanceLabel = "Endsaldo"

	path := writeStatement(t, "testia_statement.csv", `Date,Type,Amount
2020-01-01,Anfangssaldo,100.00
2020-01-15,Zinszahlungen,12.34
2020-01-31,Endsaldo,120.00
`)

	st, err := New(testLogger()).Parse(desc, path, testRange(t))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(st.Warnings) != 1 {
		t.Errorf("got %d warnings, want 1: %v", len(st.Warnings), st.Warnings)
	}
}
