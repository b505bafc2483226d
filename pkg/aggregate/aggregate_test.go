package aggregate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nikosa/p2pflow/pkg/models"
)

func mustRange(t *testing.T, start, end string) models.DateRange {
	t.Helper()
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		t.Fatal(err)
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		t.Fatal(err)
	}
	r, err := models.NewDateRange(s, e)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func rec(platform, date string, cfType models.CashFlowType, amount string) models.Record {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return models.Record{
		Platform: platform,
		Date:     d,
		Currency: "EUR",
		Type:     cfType,
		Amount:   decimal.RequireFromString(amount),
	}
}

func TestSingleInterestPayment(t *testing.T) {
	rs := New(mustRange(t, "2020-01-01", "2020-01-31"))
	rs.Fold("P", []models.Record{rec("P", "2020-01-15", models.Interest, "12.34")})

	want := decimal.RequireFromString("12.34")

	daily := rs.Daily()
	day := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	got, ok := daily[DailyKey{Platform: "P", Date: day}].Get(models.Interest)
	if !ok || !got.Equal(want) {
		t.Errorf("daily interest = %v (present %v), want %v", got, ok, want)
	}

	monthly := rs.Monthly()
	got, ok = monthly[MonthlyKey{Platform: "P", Month: models.Month{Year: 2020, Month: time.January}}].Get(models.Interest)
	if !ok || !got.Equal(want) {
		t.Errorf("monthly interest = %v (present %v), want %v", got, ok, want)
	}

	got, ok = rs.Total()["P"].Get(models.Interest)
	if !ok || !got.Equal(want) {
		t.Errorf("total interest = %v (present %v), want %v", got, ok, want)
	}
}

func TestRollUpInvariant(t *testing.T) {
	rs := New(mustRange(t, "2020-01-01", "2020-03-31"))
	rs.Fold("P", []models.Record{
		rec("P", "2020-01-02", models.Interest, "1.10"),
		rec("P", "2020-01-15", models.Interest, "2.20"),
		rec("P", "2020-01-15", models.RedemptionPayment, "50.00"),
		rec("P", "2020-02-01", models.Interest, "3.30"),
		rec("P", "2020-03-31", models.LateFeePayment, "0.05"),
		rec("P", "2020-03-31", models.Interest, "-0.50"),
	})
	rs.Fold("Q", []models.Record{
		rec("Q", "2020-02-14", models.Investment, "-100.00"),
		rec("Q", "2020-02-28", models.Buyback, "20.00"),
	})

	daily := rs.Daily()
	monthly := rs.Monthly()
	total := rs.Total()

	for mk, mcell := range monthly {
		for _, cfType := range models.ResultTypes {
			if cfType.IsBalance() || cfType == models.TotalIncome {
				continue
			}
			var sum decimal.Decimal
			present := false
			for dk, dcell := range daily {
				if dk.Platform != mk.Platform || models.MonthOf(dk.Date) != mk.Month {
					continue
				}
				if v, ok := dcell.Get(cfType); ok {
					sum = sum.Add(v)
					present = true
				}
			}
			mv, mok := mcell.Get(cfType)
			if mok != present {
				t.Fatalf("%v %s: monthly present=%v, daily present=%v", mk, cfType, mok, present)
			}
			if present && !mv.Equal(sum) {
				t.Errorf("%v %s: monthly %v != daily sum %v", mk, cfType, mv, sum)
			}
		}
	}

	for name, tcell := range total {
		for _, cfType := range models.ResultTypes {
			if cfType.IsBalance() || cfType == models.TotalIncome {
				continue
			}
			var sum decimal.Decimal
			present := false
			for mk, mcell := range monthly {
				if mk.Platform != name {
					continue
				}
				if v, ok := mcell.Get(cfType); ok {
					sum = sum.Add(v)
					present = true
				}
			}
			tv, tok := tcell.Get(cfType)
			if tok != present {
				t.Fatalf("%s %s: total present=%v, monthly present=%v", name, cfType, tok, present)
			}
			if present && !tv.Equal(sum) {
				t.Errorf("%s %s: total %v != monthly sum %v", name, cfType, tv, sum)
			}
		}
	}
}

func TestOrderIndependence(t *testing.T) {
	records := []models.Record{
		rec("P", "2020-01-02", models.Interest, "1.10"),
		rec("P", "2020-01-15", models.Interest, "2.20"),
		rec("P", "2020-01-15", models.RedemptionPayment, "50.00"),
		rec("P", "2020-02-01", models.DepositOrOutpayment, "-75.00"),
		rec("P", "2020-02-20", models.LateFeePayment, "0.30"),
		rec("P", "2020-01-01", models.StartBalance, "100.00"),
		rec("P", "2020-02-29", models.EndBalance, "78.60"),
	}
	dateRange := mustRange(t, "2020-01-01", "2020-02-29")

	reference := New(dateRange)
	reference.Fold("P", records)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]models.Record(nil), records...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		rs := New(dateRange)
		rs.Fold("P", shuffled)

		assertCellsEqual(t, reference.Daily(), rs.Daily())
		assertMonthlyEqual(t, reference.Monthly(), rs.Monthly())
		assertTotalEqual(t, reference.Total(), rs.Total())
	}
}

func assertCellsEqual(t *testing.T, want, got map[DailyKey]Cell) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("daily table size %d, want %d", len(got), len(want))
	}
	for key, wcell := range want {
		assertCellEqual(t, wcell, got[key])
	}
}

func assertMonthlyEqual(t *testing.T, want, got map[MonthlyKey]Cell) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("monthly table size %d, want %d", len(got), len(want))
	}
	for key, wcell := range want {
		assertCellEqual(t, wcell, got[key])
	}
}

func assertTotalEqual(t *testing.T, want, got map[string]Cell) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("total table size %d, want %d", len(got), len(want))
	}
	for key, wcell := range want {
		assertCellEqual(t, wcell, got[key])
	}
}

func assertCellEqual(t *testing.T, want, got Cell) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("cell has %d entries, want %d (%v vs %v)", len(got), len(want), got, want)
	}
	for cfType, wv := range want {
		gv, ok := got.Get(cfType)
		if !ok {
			t.Fatalf("cell is missing %s", cfType)
		}
		if !gv.Equal(wv) {
			t.Errorf("cell[%s] = %v, want %v", cfType, gv, wv)
		}
	}
}

func TestNAUnlessReported(t *testing.T) {
	rs := New(mustRange(t, "2020-01-01", "2020-01-31"))
	rs.Fold("P", []models.Record{
		rec("P", "2020-01-15", models.Interest, "1.00"),
		rec("P", "2020-01-15", models.Default, "0"),
	})

	cell := rs.Total()["P"]
	if _, ok := cell.Get(models.LateFeePayment); ok {
		t.Error("late fee payment should be N/A, platform never reported it")
	}
	v, ok := cell.Get(models.Default)
	if !ok {
		t.Fatal("defaults should be a true zero, the platform reported a row")
	}
	if !v.IsZero() {
		t.Errorf("defaults = %v, want 0", v)
	}
}

func TestUnknownTypesContributeNothing(t *testing.T) {
	rs := New(mustRange(t, "2020-01-01", "2020-01-31"))
	rs.Fold("P", []models.Record{
		rec("P", "2020-01-15", models.Unknown("XYZ-Bonus"), "12.34"),
	})

	daily := rs.Daily()
	day := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	if cell, ok := daily[DailyKey{Platform: "P", Date: day}]; ok && len(cell) > 0 {
		t.Errorf("unknown type contributed to typed sums: %v", cell)
	}
	// The platform still counts as folded.
	if names := rs.Platforms(); len(names) != 1 || names[0] != "P" {
		t.Errorf("platforms = %v, want [P]", names)
	}
}

func TestEmptyMonthsMaterialized(t *testing.T) {
	rs := New(mustRange(t, "2020-01-01", "2020-03-31"))
	rs.Fold("P", []models.Record{rec("P", "2020-01-15", models.Interest, "1.00")})

	monthly := rs.Monthly()
	feb := MonthlyKey{Platform: "P", Month: models.Month{Year: 2020, Month: time.February}}
	cell, ok := monthly[feb]
	if !ok {
		t.Fatal("february row should exist even without cash flows")
	}
	if len(cell) != 0 {
		t.Errorf("february cells should all be N/A, got %v", cell)
	}
}

func TestTotalIncomeDerived(t *testing.T) {
	rs := New(mustRange(t, "2020-01-01", "2020-01-31"))
	rs.Fold("P", []models.Record{
		rec("P", "2020-01-10", models.Interest, "2.00"),
		rec("P", "2020-01-10", models.LateFeePayment, "0.50"),
		rec("P", "2020-01-10", models.RedemptionPayment, "99.00"),
	})

	got, ok := rs.Total()["P"].Get(models.TotalIncome)
	if !ok {
		t.Fatal("total income should be present")
	}
	if want := decimal.RequireFromString("2.50"); !got.Equal(want) {
		t.Errorf("total income = %v, want %v", got, want)
	}
}

func TestBalancesNotSummedInTotal(t *testing.T) {
	rs := New(mustRange(t, "2020-01-01", "2020-02-29"))
	rs.Fold("P", []models.Record{
		rec("P", "2020-01-01", models.StartBalance, "100.00"),
		rec("P", "2020-01-31", models.EndBalance, "110.00"),
		rec("P", "2020-02-01", models.StartBalance, "110.00"),
		rec("P", "2020-02-29", models.EndBalance, "120.00"),
	})

	total := rs.Total()["P"]
	start, _ := total.Get(models.StartBalance)
	end, _ := total.Get(models.EndBalance)
	if want := decimal.RequireFromString("100.00"); !start.Equal(want) {
		t.Errorf("total start balance = %v, want %v", start, want)
	}
	if want := decimal.RequireFromString("120.00"); !end.Equal(want) {
		t.Errorf("total end balance = %v, want %v", end, want)
	}
}
