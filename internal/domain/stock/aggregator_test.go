package stock_test

import (
	"testing"
	"time"

	"github.com/ufchem/factory-inventory/internal/domain/ledger"
	"github.com/ufchem/factory-inventory/internal/domain/stock"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func find(lines []stock.Line, item string) (stock.Line, bool) {
	for _, l := range lines {
		if l.Item == item {
			return l, true
		}
	}
	return stock.Line{}, false
}

func TestBalancedMovementsSumToZero(t *testing.T) {
	rows := []ledger.Transaction{
		{Date: day("2026-08-01"), Type: ledger.TypePurchase, ID: "PUR-001", ItemName: "Urea", Quantity: 40},
		{Date: day("2026-08-02"), Type: ledger.TypeSales, ID: "SAL-001", ItemName: "Urea", Quantity: -40},
	}
	rep := stock.ClosingStock(rows, day("2026-08-02"), []string{"Urea"})
	l, ok := find(rep.RawMaterials, "Urea")
	if !ok {
		t.Fatalf("Urea missing from raw materials: %+v", rep)
	}
	if l.Quantity != 0 {
		t.Errorf("net = %v, want 0", l.Quantity)
	}
}

func TestAsOfExcludesLaterRows(t *testing.T) {
	rows := []ledger.Transaction{
		{Date: day("2026-08-01"), ID: "PUR-001", ItemName: "Urea", Quantity: 40},
		{Date: day("2026-08-10"), ID: "PUR-002", ItemName: "Urea", Quantity: 60},
	}
	rep := stock.ClosingStock(rows, day("2026-08-05"), []string{"Urea"})
	l, _ := find(rep.RawMaterials, "Urea")
	if l.Quantity != 40 {
		t.Errorf("as-of total = %v, want 40", l.Quantity)
	}

	// On-the-day rows count.
	rep = stock.ClosingStock(rows, day("2026-08-10"), []string{"Urea"})
	l, _ = find(rep.RawMaterials, "Urea")
	if l.Quantity != 100 {
		t.Errorf("inclusive as-of total = %v, want 100", l.Quantity)
	}
}

func TestPartitionIsCompleteAndDisjoint(t *testing.T) {
	rows := []ledger.Transaction{
		{Date: day("2026-08-01"), ID: "PUR-001", ItemName: "Urea", Quantity: 40},
		{Date: day("2026-08-02"), ID: "BAT-001-OUT", ItemName: ledger.LumpsItem, Quantity: 3},
		{Date: day("2026-08-03"), ID: "FIN-1", ItemName: "Grade A", Quantity: 20},
	}
	rep := stock.ClosingStock(rows, time.Time{}, []string{"Urea"})

	for _, item := range []string{"Urea", ledger.LumpsItem, "Grade A"} {
		_, inRaw := find(rep.RawMaterials, item)
		_, inFin := find(rep.Finished, item)
		if inRaw == inFin {
			t.Errorf("%q: inRaw=%v inFinished=%v, want exactly one bucket", item, inRaw, inFin)
		}
	}
	if _, ok := find(rep.RawMaterials, "Urea"); !ok {
		t.Errorf("Urea should be a raw material")
	}
	if _, ok := find(rep.Finished, "Grade A"); !ok {
		t.Errorf("Grade A should be finished stock")
	}
}

func TestItemsWithoutRowsAreAbsent(t *testing.T) {
	rep := stock.ClosingStock(nil, time.Time{}, []string{"Urea"})
	if len(rep.RawMaterials) != 0 || len(rep.Finished) != 0 {
		t.Errorf("empty ledger produced lines: %+v", rep)
	}
}

func TestLevel(t *testing.T) {
	rows := []ledger.Transaction{
		{Date: day("2026-08-01"), ID: "OPN-001", ItemName: "Urea", Quantity: 100},
		{Date: day("2026-08-02"), ID: "BAT-001-IN-0", ItemName: "Urea", Quantity: -30},
		{Date: day("2026-08-02"), ID: "BAT-001-OUT", ItemName: ledger.LumpsItem, Quantity: 2},
	}
	if got := stock.Level(rows, time.Time{}, "Urea"); got != 70 {
		t.Errorf("Level(Urea) = %v, want 70", got)
	}
	if got := stock.Level(rows, time.Time{}, "Never Seen"); got != 0 {
		t.Errorf("Level(absent) = %v, want 0", got)
	}
}
