package ledger_test

import (
	"testing"

	"github.com/ufchem/factory-inventory/internal/domain/ledger"
)

func TestFilterByParty(t *testing.T) {
	rows := []ledger.Transaction{
		{ID: "PUR-001", PartyName: "ABC Chemicals", Type: ledger.TypePurchase},
		{ID: "SAL-001", PartyName: "Mehta Traders", Type: ledger.TypeSales},
		{ID: "BAT-001-OUT", Type: ledger.TypeBatchProduction},
		{ID: "PUR-002", PartyName: "ABC Chemicals", Type: ledger.TypePurchase},
	}

	got := ledger.FilterByParty(rows, "ABC Chemicals")
	if len(got) != 2 || got[0].ID != "PUR-001" || got[1].ID != "PUR-002" {
		t.Errorf("FilterByParty = %+v", got)
	}

	all := ledger.FilterByParties(rows, []string{"ABC Chemicals", "Mehta Traders"})
	if len(all) != 3 {
		t.Errorf("FilterByParties = %+v, want 3 rows", all)
	}
	if got := ledger.FilterByParties(rows, nil); len(got) != 0 {
		t.Errorf("no parties should match nothing, got %+v", got)
	}
}
