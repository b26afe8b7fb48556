package ledger

import "time"

type Type string

const (
	TypePurchase         Type = "Purchase"
	TypeSales            Type = "Sales"
	TypeBatchConsumption Type = "Batch_Consumption"
	TypeBatchProduction  Type = "Batch_Production"
	TypeMillStart        Type = "Mill_Start"
	TypeMillConsumption  Type = "Mill_Consumption"
	TypeMillProduction   Type = "Mill_Production"
	TypePotConsumption   Type = "Pot_Consumption"
	TypePotProduction    Type = "Pot_Production"
	TypeOpeningStock     Type = "Opening_Stock"
)

const (
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusInStock    = "In Stock"
	StatusStockIn    = "Stock In"
)

// LumpsItem is the synthetic item produced by batch entry and consumed by the mills.
const LumpsItem = "UF Lumps (Batches)"

// Transaction is one signed-quantity movement row. Quantity < 0 is
// consumption/outflow, > 0 is production/inflow; summing all rows for an
// item gives its stock on hand.
type Transaction struct {
	Date      time.Time
	Type      Type
	ID        string
	PartyName string
	ItemName  string
	Quantity  float64
	Unit      string
	BatchID   string
	MillID    string
	Status    string
	Notes     string
}

// FilterByParty returns the rows booked against one party name.
func FilterByParty(rows []Transaction, party string) []Transaction {
	var out []Transaction
	for _, r := range rows {
		if r.PartyName == party {
			out = append(out, r)
		}
	}
	return out
}

// FilterByParties returns the rows booked against any of the given parties.
func FilterByParties(rows []Transaction, parties []string) []Transaction {
	set := make(map[string]struct{}, len(parties))
	for _, p := range parties {
		set[p] = struct{}{}
	}
	var out []Transaction
	for _, r := range rows {
		if _, ok := set[r.PartyName]; ok {
			out = append(out, r)
		}
	}
	return out
}
