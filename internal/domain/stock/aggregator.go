package stock

import (
	"time"

	"github.com/ufchem/factory-inventory/internal/domain/ledger"
)

// Line is one item with its summed stock level.
type Line struct {
	Item     string
	Quantity float64
}

// Report partitions closing stock into raw materials and everything else
// (grades, lumps, pot-mix outputs).
type Report struct {
	RawMaterials []Line
	Finished     []Line
}

// ClosingStock sums signed quantities per item over rows dated on or
// before asOf. A zero asOf disables the cutoff. Items with no rows are not
// emitted; within each bucket items keep first-seen order.
func ClosingStock(rows []ledger.Transaction, asOf time.Time, materials []string) Report {
	matSet := make(map[string]struct{}, len(materials))
	for _, m := range materials {
		matSet[m] = struct{}{}
	}

	totals := make(map[string]float64)
	var order []string
	for _, r := range rows {
		if !asOf.IsZero() && r.Date.After(asOf) {
			continue
		}
		if _, ok := totals[r.ItemName]; !ok {
			order = append(order, r.ItemName)
		}
		totals[r.ItemName] += r.Quantity
	}

	var rep Report
	for _, item := range order {
		line := Line{Item: item, Quantity: totals[item]}
		if _, ok := matSet[item]; ok {
			rep.RawMaterials = append(rep.RawMaterials, line)
		} else {
			rep.Finished = append(rep.Finished, line)
		}
	}
	return rep
}

// Level returns the closing-stock quantity of a single item, zero when the
// item has no rows.
func Level(rows []ledger.Transaction, asOf time.Time, item string) float64 {
	var total float64
	for _, r := range rows {
		if r.ItemName != item {
			continue
		}
		if !asOf.IsZero() && r.Date.After(asOf) {
			continue
		}
		total += r.Quantity
	}
	return total
}
