// Package mill derives ball-mill occupancy from the transaction ledger.
// A mill has no persisted state of its own: whether it is open, and what
// is currently inside it, is reconstructed from its rows on every query.
package mill

import (
	"math"
	"sort"
	"time"

	"github.com/ufchem/factory-inventory/internal/domain/ledger"
)

// Content is one line of an open mill's derived contents. Quantity is the
// absolute value of the underlying row: contents describe what is inside,
// even though consumption rows are negative in the ledger.
type Content struct {
	Date     time.Time
	Item     string
	Quantity float64
	Unit     string
}

// Status is the derived occupancy of the configured mill pool. Open and
// Available are disjoint and together cover every configured mill, in
// configured order.
type Status struct {
	Open      []string
	Available []string
	Contents  map[string][]Content
}

// Occupancy scans the ledger and classifies every configured mill. A mill
// with no rows is available; otherwise it is available when its
// chronologically last row is a Mill_Production row or carries status
// Completed, and open in every other case.
func Occupancy(rows []ledger.Transaction, mills []string) Status {
	st := Status{Contents: make(map[string][]Content)}
	byMill := make(map[string][]ledger.Transaction)
	for _, r := range rows {
		if r.MillID != "" {
			byMill[r.MillID] = append(byMill[r.MillID], r)
		}
	}

	for _, m := range mills {
		mr := byMill[m]
		// Ledger dates carry no time component, so same-date rows keep
		// their append order; the stable sort only moves rows across dates.
		sort.SliceStable(mr, func(i, j int) bool {
			return mr[i].Date.Before(mr[j].Date)
		})

		if len(mr) == 0 || closed(mr[len(mr)-1]) {
			st.Available = append(st.Available, m)
			continue
		}
		st.Open = append(st.Open, m)
		st.Contents[m] = contents(mr)
	}
	return st
}

func closed(last ledger.Transaction) bool {
	return last.Type == ledger.TypeMillProduction || last.Status == ledger.StatusCompleted
}

// contents rebuilds what is inside an open mill: every row from the most
// recent Mill_Start onward. Earlier start/finish cycles of the same mill
// are ignored.
func contents(mr []ledger.Transaction) []Content {
	start := 0
	for i := len(mr) - 1; i >= 0; i-- {
		if mr[i].Type == ledger.TypeMillStart {
			start = i
			break
		}
	}
	out := make([]Content, 0, len(mr)-start)
	for _, r := range mr[start:] {
		out = append(out, Content{
			Date:     r.Date,
			Item:     r.ItemName,
			Quantity: math.Abs(r.Quantity),
			Unit:     r.Unit,
		})
	}
	return out
}

// IsAvailable reports whether the named mill can accept a new start.
func IsAvailable(rows []ledger.Transaction, mills []string, name string) bool {
	st := Occupancy(rows, mills)
	for _, m := range st.Available {
		if m == name {
			return true
		}
	}
	return false
}

// IsOpen reports whether the named mill has an in-progress charge.
func IsOpen(rows []ledger.Transaction, mills []string, name string) bool {
	st := Occupancy(rows, mills)
	for _, m := range st.Open {
		if m == name {
			return true
		}
	}
	return false
}
