// Package recording holds the business rules that turn a user action into
// signed ledger rows. Every workflow validates first and appends fully
// formed rows in one call, so a failure never leaves a partial entry.
package recording

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ufchem/factory-inventory/internal/domain/ledger"
	"github.com/ufchem/factory-inventory/internal/domain/masters"
	"github.com/ufchem/factory-inventory/internal/domain/mill"
	"github.com/ufchem/factory-inventory/internal/infra/metrics"
)

// ValidationError reports invalid workflow input: missing selections,
// non-positive quantities, unknown master names, or a mill in the wrong
// occupancy state. The workflow appends nothing.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

type Service struct {
	ledger  *ledger.Store
	masters *masters.Registry
	mills   []string
	ids     ledger.IDGenerator
	metrics *metrics.Set
	log     *slog.Logger

	now func() time.Time
}

func New(ls *ledger.Store, reg *masters.Registry, mills []string,
	ids ledger.IDGenerator, m *metrics.Set, log *slog.Logger) *Service {

	return &Service{
		ledger: ls, masters: reg, mills: mills,
		ids: ids, metrics: m, log: log,
		now: time.Now,
	}
}

func (s *Service) append(rows ...ledger.Transaction) error {
	if err := s.ledger.Append(rows...); err != nil {
		return err
	}
	if s.metrics != nil {
		for _, r := range rows {
			s.metrics.TransactionsAppended.WithLabelValues(string(r.Type)).Inc()
		}
	}
	s.RefreshGauges()
	return nil
}

// RefreshGauges recomputes the ledger-size and open-mill gauges.
func (s *Service) RefreshGauges() {
	if s.metrics == nil {
		return
	}
	rows := s.ledger.All()
	s.metrics.LedgerRows.Set(float64(len(rows)))
	s.metrics.OpenMills.Set(float64(len(mill.Occupancy(rows, s.mills).Open)))
}

func (s *Service) tsToken() string {
	return strconv.FormatInt(s.now().Unix(), 10)
}

func (s *Service) knownMill(name string) bool {
	for _, m := range s.mills {
		if m == name {
			return true
		}
	}
	return false
}

// Purchase records one positive-quantity row against a supplier.
func (s *Service) Purchase(date time.Time, supplier, item string, qty float64, unit, notes string) error {
	if !s.masters.Has(masters.CategorySupplier, supplier) {
		return invalid("unknown supplier %q", supplier)
	}
	if !s.masters.Has(masters.CategoryMaterial, item) {
		return invalid("unknown material %q", item)
	}
	if qty <= 0 {
		return invalid("purchase quantity must be > 0")
	}
	if unit == "" {
		unit = "Kg"
	}
	return s.append(ledger.Transaction{
		Date:      date,
		Type:      ledger.TypePurchase,
		ID:        s.ids.Next(s.ledger.IDs(), "PUR"),
		PartyName: supplier,
		ItemName:  item,
		Quantity:  qty,
		Unit:      unit,
		Status:    ledger.StatusInStock,
		Notes:     notes,
	})
}

// Sale records one negative-quantity row against a customer.
func (s *Service) Sale(date time.Time, customer, grade string, bags float64) error {
	if !s.masters.Has(masters.CategoryCustomer, customer) {
		return invalid("unknown customer %q", customer)
	}
	if !s.masters.Has(masters.CategoryGrade, grade) {
		return invalid("unknown grade %q", grade)
	}
	if bags <= 0 {
		return invalid("bags sold must be > 0")
	}
	return s.append(ledger.Transaction{
		Date:      date,
		Type:      ledger.TypeSales,
		ID:        s.ids.Next(s.ledger.IDs(), "SAL"),
		PartyName: customer,
		ItemName:  grade,
		Quantity:  -bags,
		Unit:      "Bags",
	})
}

// BatchInput is one raw-material line of a batch or pot entry. Inputs with
// zero or negative quantity are skipped, but keep their slot in the
// -IN-<n> identifier numbering.
type BatchInput struct {
	Item     string
	Quantity float64
}

// BatchProduction consumes raw materials and produces UF lumps. An empty
// batchID is filled from the BAT sequence. Appends nothing when
// batchesMade is not positive.
func (s *Service) BatchProduction(date time.Time, batchID string, inputs []BatchInput, batchesMade float64) error {
	if batchesMade <= 0 {
		return invalid("batches made must be > 0")
	}
	for _, in := range inputs {
		if in.Quantity > 0 && !s.masters.Has(masters.CategoryMaterial, in.Item) {
			return invalid("unknown material %q", in.Item)
		}
	}
	if batchID == "" {
		batchID = s.ids.Next(s.ledger.IDs(), "BAT")
	}

	var rows []ledger.Transaction
	for i, in := range inputs {
		if in.Quantity <= 0 {
			continue
		}
		rows = append(rows, ledger.Transaction{
			Date:     date,
			Type:     ledger.TypeBatchConsumption,
			ID:       fmt.Sprintf("%s-IN-%d", batchID, i),
			ItemName: in.Item,
			Quantity: -in.Quantity,
			Unit:     "Kg/L",
			BatchID:  batchID,
		})
	}
	rows = append(rows, ledger.Transaction{
		Date:     date,
		Type:     ledger.TypeBatchProduction,
		ID:       batchID + "-OUT",
		ItemName: ledger.LumpsItem,
		Quantity: batchesMade,
		Unit:     "Batches",
		BatchID:  batchID,
	})
	return s.append(rows...)
}

// MillStart loads UF lumps into an available mill and opens it.
func (s *Service) MillStart(date time.Time, millName string, batches float64) error {
	if !s.knownMill(millName) {
		return invalid("unknown mill %q", millName)
	}
	if batches <= 0 {
		return invalid("batches to load must be > 0")
	}
	if !mill.IsAvailable(s.ledger.All(), s.mills, millName) {
		return invalid("%s is already running", millName)
	}
	return s.append(ledger.Transaction{
		Date:     date,
		Type:     ledger.TypeMillStart,
		ID:       "MIL-" + s.tsToken(),
		ItemName: ledger.LumpsItem,
		Quantity: -batches,
		Unit:     "Batches",
		MillID:   millName,
		Status:   ledger.StatusInProgress,
	})
}

// MillAdd consumes extra material (zinc, masala) into an open mill.
func (s *Service) MillAdd(date time.Time, millName, item string, qty float64) error {
	if !s.knownMill(millName) {
		return invalid("unknown mill %q", millName)
	}
	if !s.masters.Has(masters.CategoryMaterial, item) {
		return invalid("unknown material %q", item)
	}
	if qty <= 0 {
		return invalid("quantity must be > 0")
	}
	if !mill.IsOpen(s.ledger.All(), s.mills, millName) {
		return invalid("%s is not running", millName)
	}
	return s.append(ledger.Transaction{
		Date:     date,
		Type:     ledger.TypeMillConsumption,
		ID:       "ADD-" + s.tsToken(),
		ItemName: item,
		Quantity: -qty,
		Unit:     "Kg",
		MillID:   millName,
	})
}

// MillFinish closes an open mill, producing bags of a finished grade.
func (s *Service) MillFinish(date time.Time, millName, grade string, bags float64) error {
	if !s.knownMill(millName) {
		return invalid("unknown mill %q", millName)
	}
	if !s.masters.Has(masters.CategoryGrade, grade) {
		return invalid("unknown grade %q", grade)
	}
	if bags <= 0 {
		return invalid("bags produced must be > 0")
	}
	if !mill.IsOpen(s.ledger.All(), s.mills, millName) {
		return invalid("%s is not running", millName)
	}
	return s.append(ledger.Transaction{
		Date:     date,
		Type:     ledger.TypeMillProduction,
		ID:       "FIN-" + s.tsToken(),
		ItemName: grade,
		Quantity: bags,
		Unit:     "Bags",
		MillID:   millName,
		Status:   ledger.StatusCompleted,
	})
}

// potUnit infers the unit of a pot-mix line: lumps are counted in batches,
// everything else in Kg/L.
func potUnit(item string) string {
	if item == ledger.LumpsItem {
		return "Batches"
	}
	return "Kg/L"
}

// PotMix consumes any mix of materials, grades and lumps and produces an
// output blend. Blank or non-positive inputs are skipped; the production
// row is appended only when outputQty is positive.
func (s *Service) PotMix(date time.Time, potID string, inputs []BatchInput, outputItem string, outputQty float64) error {
	var kept []int
	for i, in := range inputs {
		if strings.TrimSpace(in.Item) == "" || in.Quantity <= 0 {
			continue
		}
		if in.Item != ledger.LumpsItem &&
			!s.masters.Has(masters.CategoryMaterial, in.Item) &&
			!s.masters.Has(masters.CategoryGrade, in.Item) {
			return invalid("unknown item %q", in.Item)
		}
		kept = append(kept, i)
	}
	if len(kept) == 0 && outputQty <= 0 {
		return invalid("nothing to record")
	}
	if outputQty > 0 && strings.TrimSpace(outputItem) == "" {
		return invalid("output item required")
	}
	if potID == "" {
		potID = s.ids.Next(s.ledger.IDs(), "POT")
	}

	var rows []ledger.Transaction
	for _, i := range kept {
		in := inputs[i]
		rows = append(rows, ledger.Transaction{
			Date:     date,
			Type:     ledger.TypePotConsumption,
			ID:       fmt.Sprintf("%s-IN-%d", potID, i),
			ItemName: in.Item,
			Quantity: -in.Quantity,
			Unit:     potUnit(in.Item),
			BatchID:  potID,
		})
	}
	if outputQty > 0 {
		rows = append(rows, ledger.Transaction{
			Date:     date,
			Type:     ledger.TypePotProduction,
			ID:       potID + "-OUT",
			ItemName: outputItem,
			Quantity: outputQty,
			Unit:     potUnit(outputItem),
			BatchID:  potID,
		})
	}
	return s.append(rows...)
}

// AddMasterEntry registers a new master name and, for materials and
// grades with a positive opening quantity, seeds an Opening_Stock row.
func (s *Service) AddMasterEntry(cat masters.Category, name string, openingQty float64) error {
	if strings.TrimSpace(name) == "" {
		return invalid("name required")
	}
	if err := s.masters.Add(cat, name); err != nil {
		return err
	}
	if openingQty <= 0 || (cat != masters.CategoryMaterial && cat != masters.CategoryGrade) {
		return nil
	}
	unit := "Kg"
	if cat == masters.CategoryGrade {
		unit = "Bags"
	}
	today := s.now()
	err := s.append(ledger.Transaction{
		Date:     time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC),
		Type:     ledger.TypeOpeningStock,
		ID:       s.ids.Next(s.ledger.IDs(), "OPN"),
		ItemName: name,
		Quantity: openingQty,
		Unit:     unit,
		Status:   ledger.StatusStockIn,
		Notes:    "Initial Balance",
	})
	if err != nil {
		// The master row was already persisted; take it back out so a
		// failed workflow leaves both datasets unchanged.
		if rbErr := s.masters.Remove(cat, name); rbErr != nil {
			s.log.Error("opening stock rollback failed", "name", name, "err", rbErr)
		}
		return err
	}
	return nil
}
