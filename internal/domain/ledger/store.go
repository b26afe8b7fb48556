package ledger

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Header matches the persisted column order of the transactions file.
var Header = []string{
	"Date", "Type", "ID", "Party_Name", "Item_Name", "Quantity", "Unit",
	"Batch_ID", "Ball_Mill_ID", "Status", "Notes",
}

// Store is the file-backed transaction ledger. The whole set lives in
// memory; every mutation writes the full file back before returning.
// Single writer only — concurrent processes are not supported.
type Store struct {
	path string
	log  *slog.Logger
	rows []Transaction

	// Raw records whose date would not parse. They are excluded from All()
	// and from every computation, but re-emitted verbatim on save so a
	// corrupt row is never silently destroyed.
	quarantined [][]string
}

// Open loads the ledger at path, creating an empty file with the header
// row when none exists.
func Open(path string, log *slog.Logger) (*Store, error) {
	s := &Store{path: path, log: log}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.save(); err != nil {
			return nil, fmt.Errorf("create ledger file: %w", err)
		}
		return s, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read ledger file: %w", err)
	}

	for i, rec := range records {
		if i == 0 {
			continue // header
		}
		t, ok := s.parseRecord(rec)
		if !ok {
			s.quarantined = append(s.quarantined, rec)
			continue
		}
		s.rows = append(s.rows, t)
	}
	if len(s.quarantined) > 0 {
		log.Warn("ledger rows with unparseable dates quarantined",
			"file", path, "count", len(s.quarantined))
	}
	return s, nil
}

func (s *Store) parseRecord(rec []string) (Transaction, bool) {
	row := make([]string, len(Header))
	copy(row, rec)

	d, err := parseDate(row[0])
	if err != nil {
		return Transaction{}, false
	}

	qty, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
	if err != nil && strings.TrimSpace(row[5]) != "" {
		// Malformed quantities must not abort loading.
		s.log.Warn("malformed quantity coerced to zero", "id", row[2], "raw", row[5])
	}
	if err != nil {
		qty = 0
	}

	return Transaction{
		Date:      d,
		Type:      Type(row[1]),
		ID:        row[2],
		PartyName: row[3],
		ItemName:  row[4],
		Quantity:  qty,
		Unit:      row[6],
		BatchID:   row[7],
		MillID:    row[8],
		Status:    row[9],
		Notes:     row[10],
	}, true
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if d, err := time.Parse(dateLayout, raw); err == nil {
		return d, nil
	}
	// Older rows carry a time component; normalize to the bare date.
	if d, err := time.Parse("2006-01-02 15:04:05", raw); err == nil {
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

func record(t Transaction) []string {
	return []string{
		t.Date.Format(dateLayout),
		string(t.Type),
		t.ID,
		t.PartyName,
		t.ItemName,
		strconv.FormatFloat(t.Quantity, 'f', -1, 64),
		t.Unit,
		t.BatchID,
		t.MillID,
		t.Status,
		t.Notes,
	}
}

// All returns a snapshot of every parseable row in append order.
func (s *Store) All() []Transaction {
	out := make([]Transaction, len(s.rows))
	copy(out, s.rows)
	return out
}

// IDs returns the identifiers of all rows in append order.
func (s *Store) IDs() []string {
	ids := make([]string, len(s.rows))
	for i, r := range s.rows {
		ids[i] = r.ID
	}
	return ids
}

// Append adds rows to the ledger and persists the full set. Identifier
// uniqueness is the caller's responsibility.
func (s *Store) Append(rows ...Transaction) error {
	if len(rows) == 0 {
		return nil
	}
	before := len(s.rows)
	s.rows = append(s.rows, rows...)
	if err := s.save(); err != nil {
		s.rows = s.rows[:before]
		return err
	}
	return nil
}

// ReplaceSubset overwrites each stored row whose ID matches an edited row.
// Rows not present in edited are untouched; edited rows with unknown IDs
// are appended. Matching is by identifier, never by position.
func (s *Store) ReplaceSubset(edited []Transaction) error {
	if len(edited) == 0 {
		return nil
	}
	byID := make(map[string]int, len(s.rows))
	for i, r := range s.rows {
		byID[r.ID] = i
	}

	prev := s.All()
	var appended []Transaction
	for _, e := range edited {
		if i, ok := byID[e.ID]; ok {
			s.rows[i] = e
		} else {
			appended = append(appended, e)
		}
	}
	s.rows = append(s.rows, appended...)

	if err := s.save(); err != nil {
		s.rows = prev
		return err
	}
	return nil
}

// Delete removes the rows with the given identifiers and persists. Unknown
// identifiers are ignored.
func (s *Store) Delete(ids ...string) error {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	prev := s.rows
	kept := make([]Transaction, 0, len(s.rows))
	for _, r := range s.rows {
		if _, ok := drop[r.ID]; !ok {
			kept = append(kept, r)
		}
	}
	s.rows = kept
	if err := s.save(); err != nil {
		s.rows = prev
		return err
	}
	return nil
}

// OverwriteAll replaces the entire ledger content; used when the full
// unfiltered view was edited.
func (s *Store) OverwriteAll(rows []Transaction) error {
	prev := s.rows
	s.rows = make([]Transaction, len(rows))
	copy(s.rows, rows)
	if err := s.save(); err != nil {
		s.rows = prev
		return err
	}
	return nil
}

// save writes the full set to a temp file and renames it into place, so a
// reader never observes a partial file.
func (s *Store) save() error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(dir, ".ledger-*.csv")
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	w := csv.NewWriter(tmp)
	if err := w.Write(Header); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write ledger header: %w", err)
	}
	for _, r := range s.rows {
		if err := w.Write(record(r)); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("write ledger row %s: %w", r.ID, err)
		}
	}
	for _, rec := range s.quarantined {
		if err := w.Write(rec); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("write quarantined ledger row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("flush ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp ledger file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}
	return nil
}
