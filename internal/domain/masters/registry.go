package masters

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var header = []string{"Type", "Name"}

// Registry is the file-backed master list of recognized item and party
// names. Like the ledger, the whole set lives in memory and every
// mutation persists the full file.
type Registry struct {
	path    string
	log     *slog.Logger
	entries []Entry
}

// Open loads the master file at path, creating an empty one with the
// header row when none exists.
func Open(path string, log *slog.Logger) (*Registry, error) {
	r := &Registry{path: path, log: log}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := r.save(); err != nil {
			return nil, fmt.Errorf("create masters file: %w", err)
		}
		return r, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open masters file: %w", err)
	}
	defer func() { _ = f.Close() }()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read masters file: %w", err)
	}
	for i, rec := range records {
		if i == 0 || len(rec) < 2 {
			continue
		}
		r.entries = append(r.entries, Entry{Category: Category(rec[0]), Name: rec[1]})
	}
	return r, nil
}

// List returns the names in a category, deduplicated, in first-seen order.
func (r *Registry) List(cat Category) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range r.entries {
		if e.Category != cat {
			continue
		}
		if _, ok := seen[e.Name]; ok {
			continue
		}
		seen[e.Name] = struct{}{}
		out = append(out, e.Name)
	}
	return out
}

// Has reports whether name exists in the category (exact match).
func (r *Registry) Has(cat Category, name string) bool {
	for _, e := range r.entries {
		if e.Category == cat && e.Name == name {
			return true
		}
	}
	return false
}

// Add appends a new entry and persists. Returns DuplicateNameError when
// the name already exists in the category.
func (r *Registry) Add(cat Category, name string) error {
	if r.Has(cat, name) {
		return &DuplicateNameError{Category: cat, Name: name}
	}
	r.entries = append(r.entries, Entry{Category: cat, Name: name})
	if err := r.save(); err != nil {
		r.entries = r.entries[:len(r.entries)-1]
		return err
	}
	return nil
}

// Remove deletes the entry matching (cat, name) exactly and persists.
// Removing an absent entry is a no-op. Ledger rows referencing the name
// are left alone; a dangling name is an orphaned label, not an error.
func (r *Registry) Remove(cat Category, name string) error {
	prev := r.entries
	kept := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.Category == cat && e.Name == name {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) == len(prev) {
		return nil
	}
	r.entries = kept
	if err := r.save(); err != nil {
		r.entries = prev
		return err
	}
	return nil
}

// Search filters entries by a case-insensitive "starts with" match on the
// name. An empty prefix returns everything; an empty category searches all
// categories.
func (r *Registry) Search(cat Category, prefix string) []Entry {
	p := strings.ToLower(prefix)
	var out []Entry
	for _, e := range r.entries {
		if cat != "" && e.Category != cat {
			continue
		}
		if p != "" && !strings.HasPrefix(strings.ToLower(e.Name), p) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// All returns a snapshot of every entry in first-seen order.
func (r *Registry) All() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Registry) save() error {
	dir := filepath.Dir(r.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(dir, ".masters-*.csv")
	if err != nil {
		return fmt.Errorf("create temp masters file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write masters header: %w", err)
	}
	for _, e := range r.entries {
		if err := w.Write([]string{string(e.Category), e.Name}); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("write masters row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("flush masters file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp masters file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace masters file: %w", err)
	}
	return nil
}
