package collection

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"garage/internal/catalog"
	"garage/internal/logging"
	"garage/internal/tabular"
)

var (
	// ErrUnknownToy means the toy number has no entry in the master catalog.
	ErrUnknownToy = errors.New("toy number not in catalog")
	// ErrInvalidQuantity means a creation path was asked for a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrNotFound means a mutation targeted a ledger row that does not exist.
	ErrNotFound = errors.New("model not in collection")
)

// Ledger is the mutable store of owned models. Every mutation validates
// against the master catalog where required, then runs one serialized
// load-mutate-save cycle on the underlying store.
type Ledger struct {
	store   *tabular.Store
	catalog *catalog.Index
	logger  *slog.Logger
}

// NewLedger binds the ledger to its store and the master catalog index.
func NewLedger(store *tabular.Store, index *catalog.Index, logger *slog.Logger) *Ledger {
	return &Ledger{
		store:   store,
		catalog: index,
		logger:  logging.NewComponentLogger(logger, "collection"),
	}
}

// Store exposes the underlying ledger store for admin operations.
func (l *Ledger) Store() *tabular.Store {
	return l.store
}

// MergeAdd accumulates delta onto the ledger row identified by the master
// record's (toy number, image URL) pair, appending a new row when none
// matches. The resulting quantity never drops below 1 on this path.
func (l *Ledger) MergeAdd(toyNumber string, delta int) (tabular.Record, error) {
	if delta < 1 {
		return tabular.Record{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, delta)
	}

	master, ok, err := l.catalog.Lookup(toyNumber)
	if err != nil {
		return tabular.Record{}, fmt.Errorf("catalog lookup: %w", err)
	}
	if !ok {
		return tabular.Record{}, fmt.Errorf("%w: %s", ErrUnknownToy, strings.TrimSpace(toyNumber))
	}

	var result tabular.Record
	err = l.store.Update(func(rows []tabular.Record) ([]tabular.Record, bool, error) {
		for i := range rows {
			if rows[i].SameItem(master) {
				rows[i].Quantity = floorOne(rows[i].Quantity + delta)
				result = rows[i]
				return rows, true, nil
			}
		}
		row := master
		row.Quantity = floorOne(delta)
		result = row
		return append(rows, row), true, nil
	})
	if err != nil {
		return tabular.Record{}, err
	}

	l.logger.Debug("merged model into collection",
		logging.String("toy_number", result.ToyNumber),
		logging.Int("quantity", result.Quantity))
	return result, nil
}

// AdjustQuantity shifts the quantity of the first row with exactly that toy
// number, flooring the result at 1. Unlike MergeAdd, matching ignores the
// image URL.
func (l *Ledger) AdjustQuantity(toyNumber string, delta int) (int, error) {
	var newQuantity int
	err := l.store.Update(func(rows []tabular.Record) ([]tabular.Record, bool, error) {
		for i := range rows {
			if rows[i].ToyNumber == toyNumber {
				rows[i].Quantity = floorOne(rows[i].Quantity + delta)
				newQuantity = rows[i].Quantity
				return rows, true, nil
			}
		}
		return rows, false, fmt.Errorf("%w: %s", ErrNotFound, toyNumber)
	})
	if err != nil {
		return 0, err
	}
	return newQuantity, nil
}

// Remove deletes every row with exactly that toy number. It reports whether
// anything was removed; the file is only rewritten when the row count changed.
func (l *Ledger) Remove(toyNumber string) (bool, error) {
	removed := false
	err := l.store.Update(func(rows []tabular.Record) ([]tabular.Record, bool, error) {
		kept := rows[:0]
		for _, row := range rows {
			if row.ToyNumber == toyNumber {
				continue
			}
			kept = append(kept, row)
		}
		removed = len(kept) != len(rows)
		return kept, removed, nil
	})
	if err != nil {
		return false, err
	}
	if removed {
		l.logger.Debug("removed model from collection", logging.String("toy_number", toyNumber))
	}
	return removed, nil
}

// List returns ledger rows in file order, optionally filtered by a
// case-insensitive substring over toy number or name, plus the total quantity
// of the returned rows.
func (l *Ledger) List(filter string) ([]tabular.Record, int, error) {
	rows, _, err := l.store.Rows()
	if err != nil {
		return nil, 0, err
	}

	needle := strings.ToLower(strings.TrimSpace(filter))
	matched := rows[:0]
	total := 0
	for _, row := range rows {
		if needle != "" &&
			!strings.Contains(strings.ToLower(row.ToyNumber), needle) &&
			!strings.Contains(strings.ToLower(row.Name), needle) {
			continue
		}
		matched = append(matched, row)
		total += row.Quantity
	}
	return matched, total, nil
}

// Missing returns master records whose toy number does not appear in any
// ledger row, in master file order, one entry per toy number.
func (l *Ledger) Missing() ([]tabular.Record, error) {
	masterRows, err := l.catalog.Rows()
	if err != nil {
		return nil, err
	}
	ledgerRows, _, err := l.store.Rows()
	if err != nil {
		return nil, err
	}

	owned := make(map[string]struct{}, len(ledgerRows))
	for _, row := range ledgerRows {
		owned[strings.ToUpper(row.ToyNumber)] = struct{}{}
	}

	seen := make(map[string]struct{}, len(masterRows))
	var missing []tabular.Record
	for _, row := range masterRows {
		key := strings.ToUpper(row.ToyNumber)
		if _, have := owned[key]; have {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		missing = append(missing, row)
	}
	return missing, nil
}

// Export re-serializes the full ledger in the canonical file format.
func (l *Ledger) Export() ([]byte, error) {
	rows, _, err := l.store.Rows()
	if err != nil {
		return nil, err
	}
	return tabular.Marshal(rows)
}

func floorOne(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}
