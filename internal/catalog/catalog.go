package catalog

import (
	"log/slog"
	"strings"
	"sync"

	"garage/internal/logging"
	"garage/internal/tabular"
)

// Index provides case-insensitive toy-number lookup over the master store.
// The hash index is derived from the store snapshot and rebuilt whenever the
// store generation moves, so lookups stay O(1) without bypassing the store's
// staleness handling.
type Index struct {
	store  *tabular.Store
	logger *slog.Logger

	mu         sync.Mutex
	generation uint64
	built      bool
	byNumber   map[string]tabular.Record // keyed by uppercase toy number, first match wins
	rows       []tabular.Record
}

// NewIndex binds an index to the master store.
func NewIndex(store *tabular.Store, logger *slog.Logger) *Index {
	return &Index{
		store:  store,
		logger: logging.NewComponentLogger(logger, "catalog"),
	}
}

// Lookup returns the first master record whose toy number matches,
// case-insensitively. The boolean reports whether a match was found.
func (x *Index) Lookup(toyNumber string) (tabular.Record, bool, error) {
	key := strings.ToUpper(strings.TrimSpace(toyNumber))
	if key == "" {
		return tabular.Record{}, false, nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if err := x.ensureLocked(); err != nil {
		return tabular.Record{}, false, err
	}
	record, ok := x.byNumber[key]
	return record, ok, nil
}

// Rows returns the master snapshot in file order.
func (x *Index) Rows() ([]tabular.Record, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if err := x.ensureLocked(); err != nil {
		return nil, err
	}
	out := make([]tabular.Record, len(x.rows))
	copy(out, x.rows)
	return out, nil
}

// Store exposes the underlying master store for admin operations.
func (x *Index) Store() *tabular.Store {
	return x.store
}

func (x *Index) ensureLocked() error {
	rows, generation, err := x.store.Rows()
	if err != nil {
		return err
	}
	if x.built && generation == x.generation {
		return nil
	}

	byNumber := make(map[string]tabular.Record, len(rows))
	for _, row := range rows {
		key := strings.ToUpper(row.ToyNumber)
		if _, exists := byNumber[key]; !exists {
			byNumber[key] = row
		}
	}

	x.rows = rows
	x.byNumber = byNumber
	x.generation = generation
	x.built = true
	x.logger.Debug("rebuilt catalog index", logging.Int("entry_count", len(byNumber)))
	return nil
}
