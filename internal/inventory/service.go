package inventory

import (
	"fmt"
	"log/slog"
	"strings"

	"garage/internal/bulk"
	"garage/internal/catalog"
	"garage/internal/collection"
	"garage/internal/config"
	"garage/internal/logging"
	"garage/internal/progress"
	"garage/internal/tabular"
)

// Store names accepted by ForceReload.
const (
	StoreMaster     = "master"
	StoreCollection = "collection"
)

// Service wires the two stores and the algorithms on top of them into the
// boundary operations the HTTP layer and CLI call.
type Service struct {
	catalog    *catalog.Index
	ledger     *collection.Ledger
	aggregator *progress.Aggregator
	logger     *slog.Logger
}

// BulkEntryResult reports the outcome of one parsed bulk entry. Added is nil
// when the entry failed.
type BulkEntryResult struct {
	ToyNumber string
	Requested int
	Added     *tabular.Record
	Err       error
}

// CacheStatus reports both stores' cache state.
type CacheStatus struct {
	Master     tabular.Status `json:"master"`
	Collection tabular.Status `json:"collection"`
}

// NewService builds the stores from configuration and assembles the facade.
// Both stores share the optional lock file so cross-process writers serialize
// against each other.
func NewService(cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}

	var opts []tabular.Option
	if strings.TrimSpace(cfg.Paths.LockFile) != "" {
		opts = append(opts, tabular.WithLockFile(cfg.Paths.LockFile))
	}

	masterStore := tabular.NewStore(cfg.Paths.MasterFile, logger, opts...)
	collectionStore := tabular.NewStore(cfg.Paths.CollectionFile, logger, opts...)

	index := catalog.NewIndex(masterStore, logger)
	ledger := collection.NewLedger(collectionStore, index, logger)

	return &Service{
		catalog:    index,
		ledger:     ledger,
		aggregator: progress.NewAggregator(index, ledger, logger),
		logger:     logging.NewComponentLogger(logger, "inventory"),
	}
}

// AddOne merges one catalog-validated model into the ledger.
func (s *Service) AddOne(toyNumber string, quantity int) (tabular.Record, error) {
	return s.ledger.MergeAdd(toyNumber, quantity)
}

// AddBulk parses free text and attempts each entry independently. Entries that
// fail are reported in place, never fatal for the batch. An input with no
// recognizable entries returns ErrNoEntries.
func (s *Service) AddBulk(text string) ([]BulkEntryResult, error) {
	entries := bulk.Parse(text)
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	results := make([]BulkEntryResult, 0, len(entries))
	for _, entry := range entries {
		result := BulkEntryResult{ToyNumber: entry.ToyNumber, Requested: entry.Quantity}
		record, err := s.ledger.MergeAdd(entry.ToyNumber, entry.Quantity)
		if err != nil {
			result.Err = err
		} else {
			result.Added = &record
		}
		results = append(results, result)
	}
	return results, nil
}

// List returns ledger rows with an optional substring filter, plus their
// total quantity.
func (s *Service) List(filter string) ([]tabular.Record, int, error) {
	return s.ledger.List(filter)
}

// Missing returns catalog entries not yet owned, in catalog order.
func (s *Service) Missing() ([]tabular.Record, error) {
	return s.ledger.Missing()
}

// Progress returns series completion groups.
func (s *Service) Progress() ([]progress.Group, error) {
	return s.aggregator.Compute()
}

// LookupInfo returns the catalog record for a toy number.
func (s *Service) LookupInfo(toyNumber string) (tabular.Record, error) {
	record, ok, err := s.catalog.Lookup(toyNumber)
	if err != nil {
		return tabular.Record{}, err
	}
	if !ok {
		return tabular.Record{}, fmt.Errorf("%w: %s", ErrUnknownToy, strings.TrimSpace(toyNumber))
	}
	return record, nil
}

// Adjust shifts an owned row's quantity, flooring at 1.
func (s *Service) Adjust(toyNumber string, delta int) (int, error) {
	return s.ledger.AdjustQuantity(toyNumber, delta)
}

// Delete removes every ledger row with that toy number.
func (s *Service) Delete(toyNumber string) (bool, error) {
	return s.ledger.Remove(toyNumber)
}

// Export re-serializes the ledger in the canonical file format.
func (s *Service) Export() ([]byte, error) {
	return s.ledger.Export()
}

// ForceReload invalidates one store's cached snapshot and reloads it.
func (s *Service) ForceReload(storeName string) error {
	var store *tabular.Store
	switch strings.ToLower(strings.TrimSpace(storeName)) {
	case StoreMaster:
		store = s.catalog.Store()
	case StoreCollection:
		store = s.ledger.Store()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStore, storeName)
	}

	store.Invalidate()
	if _, _, err := store.Rows(); err != nil {
		return err
	}
	s.logger.Info("forced store reload", logging.String("store", storeName))
	return nil
}

// Status reports cache metadata for both stores.
func (s *Service) Status() CacheStatus {
	return CacheStatus{
		Master:     s.catalog.Store().Status(),
		Collection: s.ledger.Store().Status(),
	}
}
