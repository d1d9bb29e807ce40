// Package progress aggregates series completion across catalog and collection.
package progress

import (
	"log/slog"
	"regexp"
	"strings"

	"garage/internal/catalog"
	"garage/internal/collection"
	"garage/internal/logging"
	"garage/internal/tabular"
)

// seriesTagPattern strips descriptive tags that vary between printings of the
// same series so they group together. Tags may appear bare or parenthesized.
var seriesTagPattern = regexp.MustCompile(`(?i)\(?(New for \d{4}|2nd Color|Exclusive)\)?`)

// Group is the completion state of one normalized series/year bucket.
type Group struct {
	Key   string `json:"key"`
	Total int    `json:"total"`
	Owned int    `json:"owned"`
}

// Aggregator joins catalog and ledger rows by grouping key without mutating
// either store.
type Aggregator struct {
	catalog *catalog.Index
	ledger  *collection.Ledger
	logger  *slog.Logger
}

// NewAggregator binds the aggregator to its two read sources.
func NewAggregator(index *catalog.Index, ledger *collection.Ledger, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		catalog: index,
		ledger:  ledger,
		logger:  logging.NewComponentLogger(logger, "progress"),
	}
}

// NormalizeSeries removes the known tag substrings and trims whitespace.
func NormalizeSeries(series string) string {
	return strings.TrimSpace(seriesTagPattern.ReplaceAllString(series, ""))
}

// GroupKey derives the grouping key of a record: normalized series plus year.
func GroupKey(record tabular.Record) string {
	return NormalizeSeries(record.Series) + " " + record.Year
}

// Compute counts catalog records per grouping key, then counts ledger records
// into the matching buckets. Ledger rows whose key has no catalog bucket are
// ignored. Groups appear in first-encounter order among catalog records, which
// is stable for an unchanged master file.
func (a *Aggregator) Compute() ([]Group, error) {
	masterRows, err := a.catalog.Rows()
	if err != nil {
		return nil, err
	}
	ledgerRows, _, err := a.ledger.List("")
	if err != nil {
		return nil, err
	}

	groups := make([]Group, 0, 16)
	indexByKey := make(map[string]int)
	for _, row := range masterRows {
		key := GroupKey(row)
		i, ok := indexByKey[key]
		if !ok {
			i = len(groups)
			indexByKey[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Total++
	}

	for _, row := range ledgerRows {
		if i, ok := indexByKey[GroupKey(row)]; ok {
			groups[i].Owned++
		}
	}

	a.logger.Debug("computed progress", logging.Int("group_count", len(groups)))
	return groups, nil
}
