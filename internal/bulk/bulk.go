// Package bulk parses free-form text into toy number and quantity pairs.
package bulk

import (
	"regexp"
	"strconv"
	"strings"
)

// entryPattern is the fixed bulk grammar: an optional quantity marker (digits,
// optionally prefixed with "x") followed by an alphanumeric token. The grammar
// is a contract; malformed input is matched as-is, never second-guessed.
var entryPattern = regexp.MustCompile(`(?:x?(\d+)\s*)?([A-Za-z0-9]+)`)

// Entry is one parsed (toy number, quantity) pair.
type Entry struct {
	ToyNumber string
	Quantity  int
}

// Parse extracts entries from free text in input order. Toy numbers are
// uppercased; a missing quantity marker defaults to 1. Repeats are preserved,
// not merged — accumulation is the ledger's job. Non-matching text yields an
// empty list.
func Parse(text string) []Entry {
	matches := entryPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	entries := make([]Entry, 0, len(matches))
	for _, match := range matches {
		quantity := 1
		if match[1] != "" {
			parsed, err := strconv.Atoi(match[1])
			if err == nil {
				quantity = parsed
			}
		}
		entries = append(entries, Entry{
			ToyNumber: strings.ToUpper(match[2]),
			Quantity:  quantity,
		})
	}
	return entries
}
