package tabular

import (
	"strconv"
	"strings"
)

// Canonical column names in on-disk order.
const (
	FieldToyNumber = "toy_number"
	FieldName      = "name"
	FieldYear      = "year"
	FieldSeries    = "series"
	FieldImageURL  = "image_url"
	FieldQuantity  = "quantity"
)

// Header is the canonical header row both stores share.
var Header = []string{FieldToyNumber, FieldName, FieldYear, FieldSeries, FieldImageURL, FieldQuantity}

// Record is one row of a store. ToyNumber and ImageURL together identify an
// owned item; ToyNumber compares case-insensitively. Quantity is only
// meaningful for the collection store and is string-encoded on disk.
type Record struct {
	ToyNumber string
	Name      string
	Year      string
	Series    string
	ImageURL  string
	Quantity  int
}

// SameItem reports whether two records describe the same owned item:
// matching toy number (case-insensitive) and image URL.
func (r Record) SameItem(other Record) bool {
	return strings.EqualFold(r.ToyNumber, other.ToyNumber) && r.ImageURL == other.ImageURL
}

func (r Record) fields() []string {
	return []string{r.ToyNumber, r.Name, r.Year, r.Series, r.ImageURL, strconv.Itoa(r.Quantity)}
}

// recordFromFields builds a Record from raw CSV fields in canonical column
// order. Every field is trimmed; a blank or unparsable quantity becomes 0.
func recordFromFields(fields []string) Record {
	get := func(i int) string {
		if i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}
	return Record{
		ToyNumber: get(0),
		Name:      get(1),
		Year:      get(2),
		Series:    get(3),
		ImageURL:  get(4),
		Quantity:  parseQuantity(get(5)),
	}
}

func parseQuantity(value string) int {
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
