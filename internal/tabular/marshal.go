package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Marshal serializes rows in the canonical file format: header row first,
// then one record per row in the given order.
func Marshal(rows []Record) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(Header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row.fields()); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}
	return buf.Bytes(), nil
}
