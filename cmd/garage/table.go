package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"garage/internal/progress"
	"garage/internal/tabular"
)

// renderModelTable shapes catalog or collection records into the rounded
// table the CLI prints. Quantity only makes sense for the collection, so
// catalog views drop the column.
func renderModelTable(rows []tabular.Record, withQuantity bool) string {
	tw := newTableWriter()

	header := table.Row{"Toy #", "Name", "Year", "Series"}
	if withQuantity {
		header = append(header, "Qty")
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		cells := table.Row{row.ToyNumber, row.Name, row.Year, row.Series}
		if withQuantity {
			cells = append(cells, strconv.Itoa(row.Quantity))
		}
		tw.AppendRow(cells)
	}

	configs := []table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	}
	if withQuantity {
		configs = append(configs, table.ColumnConfig{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// renderProgressTable shows per-series completion with a rounded percentage.
func renderProgressTable(groups []progress.Group) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"Series", "Owned", "Total", "Done"})

	for _, group := range groups {
		tw.AppendRow(table.Row{
			group.Key,
			strconv.Itoa(group.Owned),
			strconv.Itoa(group.Total),
			fmt.Sprintf("%.0f%%", percent(group.Owned, group.Total)),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

func newTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	return tw
}

func percent(owned, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(owned) / float64(total) * 100
}
