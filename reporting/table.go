package reporting

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/benchkit/benchrun/runner"
)

// RenderTable prints the benchmark results to out as a rectangular table,
// one row per repo sub-directory with mean seconds per suite/test column.
func RenderTable(out io.Writer, results []runner.RepoResults) error {
	header, rows, err := flatten(results)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("Benchmark Results")

	headerRow := make(table.Row, len(header))
	columnConfigs := make([]table.ColumnConfig, 0, len(header))
	for i, name := range header {
		headerRow[i] = name
		if i > 0 {
			columnConfigs = append(columnConfigs, table.ColumnConfig{
				Name:  name,
				Align: text.AlignRight,
			})
		}
	}
	t.AppendHeader(headerRow)
	t.SetColumnConfigs(columnConfigs)

	for _, row := range rows {
		tableRow := make(table.Row, len(row))
		tableRow[0] = row[0]
		for i, cell := range row[1:] {
			tableRow[i+1] = formatSeconds(cell)
		}
		t.AppendRow(tableRow)
	}

	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}

func formatSeconds(seconds string) string {
	return fmt.Sprintf("%ss", seconds)
}
