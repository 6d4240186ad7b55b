package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintTable writes tabular data. When isTTY is true it renders aligned columns
// with a header. When false it outputs tab-separated values for piping.
func PrintTable(w io.Writer, headers []string, rows [][]string, isTTY bool) {
	if !isTTY {
		printTSV(w, headers, rows)
		return
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
					BetweenRows:    tw.Off,
				},
			},
		})),
	)

	table.Header(toAny(headers)...)
	for _, row := range rows {
		table.Append(toAny(row)...)
	}
	table.Render()
}

// Tabulate turns API objects into table headers and rows. When columns is
// empty the columns are the scalar fields found across all records, ID fields
// first and the rest alphabetically.
func Tabulate(records []map[string]any, columns []string) (headers []string, rows [][]string) {
	if len(columns) == 0 {
		columns = scalarColumns(records)
	}

	rows = make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = FormatValue(rec[col])
		}
		rows = append(rows, row)
	}
	return columns, rows
}

// FormatValue renders a single JSON value for a table cell.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return fmt.Sprintf("%g", x)
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}

func scalarColumns(records []map[string]any) []string {
	seen := make(map[string]bool)
	var ids, rest []string
	for _, rec := range records {
		for k, v := range rec {
			if seen[k] {
				continue
			}
			switch v.(type) {
			case map[string]any, []any:
				continue
			}
			seen[k] = true
			if k == "id" || strings.HasSuffix(k, "Id") {
				ids = append(ids, k)
			} else {
				rest = append(rest, k)
			}
		}
	}
	sort.Strings(ids)
	sort.Strings(rest)
	return append(ids, rest...)
}

// printTSV writes headers and rows as tab-separated values.
func printTSV(w io.Writer, headers []string, rows [][]string) {
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
}

// toAny converts a string slice to an any slice for the tablewriter API.
func toAny(ss []string) []any {
	result := make([]any, len(ss))
	for i, s := range ss {
		result[i] = s
	}
	return result
}
