package output

import (
	"encoding/csv"
	"io"
)

// PrintCSV writes headers and rows as standard CSV to w.
func PrintCSV(w io.Writer, headers []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// PrintRecordsCSV writes API objects as CSV using the same columns a table would show.
func PrintRecordsCSV(w io.Writer, records []map[string]any, columns []string) error {
	headers, rows := Tabulate(records, columns)
	return PrintCSV(w, headers, rows)
}
