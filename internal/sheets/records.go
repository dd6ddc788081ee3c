package sheets

import (
	"fmt"
	"strconv"
	"strings"
)

// recordsFromValues treats the first row as field names and maps every
// following row onto them. Missing trailing cells become "".
func recordsFromValues(values [][]any) []map[string]any {
	records := []map[string]any{}
	if len(values) < 2 {
		return records
	}

	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = fmt.Sprint(cell)
	}

	for _, row := range values[1:] {
		rec := make(map[string]any, len(header))
		for i, name := range header {
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}

// lastRow extracts the final row number from an A1 range such as
// "'Hoja 1'!A5:E5".
func lastRow(a1 string) (int, bool) {
	if i := strings.LastIndex(a1, "!"); i >= 0 {
		a1 = a1[i+1:]
	}
	if i := strings.LastIndex(a1, ":"); i >= 0 {
		a1 = a1[i+1:]
	}
	digits := strings.TrimLeft(a1, "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz$")
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// quoteTitle makes a sheet title safe to use as an A1 range.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
