package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// WriteCSV writes the header and rows of t to w.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToCSV writes t to a new file at path.
func ToCSV(t Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, t); err != nil {
		return err
	}
	return f.Close()
}

var unsafeName = regexp.MustCompile(`[^a-z0-9_]+`)

// Filename joins parts into a lowercase file name with the
// given extension, e.g. "team_analytics_backend_2025-01-01_2025-01-31.csv".
func Filename(ext string, parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(p), "-"), "-")
		if p != "" {
			clean = append(clean, p)
		}
	}
	return strings.Join(clean, "_") + "." + ext
}
