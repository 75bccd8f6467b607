// Package timeseries reads and writes the per-product flat-file
// time-series format.
//
// File layout:
//
//	# <free-text description comment lines>
//	# fields: DATE|<status1>|...|<resolution1>|...
//	# Product: <name>
//	# Created: <timestamp>
//	YYYYMMDD|<count>|<count>|...
//
// Only the "# fields:" line is machine-parseable; the other header lines
// are informational and never read back. Data rows are pipe-delimited and
// strictly append in date order. A blank value means "not tracked that
// day" and is distinct from a true zero count.
package timeseries

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	fieldsPrefix = "# fields: "
	dateColumn   = "DATE"

	// Files must stay world-readable: the chart-rendering frontend reads
	// them directly.
	fileMode = 0o644
)

// Schema is the ordered list of category columns in a file, excluding the
// implicit leading DATE column.
type Schema []string

// Equal reports positional schema equality: same columns, same order,
// same count. Any difference is schema drift.
func (s Schema) Equal(other Schema) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Row is one daily snapshot line. Counts align positionally with the
// schema; an empty string is a blank, not a zero.
type Row struct {
	Date   string
	Counts []string
}

// Get returns the count stored under a column of the given schema, or
// blank when the row is shorter than the schema.
func (r Row) Get(schema Schema, column string) string {
	for i, name := range schema {
		if name == column {
			if i < len(r.Counts) {
				return r.Counts[i]
			}
			return ""
		}
	}
	return ""
}

// Store reads and writes time-series files under a data directory.
// Now is overridable for deterministic header timestamps in tests.
type Store struct {
	Dir string
	Now func() time.Time
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir, Now: time.Now}
}

// Path returns the file path for a product key.
func (s *Store) Path(product string) string {
	return filepath.Join(s.Dir, SanitizeProductKey(product))
}

// Parse reads a product's file. found is false when no file exists yet
// (first run for the product).
//
// Rows with fewer fields than the schema are padded with blanks; rows
// with more are truncated. Both are logged as integrity warnings rather
// than aborting the parse.
func (s *Store) Parse(product string) (schema Schema, rows []Row, found bool, err error) {
	path := s.Path(product)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, fmt.Errorf("open time-series file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if strings.HasPrefix(line, fieldsPrefix) {
				schema = parseFieldsLine(line)
			}
			continue
		}

		if schema == nil {
			return nil, nil, false, fmt.Errorf("parse %s: data before %q line", path, strings.TrimSpace(fieldsPrefix))
		}

		row := parseDataLine(line)
		switch {
		case len(row.Counts) < len(schema):
			slog.Warn("time-series row has fewer fields than schema, padding",
				"file", path, "line", lineNo, "have", len(row.Counts), "want", len(schema))
			for len(row.Counts) < len(schema) {
				row.Counts = append(row.Counts, "")
			}
		case len(row.Counts) > len(schema):
			slog.Warn("time-series row has more fields than schema, truncating",
				"file", path, "line", lineNo, "have", len(row.Counts), "want", len(schema))
			row.Counts = row.Counts[:len(schema)]
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, false, fmt.Errorf("read time-series file %s: %w", path, err)
	}

	if schema == nil {
		return nil, nil, false, fmt.Errorf("parse %s: missing %q line", path, strings.TrimSpace(fieldsPrefix))
	}

	return schema, rows, true, nil
}

func parseFieldsLine(line string) Schema {
	cols := strings.Split(strings.TrimPrefix(line, fieldsPrefix), "|")
	// The leading DATE column is implicit in Schema.
	if len(cols) > 0 && cols[0] == dateColumn {
		cols = cols[1:]
	}
	return Schema(cols)
}

func parseDataLine(line string) Row {
	tokens := strings.Split(line, "|")
	return Row{Date: tokens[0], Counts: tokens[1:]}
}

// Append adds exactly one data line to an existing file. The caller must
// have verified that the file's schema matches the row; Append does not
// re-check. A kill mid-append is harmless: a single line write is atomic
// for these line lengths.
func (s *Store) Append(product string, row Row) error {
	path := s.Path(product)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, fileMode)
	if err != nil {
		return fmt.Errorf("open for append: %w", err)
	}

	if _, err := f.WriteString(formatRow(row)); err != nil {
		f.Close()
		return fmt.Errorf("append row: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close after append: %w", err)
	}

	return os.Chmod(path, fileMode)
}

// Rewrite replaces a product's file with a canonical header and the given
// rows. The full content is assembled in memory and written to a temp
// file which then replaces the original, so a kill mid-rewrite never
// truncates existing data.
func (s *Store) Rewrite(product string, schema Schema, rows []Row) error {
	var b strings.Builder
	b.WriteString("# Daily counts of entities per category, one row per calendar day.\n")
	b.WriteString(fieldsPrefix)
	b.WriteString(strings.Join(append([]string{dateColumn}, schema...), "|"))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "# Product: %s\n", product)
	fmt.Fprintf(&b, "# Created: %s\n", s.now().UTC().Format("2006-01-02 15:04:05 MST"))
	for _, row := range rows {
		b.WriteString(formatRow(row))
	}

	path := s.Path(product)
	tmp, err := os.CreateTemp(s.Dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, fileMode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}

	return nil
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func formatRow(row Row) string {
	return strings.Join(append([]string{row.Date}, row.Counts...), "|") + "\n"
}
