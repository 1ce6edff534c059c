package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrEmptyValue    = errors.New("empty value")
	ErrInvalidNumber = errors.New("invalid number")
)

// RowError describes a rejected row. Line is the 1-based line in the file.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Result summarizes an import. Rejected rows are listed in Errors.
type Result struct {
	Imported int
	Errors   []RowError
}

// Err joins the row errors, nil if every row was imported.
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i := range r.Errors {
		errs[i] = r.Errors[i]
	}
	return errors.Join(errs...)
}

// table is a csv file with a header row. Columns are addressed by header
// name, matching ignores case and surrounding blanks.
type table struct {
	columns map[string]int
	rows    []row
}

type row struct {
	line   int
	fields []string
	t      *table
}

func readTable(r io.Reader) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	t := &table{columns: make(map[string]int, len(header))}
	for i, h := range header {
		key := normalizeHeader(h)
		if _, ok := t.columns[key]; !ok && key != "" {
			t.columns[key] = i
		}
	}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if blank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)
		t.rows = append(t.rows, row{line: line, fields: record, t: t})
	}
	return t, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// column returns the index of the first present alias.
func (t *table) column(aliases ...string) (int, bool) {
	for _, a := range aliases {
		if idx, ok := t.columns[normalizeHeader(a)]; ok {
			return idx, true
		}
	}
	return 0, false
}

func (t *table) has(aliases ...string) bool {
	_, ok := t.column(aliases...)
	return ok
}

// require checks that each alias group is present in the header.
func (t *table) require(groups ...[]string) error {
	for _, aliases := range groups {
		if !t.has(aliases...) {
			return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(aliases, "|"))
		}
	}
	return nil
}

// value returns the trimmed field. Absent columns and short rows yield "".
func (r row) value(aliases ...string) string {
	idx, ok := r.t.column(aliases...)
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

// required returns the field, ErrEmptyValue if it is blank.
func (r row) required(aliases ...string) (string, error) {
	v := r.value(aliases...)
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyValue, aliases[0])
	}
	return v, nil
}

// intValue drops the fraction of decimal cells ("8.6" is 8).
func (r row) intValue(aliases ...string) (int, error) {
	d, err := parseNumber(r.value(aliases...), false)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", aliases[0], err)
	}
	return int(d.Truncate(0).IntPart()), nil
}

func (r row) floatValue(aliases ...string) (float64, error) {
	d, err := parseNumber(r.value(aliases...), false)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", aliases[0], err)
	}
	return d.InexactFloat64(), nil
}

// pitTime accepts a comma as decimal separator ("0,85").
func (r row) pitTime(aliases ...string) (float64, error) {
	d, err := parseNumber(r.value(aliases...), true)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", aliases[0], err)
	}
	return d.InexactFloat64(), nil
}

// parseNumber reads a sheet number. Blank is zero, commas are thousands
// separators unless decimalComma is set and there is no dot.
func parseNumber(s string, decimalComma bool) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	if decimalComma && !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	s = strings.ReplaceAll(s, " ", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return d, nil
}
