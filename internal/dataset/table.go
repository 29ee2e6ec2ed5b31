package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	apperrors "cartscope/internal/errors"
)

// Table is a raw, untyped view of one source file: the header row plus all
// data rows, with a name→index map for column lookup. No transformation is
// applied at this stage.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string

	cols map[string]int
}

// LoadTable reads a delimited file into a Table. The first row is the
// header; every data row must have exactly as many fields as the header.
func LoadTable(path, name string, delim rune) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewFileAccess(path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = delim

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewParse(path, 1, errors.New("file is empty"))
	}
	if err != nil {
		return nil, wrapCSVError(path, err)
	}

	// Strip a UTF-8 BOM from the first header cell if present
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	cols := make(map[string]int, len(header))
	for i, col := range header {
		cols[strings.TrimSpace(col)] = i
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapCSVError(path, err)
		}
		rows = append(rows, record)
	}

	return &Table{
		Name:   name,
		Header: header,
		Rows:   rows,
		cols:   cols,
	}, nil
}

// wrapCSVError converts a csv.ParseError into the pipeline's parse error,
// preserving the 1-based line number.
func wrapCSVError(path string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return apperrors.NewParse(path, parseErr.Line, err)
	}
	return apperrors.NewParse(path, 0, err)
}

// ColumnIndex returns the index of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.cols[name]
	return i, ok
}

// RequireColumns verifies that every named column exists in the header.
func (t *Table) RequireColumns(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := t.cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewParse(t.Name, 1,
			errors.New("missing columns: "+strings.Join(missing, ", ")))
	}
	return nil
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}
