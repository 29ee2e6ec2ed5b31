package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "cartscope/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadTable(t *testing.T) {
	path := writeFile(t, "aisles.csv", "aisle_id;aisle_name\n1;fresh fruits\n2;fresh vegetables\n")

	table, err := LoadTable(path, "aisles", ';')
	require.NoError(t, err)

	assert.Equal(t, []string{"aisle_id", "aisle_name"}, table.Header)
	assert.Equal(t, 2, table.RowCount())
	assert.Equal(t, []string{"1", "fresh fruits"}, table.Rows[0])

	idx, ok := table.ColumnIndex("aisle_name")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestLoadTable_BOMHeader(t *testing.T) {
	path := writeFile(t, "aisles.csv", "\ufeffaisle_id;aisle_name\n1;fresh fruits\n")

	table, err := LoadTable(path, "aisles", ';')
	require.NoError(t, err)

	_, ok := table.ColumnIndex("aisle_id")
	assert.True(t, ok, "BOM must be stripped from the first header cell")
}

func TestLoadTable_MissingFile(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "nope.csv"), "orders", ';')

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeFileAccess))
}

func TestLoadTable_FieldCountMismatch(t *testing.T) {
	path := writeFile(t, "bad.csv", "a;b;c\n1;2;3\n4;5\n")

	_, err := LoadTable(path, "bad", ';')

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeParse))

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	details, ok := appErr.Details.(apperrors.ParseDetails)
	require.True(t, ok)
	assert.Equal(t, 3, details.Line)
}

func TestLoadTable_EmptyFile(t *testing.T) {
	path := writeFile(t, "empty.csv", "")

	_, err := LoadTable(path, "empty", ';')

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeParse))
}

func TestTable_RequireColumns(t *testing.T) {
	path := writeFile(t, "orders.csv", "order_id;user_id\n1;10\n")
	table, err := LoadTable(path, "orders", ';')
	require.NoError(t, err)

	assert.NoError(t, table.RequireColumns("order_id", "user_id"))

	err = table.RequireColumns("order_id", "order_dow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order_dow")
}
