package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(CodeValidation, "order_dow out of range"),
			want: "VALIDATION: order_dow out of range",
		},
		{
			name: "with cause",
			err:  NewFileAccess("data/orders.csv", fs.ErrNotExist),
			want: "FILE_ACCESS: cannot access input file data/orders.csv: file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestNewFileAccess_Unwrap(t *testing.T) {
	err := NewFileAccess("missing.csv", fs.ErrNotExist)

	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, CodeFileAccess, err.Code)
	assert.Equal(t, "missing.csv", err.Details)
}

func TestNewParse_Details(t *testing.T) {
	cause := fmt.Errorf("wrong number of fields")
	err := NewParse("orders.csv", 42, cause)

	details, ok := err.Details.(ParseDetails)
	require.True(t, ok)
	assert.Equal(t, "orders.csv", details.File)
	assert.Equal(t, 42, details.Line)
	assert.ErrorIs(t, err, cause)
}

func TestNewValidation_Details(t *testing.T) {
	err := NewValidation("orders", 7, "order_dow", 9)

	details, ok := err.Details.(ValidationDetails)
	require.True(t, ok)
	assert.Equal(t, "orders", details.Table)
	assert.Equal(t, 7, details.Row)
	assert.Equal(t, "order_dow", details.Column)
	assert.Equal(t, 9, details.Value)
}

func TestHasCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{
			name: "direct match",
			err:  ErrUndefinedMetric,
			code: CodeUndefinedMetric,
			want: true,
		},
		{
			name: "wrapped match",
			err:  fmt.Errorf("aggregating: %w", NewValidation("items", 1, "reordered", 2)),
			code: CodeValidation,
			want: true,
		},
		{
			name: "different code",
			err:  NewParse("a.csv", 1, stderrors.New("bad row")),
			code: CodeFileAccess,
			want: false,
		},
		{
			name: "plain error",
			err:  stderrors.New("boom"),
			code: CodeParse,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasCode(tt.err, tt.code))
		})
	}
}
