package trades

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/montecarlo-backtest/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected []float64
	}{
		{
			name:     "profit only",
			lines:    []string{"profit", "10", "-5", "20"},
			expected: []float64{10, -5, 20},
		},
		{
			name:     "non-numeric row skipped",
			lines:    []string{"profit", "abc", "15"},
			expected: []float64{15},
		},
		{
			name:     "header only",
			lines:    []string{"profit"},
			expected: []float64{},
		},
		{
			name:     "missing profit column",
			lines:    []string{"symbol,pnl", "AAPL,10", "MSFT,-3"},
			expected: []float64{},
		},
		{
			name:     "other columns ignored",
			lines:    []string{"date,symbol,profit,fees", "2024-01-02,AAPL,12.5,1", "2024-01-03,MSFT,-7.25,1"},
			expected: []float64{12.5, -7.25},
		},
		{
			name: "bad rows do not shift later rows",
			lines: []string{
				"symbol,profit",
				"A,1.5",
				"B,",
				"C,n/a",
				"D",
				"E,-2",
				"F, 3 ",
			},
			expected: []float64{1.5, -2, 3},
		},
		{
			name:     "scientific notation",
			lines:    []string{"profit", "1e3", "-2.5E-1"},
			expected: []float64{1000, -0.25},
		},
		{
			name:     "quoted values",
			lines:    []string{`"note","profit"`, `"big, win","1000"`, `"loss","-250.5"`},
			expected: []float64{1000, -250.5},
		},
		{
			name:     "byte order mark on header",
			lines:    []string{"\ufeffprofit,symbol", "4,X"},
			expected: []float64{4},
		},
		{
			name:     "bare quotes in other column",
			lines:    []string{"profit,note", `5,a "bare" quote`, "6,ok"},
			expected: []float64{5, 6},
		},
		{
			name:     "stray quote in other column",
			lines:    []string{"profit,note", `5,closed at 5" gap`, "6,ok"},
			expected: []float64{5, 6},
		},
		{
			name:     "quote inside profit cell",
			lines:    []string{"note,profit", `a,7"`, "b,8"},
			expected: []float64{8},
		},
		{
			name:     "empty file",
			lines:    nil,
			expected: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteTradeFile(t, "trades.csv", tt.lines...)

			values, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, values)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "expected not-exist error, got %v", err)
}

func TestLoadDirectory(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
}

func TestParseOptions(t *testing.T) {
	input := "symbol;pnl;profit\nA;1;100\nB;2;200\n"

	values, err := Parse(strings.NewReader(input),
		WithDelimiter(';'),
		WithField("pnl"),
		WithLogger(zap.NewNop()),
	)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, values)

	values, err = Parse(strings.NewReader(input), WithDelimiter(';'))
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 200}, values)

	// Zero values leave the defaults in place.
	values, err = Parse(strings.NewReader("profit\n9\n"), WithField(""), WithDelimiter(0))
	require.NoError(t, err)
	assert.Equal(t, []float64{9}, values)
}

func TestFromRows(t *testing.T) {
	rows := [][]string{
		{"symbol", "profit"},
		{"A", "3"},
		{"B"},
		{"C", "x"},
		{"D", "-1"},
	}
	assert.Equal(t, []float64{3, -1}, FromRows(rows, "profit"))
	assert.Equal(t, []float64{}, FromRows(nil, "profit"))
	assert.Equal(t, []float64{}, FromRows(rows, "missing"))
}

func TestLoadWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"symbol", "profit"},
		{"A", 10},
		{"B", "abc"},
		{"C", -5},
		{"D", 20},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "trades.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	values, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, -5, 20}, values)
}

func TestLoadWorkbookMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
}
