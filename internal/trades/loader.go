// Package trades loads per-trade profit and loss values from tabular files.
//
// Rows whose value field is absent or not a number are skipped; only a file
// that cannot be opened at all is an error.
package trades

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/iwvelando/montecarlo-backtest/pkg/constants"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const utf8BOM = "\ufeff"

type options struct {
	field     string
	delimiter rune
	logger    *zap.Logger
}

// Option configures Load and Parse.
type Option func(*options)

// WithField selects the header column that holds trade values.
func WithField(field string) Option {
	return func(o *options) {
		if field != "" {
			o.field = field
		}
	}
}

// WithDelimiter sets the field separator for delimited text.
func WithDelimiter(delimiter rune) Option {
	return func(o *options) {
		if delimiter != 0 {
			o.delimiter = delimiter
		}
	}
}

// WithLogger enables debug logging of skipped rows.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		field:     constants.DefaultField,
		delimiter: rune(constants.DefaultDelimiter[0]),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Load reads trade values from path. Workbooks (.xlsx, .xlsm) are read from
// their first sheet; every other file is treated as delimited text.
func Load(path string, opts ...Option) ([]float64, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return loadWorkbook(path, newOptions(opts))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trade file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	values, err := Parse(file, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to read trade file %s: %w", path, err)
	}
	return values, nil
}

// Parse reads delimited text with a header row from r and returns the value
// column in file order.
func Parse(r io.Reader, opts ...Option) ([]float64, error) {
	o := newOptions(opts)

	reader := csv.NewReader(r)
	reader.Comma = o.delimiter
	reader.FieldsPerRecord = -1
	// Stray quotes inside unquoted fields are kept as literal text so a
	// free-text column cannot hide a valid value.
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []float64{}, nil
	}
	if err != nil {
		var parseErr *csv.ParseError
		if !errors.As(err, &parseErr) {
			return nil, err
		}
		// An unreadable header means no row can name the field.
		header = nil
	}

	col := fieldIndex(header, o.field)
	values := []float64{}
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				continue
			}
			return nil, err
		}
		if v, ok := lookup(record, col); ok {
			values = append(values, v)
		} else {
			skipped++
		}
	}

	o.logger.Debug("parsed delimited trade data",
		zap.String("op", "trades.Parse"),
		zap.String("field", o.field),
		zap.Bool("fieldFound", col >= 0),
		zap.Int("trades", len(values)),
		zap.Int("skipped", skipped),
	)
	return values, nil
}

func loadWorkbook(path string, o options) ([]float64, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trade workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []float64{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s of %s: %w", sheets[0], path, err)
	}

	values := FromRows(rows, o.field)
	o.logger.Debug("parsed trade workbook",
		zap.String("op", "trades.loadWorkbook"),
		zap.String("sheet", sheets[0]),
		zap.String("field", o.field),
		zap.Int("trades", len(values)),
		zap.Int("skipped", max(len(rows)-1-len(values), 0)),
	)
	return values, nil
}

// FromRows extracts field from already-split rows whose first row is the
// header.
func FromRows(rows [][]string, field string) []float64 {
	values := []float64{}
	if len(rows) == 0 {
		return values
	}
	col := fieldIndex(rows[0], field)
	for _, row := range rows[1:] {
		if v, ok := lookup(row, col); ok {
			values = append(values, v)
		}
	}
	return values
}

func fieldIndex(header []string, field string) int {
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		if strings.TrimSpace(name) == field {
			return i
		}
	}
	return -1
}

// lookup reports the parsed value at col, or false when the row has no such
// column or its content is not a number.
func lookup(record []string, col int) (float64, bool) {
	if col < 0 || col >= len(record) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
