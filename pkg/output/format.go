// Package output provides utilities for formatting and displaying simulation results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/montecarlo-backtest/internal/simulation"
	"github.com/iwvelando/montecarlo-backtest/pkg/constants"
	"github.com/iwvelando/montecarlo-backtest/pkg/validation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Write renders result to w in the named format.
func Write(w io.Writer, format string, result simulation.Result) error {
	if err := validation.ValidateOutputFormat(format); err != nil {
		return err
	}

	switch format {
	case constants.OutputFormatCSV:
		return CsvFormat(w, result.Summary)
	case constants.OutputFormatJSON:
		return JSONFormat(w, result.Summary)
	case constants.OutputFormatYAML:
		return YAMLFormat(w, result.Summary)
	default:
		return PrettyFormat(w, result)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, result simulation.Result) error {
	p := message.NewPrinter(language.English)
	lines := []struct {
		key   string
		value float64
	}{
		{"average", result.Average},
		{"min", result.Min},
		{"max", result.Max},
	}

	if _, err := p.Fprintf(w, "--- %d permutations of %d trades ---\n", result.Trials, result.Trades); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := p.Fprintf(w, "%-7s | %s\n", line.key, Number(line.value)); err != nil {
			return err
		}
	}
	return nil
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, summary simulation.Summary) error {
	_, err := fmt.Fprintf(w, "\"average\",\"min\",\"max\"\n\"%g\",\"%g\",\"%g\"\n",
		summary.Average, summary.Min, summary.Max)
	return err
}

// jsonSummary carries finite values as numbers and NaN or infinities as the
// strings "NaN", "+Inf" and "-Inf", which JSON numbers cannot express.
type jsonSummary struct {
	Average interface{} `json:"average"`
	Min     interface{} `json:"min"`
	Max     interface{} `json:"max"`
}

func jsonValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return v
}

// JSONFormat outputs a single JSON object.
func JSONFormat(w io.Writer, summary simulation.Summary) error {
	return json.NewEncoder(w).Encode(jsonSummary{
		Average: jsonValue(summary.Average),
		Min:     jsonValue(summary.Min),
		Max:     jsonValue(summary.Max),
	})
}

// YAMLFormat outputs a YAML mapping.
func YAMLFormat(w io.Writer, summary simulation.Summary) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(summary); err != nil {
		return err
	}
	return enc.Close()
}

// Number renders v at full precision with thousands separators in the
// integer part, e.g. 1234.0012 becomes "1,234.0012".
func Number(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	formatted := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	intPart, decPart, hasDec := strings.Cut(formatted, ".")

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	sign := ""
	if v < 0 {
		sign = "-"
	}
	if hasDec {
		return sign + intPart + "." + decPart
	}
	return sign + intPart
}
