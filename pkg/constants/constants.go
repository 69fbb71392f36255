// Package constants provides shared constants for the montecarlo-backtest application.
package constants

// Simulation defaults
const (
	// DefaultTrials is the number of permutations run when none is configured
	DefaultTrials = 500

	// DefaultField is the column holding each trade's profit or loss
	DefaultField = "profit"

	// DefaultDelimiter separates fields in delimited trade files
	DefaultDelimiter = ","
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"
)

// Logging defaults
const (
	// DefaultLogLevel is used when neither config nor CLI set a level
	DefaultLogLevel = "info"

	// DefaultLogFormat is the production log encoding
	DefaultLogFormat = "json"

	// DefaultLogMaxSizeMB is the size at which a log file is rotated
	DefaultLogMaxSizeMB = 10

	// DefaultLogMaxBackups is the number of rotated log files retained
	DefaultLogMaxBackups = 3
)

// Comparison constants
const (
	// SumTolerance bounds floating-point drift between sums of the same values
	// taken in different orders
	SumTolerance = 1e-9
)
