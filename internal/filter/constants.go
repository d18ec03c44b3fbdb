package filter

const (
	// MaxFundingSentinel is the slider ceiling shown as "$100M+".
	MaxFundingSentinel = 100_000_000

	// MaxFundingValue replaces the sentinel on the wire: the largest integer
	// a JSON number (and the backend numeric column) holds exactly.
	MaxFundingValue float64 = 1<<53 - 1

	MinDeadlineDays = -90
	MaxDeadlineDays = 365

	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// NoneSentinel is understood by the backend as a condition no row satisfies.
	NoneSentinel = "NONE"
)
