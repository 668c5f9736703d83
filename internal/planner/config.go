package planner

// Config contains tuning knobs for itinerary building. Durations are the
// two-tier constants the catalog supports today; richer per-museum durations
// would slot in here if that data ever ships.
type Config struct {
	DefaultRadiusKm  float64 // stop radius when the request leaves it zero
	DailyBudgetHours float64 // all-day time budget
	DurationFullHrs  float64 // suggested visit length, full-content museums
	DurationStdHrs   float64 // suggested visit length, everything else
	MaxDays          int     // hard cap on resolved date ranges
}

// DefaultConfig returns the default planner configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultRadiusKm:  25.0,
		DailyBudgetHours: 8.0,
		DurationFullHrs:  3.0,
		DurationStdHrs:   1.5,
		MaxDays:          60,
	}
}

// durationFor returns the suggested visit duration for a museum.
func (c *Config) durationFor(hasFullContent bool) float64 {
	if hasFullContent {
		return c.DurationFullHrs
	}
	return c.DurationStdHrs
}
