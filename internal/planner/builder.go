package planner

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/musemap/trip-service/internal/catalog"
	"github.com/musemap/trip-service/internal/hours"
)

// Builder assembles itineraries. It is stateless apart from config and safe
// for concurrent use.
type Builder struct {
	config *Config
	logger zerolog.Logger
}

// NewBuilder creates a Builder with the given config (nil uses defaults).
func NewBuilder(config *Config) *Builder {
	if config == nil {
		config = DefaultConfig()
	}
	return &Builder{
		config: config,
		logger: log.With().Str("component", "itinerary_builder").Logger(),
	}
}

// candidate is a pooled museum awaiting placement.
type candidate struct {
	museum    catalog.Museum
	stopOrder int
	duration  float64
	netPrice  *float64
}

// Build resolves the request's date range, selects candidate museums around
// each stop, ranks them per the request mode and places them day by day
// under each day's time budget. The same inputs and now always produce the
// same itinerary.
func (b *Builder) Build(req Request, museums []catalog.Museum, est PriceEstimator, now time.Time) ([]Day, error) {
	start := time.Now()
	days, err := b.build(req, museums, est, now)
	if err != nil {
		recordBuildError()
		return nil, err
	}
	recordBuildDuration(time.Since(start))

	placed := 0
	for _, d := range days {
		placed += len(d.Museums)
	}
	b.logger.Debug().
		Int("days", len(days)).
		Int("stops", len(req.Stops)).
		Int("placed", placed).
		Str("mode", string(req.Mode)).
		Msg("Itinerary built")
	return days, nil
}

func (b *Builder) build(req Request, museums []catalog.Museum, est PriceEstimator, now time.Time) ([]Day, error) {
	dates, err := b.resolveDates(req, now)
	if err != nil {
		return nil, err
	}
	if len(req.Stops) == 0 {
		return emptyDays(dates), nil
	}

	pool := b.selectCandidates(req, museums, est)
	recordCandidateCount(len(pool))
	rankPool(pool, req.Mode)

	budget := b.dayBudget(req)
	days := make([]Day, 0, len(dates))
	for _, date := range dates {
		day := Day{Date: date.Format(DateLayout), Museums: []MuseumVisit{}}
		used := 0.0

		remaining := pool[:0:0]
		for i, cand := range pool {
			status := hours.StatusOn(cand.museum.OpeningHours, date.Weekday())
			if status.Status == hours.StatusClosed {
				// Closed today only; the candidate stays in the pool
				// and is retried on later days.
				remaining = append(remaining, cand)
				continue
			}
			if used+cand.duration > budget {
				// Day is full: everything from here carries over.
				remaining = append(remaining, pool[i:]...)
				break
			}
			if status.Status == hours.StatusUnknown && status.Note == "" {
				status.Note = "opening hours not available"
			}
			used += cand.duration
			day.Museums = append(day.Museums, MuseumVisit{
				Museum:            cand.museum,
				OpenStatus:        status,
				SuggestedDuration: cand.duration,
			})
		}
		pool = remaining
		days = append(days, day)
	}

	// Whatever is still pooled never fit the range: capacity-bound, dropped.
	if len(pool) > 0 {
		b.logger.Debug().Int("dropped", len(pool)).Msg("Candidates did not fit the date range")
	}
	return days, nil
}

// resolveDates expands the request into its ordered, contiguous day sequence.
func (b *Builder) resolveDates(req Request, now time.Time) ([]time.Time, error) {
	switch req.DateMode {
	case DateModeFixed:
		start, err := parseDay(req.StartDate)
		if err != nil {
			return nil, ErrBadRequest{Field: "startDate", Reason: "unparseable date"}
		}
		end, err := parseDay(req.EndDate)
		if err != nil {
			return nil, ErrBadRequest{Field: "endDate", Reason: "unparseable date"}
		}
		if end.Before(start) {
			return nil, ErrInvalidDateRange{Start: req.StartDate, End: req.EndDate}
		}
		count := int(end.Sub(start).Hours()/24) + 1
		if count > b.config.MaxDays {
			// A fixed range names every date explicitly; clipping it would
			// drop days the caller asked for.
			return nil, ErrBadRequest{Field: "endDate", Reason: "range exceeds maximum days"}
		}
		return daySequence(start, count, b.config.MaxDays), nil

	case DateModeFlexible:
		start := now.UTC().Truncate(24 * time.Hour)
		if req.StartDate != "" {
			if s, err := parseDay(req.StartDate); err == nil && s.After(start) {
				start = s
			}
		}
		return daySequence(start, req.FlexibleDays, b.config.MaxDays), nil
	}
	return nil, ErrBadRequest{Field: "dateMode", Reason: "unknown date mode"}
}

func daySequence(start time.Time, count, maxDays int) []time.Time {
	if count < 0 {
		count = 0
	}
	if count > maxDays {
		count = maxDays
	}
	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		dates = append(dates, start.AddDate(0, 0, i))
	}
	return dates
}

func emptyDays(dates []time.Time) []Day {
	days := make([]Day, 0, len(dates))
	for _, d := range dates {
		days = append(days, Day{Date: d.Format(DateLayout), Museums: []MuseumVisit{}})
	}
	return days
}

// selectCandidates gathers museums within each stop's radius, claiming each
// museum for the first stop that reaches it so nothing repeats across the
// visit.
func (b *Builder) selectCandidates(req Request, museums []catalog.Museum, est PriceEstimator) []candidate {
	claimed := make(map[string]bool, len(museums))
	pool := make([]candidate, 0, len(museums))

	for i, stop := range req.Stops {
		center, ok := ResolveCenter(stop)
		if !ok {
			b.logger.Warn().Str("stop", stop.ID).Msg("Stop has no resolvable center, skipping")
			continue
		}
		radius := stop.RadiusKm
		if radius <= 0 {
			radius = b.config.DefaultRadiusKm
		}

		for _, m := range museums {
			if claimed[m.MuseumID] {
				continue
			}
			if HaversineKm(center.Lat, center.Lng, m.Lat, m.Lng) > radius {
				continue
			}
			claimed[m.MuseumID] = true
			cand := candidate{
				museum:    m,
				stopOrder: i,
				duration:  b.config.durationFor(m.HasFullContent),
			}
			if est != nil {
				cand.netPrice = est.EstimatePrice(m.MuseumID)
			}
			pool = append(pool, cand)
		}
	}
	return pool
}

// rankPool orders the merged candidate pool. Money mode favors full-content
// museums at the lowest expected net price; time mode favors must-see and
// short visits to maximize count. Ties break on museum name for stable
// regeneration.
func rankPool(pool []candidate, mode Mode) {
	sort.SliceStable(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		switch mode {
		case ModeTime:
			if mustSee(a.museum) != mustSee(b.museum) {
				return mustSee(a.museum)
			}
			if a.duration != b.duration {
				return a.duration < b.duration
			}
		default: // money
			if a.museum.HasFullContent != b.museum.HasFullContent {
				return a.museum.HasFullContent
			}
			ap, bp := priceRank(a.netPrice), priceRank(b.netPrice)
			if ap != bp {
				return ap < bp
			}
		}
		return a.museum.Name < b.museum.Name
	})
}

func mustSee(m catalog.Museum) bool {
	return strings.Contains(strings.ToLower(m.Tags), "must-see")
}

// priceRank maps unknown prices behind every known price.
func priceRank(p *float64) float64 {
	if p == nil {
		return 1 << 20
	}
	return *p
}

// dayBudget derives the visiting budget in hours for every day of the range.
func (b *Builder) dayBudget(req Request) float64 {
	if req.BudgetMode != BudgetTimeWindow {
		return b.config.DailyBudgetHours
	}
	start, err1 := time.Parse("15:04", req.WindowStart)
	end, err2 := time.Parse("15:04", req.WindowEnd)
	if err1 != nil || err2 != nil || !end.After(start) {
		return b.config.DailyBudgetHours
	}
	return end.Sub(start).Hours()
}
