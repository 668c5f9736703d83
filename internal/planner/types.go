// Package planner builds day-by-day museum itineraries from a visit request
// and the museum catalog, under open-hours and time-budget constraints.
package planner

import (
	"fmt"
	"time"

	"github.com/musemap/trip-service/internal/catalog"
	"github.com/musemap/trip-service/internal/hours"
)

// DateMode selects how the visit's date range is resolved.
type DateMode string

const (
	DateModeFixed    DateMode = "fixed"
	DateModeFlexible DateMode = "flexible"
)

// TimeBudgetMode selects how each day's visiting budget is derived.
type TimeBudgetMode string

const (
	BudgetAllDay     TimeBudgetMode = "all_day"
	BudgetTimeWindow TimeBudgetMode = "time_window"
)

// Mode selects the optimization goal for museum ranking.
type Mode string

const (
	ModeMoney Mode = "money" // cheapest net admission first
	ModeTime  Mode = "time"  // most museums visited
)

// DateLayout is the wire format for itinerary dates.
const DateLayout = "2006-01-02"

// Stop is one geographic anchor in a visit request. Granularity may be as
// coarse as a region; ResolveCenter picks the representative centroid.
type Stop struct {
	ID       string   `json:"id"`
	Region   string   `json:"region,omitempty"`
	Country  string   `json:"country,omitempty"`
	State    string   `json:"state,omitempty"`
	City     string   `json:"city,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
	RadiusKm float64  `json:"radius_km,omitempty"`
}

// Request is the planning input for one visit.
type Request struct {
	DateMode     DateMode       `json:"dateMode"`
	StartDate    string         `json:"startDate,omitempty"`
	EndDate      string         `json:"endDate,omitempty"`
	FlexibleDays int            `json:"flexibleDays,omitempty"`
	BudgetMode   TimeBudgetMode `json:"timeBudgetMode,omitempty"`
	WindowStart  string         `json:"windowStart,omitempty"` // "10:00"
	WindowEnd    string         `json:"windowEnd,omitempty"`   // "16:30"
	Stops        []Stop         `json:"stops"`
	Mode         Mode           `json:"mode"`
}

// PriceResult is the admission summary attached to a placed museum once the
// ticket plan has been computed. Price nil means unknown, never zero.
type PriceResult struct {
	Price   *float64 `json:"price"`
	Savings float64  `json:"savings"`
	Notes   []string `json:"notes,omitempty"`
}

// MuseumVisit is one museum placed on an itinerary day.
type MuseumVisit struct {
	Museum            catalog.Museum  `json:"museum"`
	OpenStatus        hours.DayStatus `json:"openStatus"`
	SuggestedDuration float64         `json:"suggestedDuration"` // hours
	PriceResult       *PriceResult    `json:"priceResult,omitempty"`
}

// Day is one calendar day of the itinerary. An empty Museums slice is a rest
// day and is kept so the UI can render it.
type Day struct {
	Date    string        `json:"date"`
	Museums []MuseumVisit `json:"museums"`
}

// PriceEstimator supplies expected net admission prices for money-mode
// ranking. Nil results mean unknown and rank last.
type PriceEstimator interface {
	EstimatePrice(museumID string) *float64
}

// ErrInvalidDateRange is returned when a fixed-mode request has its end date
// before its start date. Callers must validate user input before invoking
// the builder; this is a precondition violation, not a recoverable state.
type ErrInvalidDateRange struct {
	Start string
	End   string
}

func (e ErrInvalidDateRange) Error() string {
	return fmt.Sprintf("invalid date range: end %s before start %s", e.End, e.Start)
}

// ErrBadRequest flags malformed planning input (unparseable dates, unknown
// modes).
type ErrBadRequest struct {
	Field  string
	Reason string
}

func (e ErrBadRequest) Error() string {
	return e.Field + ": " + e.Reason
}

func parseDay(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
