// Package visits holds saved trip plans and the service that generates
// itineraries and ticket plans for them.
package visits

import (
	"time"

	"github.com/musemap/trip-service/internal/eligibility"
	"github.com/musemap/trip-service/internal/planner"
	"github.com/musemap/trip-service/internal/ticketplan"
)

// Visit is a saved trip plan: the user's request plus, once generated, the
// itinerary and ticket plan derived from it.
type Visit struct {
	ID     string `json:"id"` // vst-prefixed ID
	UserID string `json:"userId"`
	Name   string `json:"name"`

	DateMode       planner.DateMode       `json:"dateMode"`
	StartDate      string                 `json:"startDate,omitempty"`
	EndDate        string                 `json:"endDate,omitempty"`
	FlexibleDays   int                    `json:"flexibleDays,omitempty"`
	BudgetMode     planner.TimeBudgetMode `json:"timeBudgetMode"`
	WindowStart    string                 `json:"windowStart,omitempty"`
	WindowEnd      string                 `json:"windowEnd,omitempty"`
	Stops          []planner.Stop         `json:"stops"`
	Mode           planner.Mode           `json:"mode"`
	TicketCategory string                 `json:"ticketCategory,omitempty"`

	Eligibilities []eligibility.Item `json:"eligibilities,omitempty"`

	Results *Results `json:"results,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Results is everything Generate produces. It is attached to the visit as a
// unit so readers never observe an itinerary without its matching ticket
// plan.
type Results struct {
	Itinerary   []planner.Day     `json:"itinerary"`
	TicketPlan  []ticketplan.Item `json:"ticketPlan"`
	Totals      ticketplan.Totals `json:"totals"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// Request converts the stored plan parameters into a planner request.
func (v *Visit) Request() planner.Request {
	return planner.Request{
		DateMode:     v.DateMode,
		StartDate:    v.StartDate,
		EndDate:      v.EndDate,
		FlexibleDays: v.FlexibleDays,
		BudgetMode:   v.BudgetMode,
		WindowStart:  v.WindowStart,
		WindowEnd:    v.WindowEnd,
		Stops:        v.Stops,
		Mode:         v.Mode,
	}
}
