package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/musemap/trip-service/internal/eligibility"
	"github.com/musemap/trip-service/internal/planner"
	"github.com/musemap/trip-service/internal/visits"
)

// ============================================================================
// Plan Preview Endpoint
// ============================================================================

// PlanPreviewRequest carries ad-hoc plan parameters. Nothing is persisted;
// the response is the same Results shape a generated visit stores.
type PlanPreviewRequest struct {
	DateMode       string         `json:"dateMode" binding:"required,oneof=fixed flexible"`
	StartDate      string         `json:"startDate,omitempty"`
	EndDate        string         `json:"endDate,omitempty"`
	FlexibleDays   int            `json:"flexibleDays,omitempty"`
	TimeBudgetMode string         `json:"timeBudgetMode,omitempty"`
	WindowStart    string         `json:"windowStart,omitempty"`
	WindowEnd      string         `json:"windowEnd,omitempty"`
	Stops          []planner.Stop `json:"stops" binding:"required,min=1,max=20"`
	Mode           string         `json:"mode" binding:"required,oneof=money time"`
	TicketCategory string         `json:"ticketCategory,omitempty"`
	Eligibilities  []string       `json:"eligibilities,omitempty"`
}

// PreviewPlan builds an itinerary and ticket plan without saving a visit
// POST /internal/plan/preview
func PreviewPlan(c *gin.Context) {
	var req PlanPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	budgetMode := planner.TimeBudgetMode(req.TimeBudgetMode)
	if budgetMode == "" {
		budgetMode = planner.BudgetAllDay
	}

	v := &visits.Visit{
		DateMode:       planner.DateMode(req.DateMode),
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		FlexibleDays:   req.FlexibleDays,
		BudgetMode:     budgetMode,
		WindowStart:    req.WindowStart,
		WindowEnd:      req.WindowEnd,
		Stops:          req.Stops,
		Mode:           planner.Mode(req.Mode),
		TicketCategory: req.TicketCategory,
		Eligibilities:  eligibility.Deserialize(req.Eligibilities),
	}

	results, err := visitService.Preview(c.Request.Context(), v)
	if err != nil {
		respondVisitError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
