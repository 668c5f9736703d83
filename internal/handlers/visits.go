package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/musemap/trip-service/internal/eligibility"
	"github.com/musemap/trip-service/internal/planner"
	"github.com/musemap/trip-service/internal/visits"
)

// ============================================================================
// Visit Endpoints
// ============================================================================

// VisitRequest is the request body for creating or updating a visit
type VisitRequest struct {
	Name           string         `json:"name" binding:"required"`
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

func (r *VisitRequest) toVisit(userID string) *visits.Visit {
	budgetMode := planner.TimeBudgetMode(r.TimeBudgetMode)
	if budgetMode == "" {
		budgetMode = planner.BudgetAllDay
	}
	return &visits.Visit{
		UserID:         userID,
		Name:           r.Name,
		DateMode:       planner.DateMode(r.DateMode),
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		FlexibleDays:   r.FlexibleDays,
		BudgetMode:     budgetMode,
		WindowStart:    r.WindowStart,
		WindowEnd:      r.WindowEnd,
		Stops:          r.Stops,
		Mode:           planner.Mode(r.Mode),
		TicketCategory: r.TicketCategory,
		Eligibilities:  eligibility.Deserialize(r.Eligibilities),
	}
}

// CreateVisit handles visit creation
// POST /internal/visits
func CreateVisit(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req VisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := visitService.Create(c.Request.Context(), req.toVisit(uid))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListVisits returns the caller's visits, newest first
// GET /internal/visits
func ListVisits(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	list, err := visitService.List(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"visits": list,
		"total":  len(list),
	})
}

// GetVisit returns one visit
// GET /internal/visits/:visitId
func GetVisit(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	v, err := visitService.Get(c.Request.Context(), uid, c.Param("visitId"))
	if err != nil {
		respondVisitError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// UpdateVisit replaces a visit's plan parameters and clears stale results
// PUT /internal/visits/:visitId
func UpdateVisit(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req VisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v := req.toVisit(uid)
	v.ID = c.Param("visitId")

	updated, err := visitService.Update(c.Request.Context(), v)
	if err != nil {
		respondVisitError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteVisit removes a visit
// DELETE /internal/visits/:visitId
func DeleteVisit(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	if err := visitService.Delete(c.Request.Context(), uid, c.Param("visitId")); err != nil {
		respondVisitError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// GenerateVisit builds the itinerary and ticket plan for a visit
// POST /internal/visits/:visitId/generate
func GenerateVisit(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	v, err := visitService.Generate(c.Request.Context(), uid, c.Param("visitId"))
	if err != nil {
		respondVisitError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// DuplicateVisit copies a visit's parameters into a new, ungenerated visit
// POST /internal/visits/:visitId/duplicate
func DuplicateVisit(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name,omitempty"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	dup, err := visitService.Duplicate(c.Request.Context(), uid, c.Param("visitId"), req.Name)
	if err != nil {
		respondVisitError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dup)
}

func respondVisitError(c *gin.Context, err error) {
	var rangeErr planner.ErrInvalidDateRange
	var reqErr planner.ErrBadRequest
	switch {
	case errors.Is(err, visits.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "visit not found"})
	case errors.As(err, &rangeErr), errors.As(err, &reqErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
