package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/musemap/trip-service/internal/discounts"
	"github.com/musemap/trip-service/internal/eligibility"
)

// ============================================================================
// Discount Evaluation Endpoints
// ============================================================================

// EvaluateDiscountsRequest asks for the discount breakdown of one museum
type EvaluateDiscountsRequest struct {
	MuseumID       string   `json:"museumId" binding:"required"`
	TicketCategory string   `json:"ticketCategory,omitempty"`
	Eligibilities  []string `json:"eligibilities,omitempty"`
	// On lets callers pin evaluation to a date (RFC 3339); defaults to now.
	On string `json:"on,omitempty"`
}

// EvaluateDiscounts returns the per-rule discount rows for a museum
// POST /internal/discounts/evaluate
func EvaluateDiscounts(c *gin.Context) {
	var req EvaluateDiscountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now().UTC()
	if req.On != "" {
		parsed, err := time.Parse(time.RFC3339, req.On)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "on must be RFC 3339"})
			return
		}
		now = parsed.UTC()
	}

	rules, err := museumCatalog.Rules(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ticket rules unavailable"})
		return
	}

	rs, ok := rules[req.MuseumID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no ticket rules for museum"})
		return
	}

	category := req.TicketCategory
	if category == "" {
		category = "adult"
	}
	base := rs.BasePrice(category)

	var hoursText string
	if museums, err := museumCatalog.Museums(c.Request.Context()); err == nil {
		for _, m := range museums {
			if m.MuseumID == req.MuseumID {
				hoursText = m.OpeningHours
				break
			}
		}
	}

	rows := discounts.ComputeRows(discounts.Input{
		Eligibilities:  eligibility.Deserialize(req.Eligibilities),
		BasePrice:      base,
		TicketCategory: category,
		MuseumID:       req.MuseumID,
		Now:            now,
		Hours:          hoursText,
	}, rs.Discounts)

	response := gin.H{
		"museumId":  req.MuseumID,
		"category":  category,
		"currency":  rs.Currency,
		"basePrice": base,
		"rows":      rows,
	}
	if best, ok := discounts.BestPrice(rows); ok {
		response["bestPrice"] = best
	}
	c.JSON(http.StatusOK, response)
}

// EligibilityCatalog returns the supported eligibility types in display order
// GET /internal/eligibility/catalog
func EligibilityCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"types": eligibility.Catalog,
		"total": len(eligibility.Catalog),
	})
}
