// Package catalog provides read-only access to the museum catalog and the
// per-museum ticket-rule table. Both are static JSON documents maintained
// outside this service; the planning core treats them as immutable input.
package catalog

import (
	"context"

	"github.com/musemap/trip-service/internal/discounts"
)

// Museum is one museum record. Planning never mutates these.
type Museum struct {
	MuseumID       string  `json:"museum_id"`
	Name           string  `json:"name"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	City           string  `json:"city,omitempty"`
	State          string  `json:"state,omitempty"`
	Country        string  `json:"country,omitempty"`
	Address        string  `json:"address,omitempty"`
	Website        string  `json:"website,omitempty"`
	OpeningHours   string  `json:"opening_hours,omitempty"`
	HasFullContent bool    `json:"has_full_content"`
	Tags           string  `json:"tags,omitempty"`
}

// TicketCategory labels one admission category ("adult", "child", ...).
type TicketCategory struct {
	CategoryID string `json:"category_id"`
	Label      string `json:"label"`
}

// RuleSet is one museum's admission configuration.
type RuleSet struct {
	BasePrices map[string]float64     `json:"basePrices"`
	Currency   string                 `json:"currency"`
	Categories []TicketCategory       `json:"categories,omitempty"`
	Discounts  []discounts.Definition `json:"discounts"`
}

// BasePrice returns the base price for a ticket category, nil when the
// category is not priced in this rule set.
func (rs RuleSet) BasePrice(category string) *float64 {
	if rs.BasePrices == nil {
		return nil
	}
	p, ok := rs.BasePrices[category]
	if !ok {
		return nil
	}
	return &p
}

// RuleTable maps museum IDs to their admission configuration. A museum
// absent from the table has no rules available; its prices stay unknown.
type RuleTable map[string]RuleSet

// Source supplies the catalog documents.
type Source interface {
	Museums(ctx context.Context) ([]Museum, error)
	Rules(ctx context.Context) (RuleTable, error)
}
