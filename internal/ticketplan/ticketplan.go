// Package ticketplan summarizes admission pricing for every museum placed in
// an itinerary: the best applicable discount per museum and trip-level
// totals with missing-price museums counted explicitly.
package ticketplan

import (
	"time"

	"github.com/musemap/trip-service/internal/catalog"
	"github.com/musemap/trip-service/internal/discounts"
	"github.com/musemap/trip-service/internal/eligibility"
	"github.com/musemap/trip-service/internal/planner"
)

// DefaultCategory prices against the adult admission unless the visit says
// otherwise.
const DefaultCategory = "adult"

// Best is the winning price for one museum. Price nil means pricing could
// not be determined (no zero-coercion, no base-price fallback).
type Best struct {
	Price   *float64 `json:"price"`
	Savings float64  `json:"savings"`
	Notes   []string `json:"notes,omitempty"`
}

// Item is that museum's per-trip price summary.
type Item struct {
	MuseumID       string          `json:"museumId"`
	MuseumName     string          `json:"museumName"`
	Category       string          `json:"category"`
	Currency       string          `json:"currency,omitempty"`
	RulesAvailable bool            `json:"rulesAvailable"`
	BasePrice      *float64        `json:"basePrice"`
	BestPrice      *Best           `json:"bestPrice,omitempty"`
	Rows           []discounts.Row `json:"rows,omitempty"`
}

// Totals is the trip-level reduction over non-null prices. UnknownCount
// reports how many museums are excluded from the sums so the totals are
// never silently understated.
type Totals struct {
	BaseTotal      float64 `json:"baseTotal"`
	EffectiveTotal float64 `json:"effectiveTotal"`
	SavingsTotal   float64 `json:"savingsTotal"`
	PricedCount    int     `json:"pricedCount"`
	UnknownCount   int     `json:"unknownCount"`
}

// Build evaluates every distinct museum appearing in the itinerary against
// the rule table, in first-appearance order.
func Build(itinerary []planner.Day, rules catalog.RuleTable, items []eligibility.Item, category string, now time.Time) []Item {
	if category == "" {
		category = DefaultCategory
	}

	seen := make(map[string]bool)
	plan := make([]Item, 0)
	for _, day := range itinerary {
		for _, mv := range day.Museums {
			if seen[mv.Museum.MuseumID] {
				continue
			}
			seen[mv.Museum.MuseumID] = true
			plan = append(plan, buildItem(mv.Museum, rules, items, category, now))
		}
	}
	return plan
}

func buildItem(m catalog.Museum, rules catalog.RuleTable, items []eligibility.Item, category string, now time.Time) Item {
	item := Item{
		MuseumID:   m.MuseumID,
		MuseumName: m.Name,
		Category:   category,
	}

	rs, ok := rules[m.MuseumID]
	if !ok {
		// Configuration missing: rulesAvailable=false, prices stay null.
		return item
	}

	item.RulesAvailable = true
	item.Currency = rs.Currency
	item.BasePrice = rs.BasePrice(category)

	rows := discounts.ComputeRows(discounts.Input{
		Eligibilities:  items,
		BasePrice:      item.BasePrice,
		TicketCategory: category,
		MuseumID:       m.MuseumID,
		Now:            now,
		Hours:          m.OpeningHours,
	}, rs.Discounts)
	item.Rows = rows

	best := Best{Price: item.BasePrice}
	if price, ok := discounts.BestPrice(rows); ok {
		if item.BasePrice == nil || price < *item.BasePrice {
			best.Price = &price
			if item.BasePrice != nil {
				best.Savings = *item.BasePrice - price
			}
			if note := bestNote(rows, price); note != "" {
				best.Notes = []string{note}
			}
		}
	}
	item.BestPrice = &best
	return item
}

// bestNote returns the note of the first qualifying row achieving the best
// price, which is the row the UI surfaces as "why this price".
func bestNote(rows []discounts.Row, price float64) string {
	for _, row := range rows {
		if row.Qualifies && row.YourPrice != nil && *row.YourPrice == price {
			if row.Note != "" {
				return row.Note
			}
			return row.Name
		}
	}
	return ""
}

// Sum reduces plan items into trip totals. Items with a null effective price
// are excluded from every sum and counted in UnknownCount.
func Sum(plan []Item) Totals {
	var t Totals
	for _, item := range plan {
		price := effectivePrice(item)
		if price == nil {
			t.UnknownCount++
			continue
		}
		t.PricedCount++
		t.EffectiveTotal += *price
		if item.BasePrice != nil {
			t.BaseTotal += *item.BasePrice
			t.SavingsTotal += *item.BasePrice - *price
		}
	}
	return t
}

func effectivePrice(item Item) *float64 {
	if item.BestPrice != nil && item.BestPrice.Price != nil {
		return item.BestPrice.Price
	}
	return nil
}

// Estimator adapts the evaluator into the planner's money-mode ranking
// interface, binding eligibilities, category and now up front.
type Estimator struct {
	Rules    catalog.RuleTable
	Items    []eligibility.Item
	Category string
	Now      time.Time
}

// EstimatePrice returns the expected net admission for one museum, nil when
// no pricing is known.
func (e *Estimator) EstimatePrice(museumID string) *float64 {
	rs, ok := e.Rules[museumID]
	if !ok {
		return nil
	}
	category := e.Category
	if category == "" {
		category = DefaultCategory
	}
	base := rs.BasePrice(category)
	rows := discounts.ComputeRows(discounts.Input{
		Eligibilities:  e.Items,
		BasePrice:      base,
		TicketCategory: category,
		MuseumID:       museumID,
		Now:            e.Now,
	}, rs.Discounts)
	if price, ok := discounts.BestPrice(rows); ok {
		if base == nil || price < *base {
			return &price
		}
	}
	return base
}
