// Package discounts evaluates a museum's admission discount rules against a
// user's eligibility set and a target date, producing per-rule rows and the
// material for best-price selection.
package discounts

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/musemap/trip-service/internal/eligibility"
)

// ValueKind classifies how a discount rule changes the base price.
type ValueKind string

const (
	ValueFree    ValueKind = "free"
	ValueFlat    ValueKind = "flat"    // fixed admission price
	ValuePercent ValueKind = "percent" // percentage off base
)

// Value is a parsed discount value.
type Value struct {
	Kind   ValueKind
	Amount float64
}

// ParseValue parses the wire encoding of a discount value: "free",
// "flat:<price>" or "percent:<pct>".
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == string(ValueFree) {
		return Value{Kind: ValueFree}, nil
	}
	kind, amount, found := strings.Cut(s, ":")
	if !found {
		return Value{}, fmt.Errorf("malformed discount value %q", s)
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil || n < 0 {
		return Value{}, fmt.Errorf("malformed discount amount %q", s)
	}
	switch ValueKind(kind) {
	case ValueFlat:
		return Value{Kind: ValueFlat, Amount: n}, nil
	case ValuePercent:
		return Value{Kind: ValuePercent, Amount: n}, nil
	}
	return Value{}, fmt.Errorf("unknown discount kind %q", kind)
}

// Apply computes the resulting admission price for a base price. The result
// is clamped to zero; a discount never produces a negative price.
func (v Value) Apply(basePrice float64) float64 {
	var price float64
	switch v.Kind {
	case ValueFree:
		price = 0
	case ValueFlat:
		price = v.Amount
	case ValuePercent:
		price = basePrice * (1 - v.Amount/100)
	default:
		price = basePrice
	}
	if price < 0 {
		return 0
	}
	return price
}

// Recurrence names a recurring date-window pattern.
type Recurrence string

const (
	// RecurFirstFullWeekend is the first Saturday/Sunday pair falling
	// entirely within a calendar month (e.g. Museums on Us).
	RecurFirstFullWeekend Recurrence = "first_full_weekend"
)

// Window bounds when a rule is active. Either fixed Start/End dates
// (inclusive, DateLayout) or a Recurring pattern.
type Window struct {
	Start     string     `json:"start,omitempty"`
	End       string     `json:"end,omitempty"`
	Recurring Recurrence `json:"recurring,omitempty"`
}

// Definition is one discount rule attached to a museum's admission
// configuration.
type Definition struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Icon        string             `json:"icon,omitempty"`
	Description string             `json:"description,omitempty"`
	Types       []eligibility.Type `json:"types"`
	Value       string             `json:"value"`
	Window      *Window            `json:"window,omitempty"`
	AgeMin      *int               `json:"age_min,omitempty"`
	AgeMax      *int               `json:"age_max,omitempty"`
	Locations   []string           `json:"locations,omitempty"`
	Note        string             `json:"note,omitempty"`
}

// Row is the evaluated outcome of one rule for a specific museum, ticket
// category and date. YourPrice is nil when pricing cannot be determined from
// the available data; it is never coerced to zero or to the base price.
type Row struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Icon          string   `json:"icon,omitempty"`
	Description   string   `json:"description,omitempty"`
	Qualifies     bool     `json:"qualifies"`
	YourPrice     *float64 `json:"yourPrice"`
	StatusVariant string   `json:"statusVariant"`
	StatusLabel   string   `json:"statusLabel"`
	Note          string   `json:"note,omitempty"`
	NextEligible  string   `json:"nextEligible,omitempty"`
}

// Input carries everything ComputeRows needs. Now is injected by the caller
// so evaluation stays deterministic.
type Input struct {
	Eligibilities  []eligibility.Item
	BasePrice      *float64
	TicketCategory string
	MuseumID       string
	Now            time.Time
	Hours          string
}

// Status variants understood by the UI layer.
const (
	VariantSuccess = "success"
	VariantNeutral = "neutral"
	VariantWarning = "warning"
)

func withinFixedWindow(w *Window, now time.Time) bool {
	day := now.Truncate(24 * time.Hour)
	if w.Start != "" {
		start, err := time.Parse(DateLayout, w.Start)
		if err != nil || day.Before(start) {
			return false
		}
	}
	if w.End != "" {
		end, err := time.Parse(DateLayout, w.End)
		if err != nil || day.After(end) {
			return false
		}
	}
	return true
}

// DateLayout is the wire format for window and next-eligible dates.
const DateLayout = "2006-01-02"
