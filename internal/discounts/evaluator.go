package discounts

import (
	"strings"

	"github.com/musemap/trip-service/internal/eligibility"
)

// ComputeRows evaluates every discount definition against the user's
// eligibility set at Input.Now. Rows come back in definition-declaration
// order, never sorted by price; best-price selection is the caller's job.
//
// A malformed definition or unusable eligibility detail fails only its own
// row; evaluation of the remaining rules continues.
func ComputeRows(in Input, defs []Definition) []Row {
	rows := make([]Row, 0, len(defs))
	for _, def := range defs {
		rows = append(rows, evaluate(in, def))
	}
	return rows
}

// BestPrice returns the minimum YourPrice over qualifying rows. The second
// return value is false when no qualifying row carries a determinable price.
func BestPrice(rows []Row) (float64, bool) {
	best := 0.0
	found := false
	for _, row := range rows {
		if !row.Qualifies || row.YourPrice == nil {
			continue
		}
		if !found || *row.YourPrice < best {
			best = *row.YourPrice
			found = true
		}
	}
	return best, found
}

func evaluate(in Input, def Definition) Row {
	row := Row{
		ID:          def.ID,
		Name:        def.Name,
		Icon:        def.Icon,
		Description: def.Description,
		Note:        def.Note,
	}

	value, err := ParseValue(def.Value)
	if err != nil {
		row.StatusVariant = VariantWarning
		row.StatusLabel = "Unavailable"
		row.Note = "discount rule could not be read"
		return row
	}

	item, ok, failNote := matchType(in, def)
	if !ok {
		row.StatusVariant = VariantNeutral
		row.StatusLabel = "Not eligible"
		if failNote != "" {
			row.Note = failNote
		}
		return row
	}

	if item.ExpiredAt(in.Now) {
		row.StatusVariant = VariantWarning
		row.StatusLabel = "Expired"
		row.Note = "eligibility has expired"
		row.NextEligible = nextOccurrence(def.Window, in.Now)
		return row
	}

	if def.Window != nil {
		if !item.TimeBound() {
			// Inert item: drives plain type-match rules only.
			row.StatusVariant = VariantNeutral
			row.StatusLabel = "Not eligible"
			return row
		}
		if !windowActive(def.Window, in) {
			row.StatusVariant = VariantNeutral
			row.StatusLabel = "Not active today"
			row.NextEligible = nextOccurrence(def.Window, in.Now)
			return row
		}
	}

	row.Qualifies = true
	row.StatusVariant = VariantSuccess
	row.StatusLabel = "Eligible"
	row.YourPrice = priceFor(value, in.BasePrice)
	return row
}

// matchType finds the first eligibility item satisfying the definition's
// applicability predicate, including derived checks (age brackets, residency
// locations, museum memberships).
func matchType(in Input, def Definition) (eligibility.Item, bool, string) {
	var note string
	for _, t := range def.Types {
		item, found := eligibility.FindItem(in.Eligibilities, t)
		if !found {
			continue
		}

		if def.AgeMin != nil || def.AgeMax != nil {
			age, ok := item.Age(in.Now)
			if !ok {
				note = "date of birth required"
				continue
			}
			if def.AgeMin != nil && age < *def.AgeMin {
				continue
			}
			if def.AgeMax != nil && age > *def.AgeMax {
				continue
			}
		}

		if len(def.Locations) > 0 && !locationMatch(item, def.Locations) {
			note = "not available for your location"
			continue
		}

		if t == eligibility.TypeMuseumMember {
			m, ok := item.MembershipFor(in.MuseumID)
			if !ok {
				continue
			}
			member := eligibility.Item{Type: t, ExpiresOn: m.ExpiresOn, Lifetime: m.ExpiresOn == ""}
			if member.ExpiredAt(in.Now) {
				note = "membership has expired"
				continue
			}
		}

		return item, true, ""
	}
	return eligibility.Item{}, false, note
}

func locationMatch(item eligibility.Item, ruleLocations []string) bool {
	claimed := make([]string, 0, len(item.Locations)+len(item.Cities))
	claimed = append(claimed, item.Locations...)
	claimed = append(claimed, item.Cities...)
	for _, want := range ruleLocations {
		for _, have := range claimed {
			if strings.EqualFold(strings.TrimSpace(want), strings.TrimSpace(have)) {
				return true
			}
		}
	}
	return false
}

func windowActive(w *Window, in Input) bool {
	if w.Recurring == RecurFirstFullWeekend {
		return InFirstFullWeekend(in.Now)
	}
	if w.Recurring != "" {
		// Unknown recurrence patterns never activate.
		return false
	}
	return withinFixedWindow(w, in.Now)
}

func priceFor(v Value, basePrice *float64) *float64 {
	switch v.Kind {
	case ValueFree:
		p := 0.0
		return &p
	case ValueFlat:
		p := v.Apply(v.Amount)
		return &p
	case ValuePercent:
		if basePrice == nil {
			return nil
		}
		p := v.Apply(*basePrice)
		return &p
	}
	return nil
}
