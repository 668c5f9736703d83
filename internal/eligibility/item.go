package eligibility

import (
	"time"
)

// DateLayout is the wire format for all eligibility dates.
const DateLayout = "2006-01-02"

// Membership records membership in one participating museum.
type Membership struct {
	MuseumID  string `json:"museum_id"`
	ExpiresOn string `json:"expires_on,omitempty"`
}

// Item is one claimed eligibility. At most one item per type is kept.
//
// An item with neither ExpiresOn nor Lifetime set is inert for date-bounded
// evaluation: it still satisfies plain type-match rules but never qualifies
// for time-sensitive ones.
type Item struct {
	Type        Type         `json:"type"`
	Schools     []string     `json:"schools,omitempty"`
	Libraries   []string     `json:"libraries,omitempty"`
	Companies   []string     `json:"companies,omitempty"`
	Cities      []string     `json:"cities,omitempty"`
	Locations   []string     `json:"locations,omitempty"`
	DateOfBirth string       `json:"date_of_birth,omitempty"`
	Memberships []Membership `json:"museum_memberships,omitempty"`
	ExpiresOn   string       `json:"expires_on,omitempty"`
	Lifetime    bool         `json:"lifetime,omitempty"`
}

// TimeBound reports whether the item participates in date-bounded rule
// evaluation at all.
func (it Item) TimeBound() bool {
	return it.Lifetime || it.ExpiresOn != ""
}

// ExpiredAt reports whether the item's expiry has passed at now. Lifetime
// items never expire; items with no expiry date report false here (they are
// filtered out of time-sensitive rules by TimeBound instead).
func (it Item) ExpiredAt(now time.Time) bool {
	if it.Lifetime || it.ExpiresOn == "" {
		return false
	}
	exp, err := time.Parse(DateLayout, it.ExpiresOn)
	if err != nil {
		// Unparseable expiry never qualifies for time-sensitive rules.
		return true
	}
	return exp.Before(now.Truncate(24 * time.Hour))
}

// Age returns the whole-year age derived from DateOfBirth at now. The second
// return value is false when no parseable date of birth is present.
func (it Item) Age(now time.Time) (int, bool) {
	if it.DateOfBirth == "" {
		return 0, false
	}
	dob, err := time.Parse(DateLayout, it.DateOfBirth)
	if err != nil {
		return 0, false
	}
	years := now.Year() - dob.Year()
	if now.YearDay() < dob.YearDay() {
		years--
	}
	if years < 0 {
		return 0, false
	}
	return years, true
}

// MembershipFor returns the membership entry for museumID, if any.
func (it Item) MembershipFor(museumID string) (Membership, bool) {
	for _, m := range it.Memberships {
		if m.MuseumID == museumID {
			return m, true
		}
	}
	return Membership{}, false
}

// FindItem returns the item of type t from items, if present.
func FindItem(items []Item, t Type) (Item, bool) {
	for _, it := range items {
		if it.Type == t {
			return it, true
		}
	}
	return Item{}, false
}
