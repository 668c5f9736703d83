package eligibility

import (
	"encoding/json"
	"strings"
)

// legacyTypes maps pre-structured plain-string entries (the original
// persistence format) to their modern types. Unrecognized legacy strings are
// dropped rather than guessed at.
var legacyTypes = map[string]Type{
	"snap":            TypeSnapEBT,
	"ebt":             TypeSnapEBT,
	"military":        TypeMilitary,
	"veteran":         TypeVeteran,
	"student":         TypeStudent,
	"teacher":         TypeTeacher,
	"library":         TypeLibraryCard,
	"city_pass":       TypeCityPass,
	"resident":        TypeResident,
	"member":          TypeMuseumMember,
	"bofa":            TypeBofAMuseumsOnUs,
	"museums_on_us":   TypeBofAMuseumsOnUs,
	"first_responder": TypeFirstResponder,
}

// Serialize encodes items into the flat string-array persistence shape, one
// JSON document per item, order preserved.
func Serialize(items []Item) ([]string, error) {
	out := make([]string, 0, len(items))
	for _, it := range items {
		raw, err := json.Marshal(it)
		if err != nil {
			return nil, err
		}
		out = append(out, string(raw))
	}
	return out, nil
}

// Deserialize decodes the persisted string array back into items.
//
// Modern entries are JSON documents; legacy plain strings are migrated
// through legacyTypes and come back as bare (inert) items. Entries that are
// neither valid JSON items nor recognized legacy strings are dropped.
// Duplicate types keep the first occurrence.
func Deserialize(raw []string) []Item {
	items := make([]Item, 0, len(raw))
	seen := make(map[Type]bool, len(raw))

	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		var it Item
		if strings.HasPrefix(entry, "{") {
			if err := json.Unmarshal([]byte(entry), &it); err != nil {
				continue
			}
		} else {
			t, ok := legacyTypes[strings.ToLower(entry)]
			if !ok {
				continue
			}
			it = Item{Type: t}
		}

		if !Valid(it.Type) || seen[it.Type] {
			continue
		}
		seen[it.Type] = true
		items = append(items, it)
	}
	return items
}
