package discounts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musemap/trip-service/internal/eligibility"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func baseInput(items ...eligibility.Item) Input {
	return Input{
		Eligibilities:  items,
		BasePrice:      floatPtr(40),
		TicketCategory: "adult",
		MuseumID:       "mus-001",
		Now:            time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC), // a Wednesday
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in      string
		want    Value
		wantErr bool
	}{
		{"free", Value{Kind: ValueFree}, false},
		{"flat:3", Value{Kind: ValueFlat, Amount: 3}, false},
		{"percent:50", Value{Kind: ValuePercent, Amount: 50}, false},
		{"FLAT:12.5", Value{Kind: ValueFlat, Amount: 12.5}, false},
		{"flat:-3", Value{}, true},
		{"half-off", Value{}, true},
		{"coupon:5", Value{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseValue(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueApplyNeverNegative(t *testing.T) {
	assert.Equal(t, 0.0, Value{Kind: ValuePercent, Amount: 150}.Apply(40))
	assert.Equal(t, 0.0, Value{Kind: ValueFree}.Apply(40))
	assert.Equal(t, 20.0, Value{Kind: ValuePercent, Amount: 50}.Apply(40))
}

func TestSnapFlatDiscountQualifies(t *testing.T) {
	in := baseInput(eligibility.Item{Type: eligibility.TypeSnapEBT, Lifetime: true})
	defs := []Definition{{
		ID:    "museums-for-all",
		Name:  "Museums for All",
		Types: []eligibility.Type{eligibility.TypeSnapEBT},
		Value: "flat:3",
	}}

	rows := ComputeRows(in, defs)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Qualifies)
	require.NotNil(t, rows[0].YourPrice)
	assert.Equal(t, 3.0, *rows[0].YourPrice)
	assert.Equal(t, VariantSuccess, rows[0].StatusVariant)
}

func TestRowWithoutMatchingType(t *testing.T) {
	in := baseInput() // no eligibilities at all
	defs := []Definition{{
		ID:    "military-free",
		Types: []eligibility.Type{eligibility.TypeMilitary},
		Value: "free",
	}}

	rows := ComputeRows(in, defs)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Qualifies)
	assert.Nil(t, rows[0].YourPrice)
	assert.Equal(t, "Not eligible", rows[0].StatusLabel)
}

func TestExpiredItemFailsTimeBoundedRule(t *testing.T) {
	in := baseInput(eligibility.Item{Type: eligibility.TypeStudent, ExpiresOn: "2025-06-30"})
	defs := []Definition{{
		ID:     "student-summer",
		Types:  []eligibility.Type{eligibility.TypeStudent},
		Value:  "percent:50",
		Window: &Window{Start: "2026-06-01", End: "2026-08-31"},
	}}

	rows := ComputeRows(in, defs)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Qualifies)
	assert.Equal(t, "Expired", rows[0].StatusLabel)
	assert.Nil(t, rows[0].YourPrice)
}

func TestInertItemNeverQualifiesForWindowedRule(t *testing.T) {
	// Neither expires_on nor lifetime: inert for date-bounded evaluation.
	inert := eligibility.Item{Type: eligibility.TypeStudent}
	in := baseInput(inert)
	defs := []Definition{
		{
			ID:     "student-summer",
			Types:  []eligibility.Type{eligibility.TypeStudent},
			Value:  "percent:50",
			Window: &Window{Start: "2026-06-01", End: "2026-08-31"},
		},
		{
			ID:    "student-anytime",
			Types: []eligibility.Type{eligibility.TypeStudent},
			Value: "percent:25",
		},
	}

	rows := ComputeRows(in, defs)
	require.Len(t, rows, 2)
	assert.False(t, rows[0].Qualifies, "windowed rule must not accept inert item")
	assert.True(t, rows[1].Qualifies, "plain type-match rule still applies")
}

func TestMuseumsOnUsMidweek(t *testing.T) {
	in := baseInput(eligibility.Item{Type: eligibility.TypeBofAMuseumsOnUs, Lifetime: true})
	defs := []Definition{{
		ID:     "bofa-museums-on-us",
		Name:   "Museums on Us",
		Types:  []eligibility.Type{eligibility.TypeBofAMuseumsOnUs},
		Value:  "free",
		Window: &Window{Recurring: RecurFirstFullWeekend},
	}}

	// Now is Wednesday 2026-08-12, well past August's first full weekend.
	rows := ComputeRows(in, defs)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Qualifies)
	assert.Equal(t, "2026-09-05", rows[0].NextEligible)
}

func TestMuseumsOnUsDuringWeekend(t *testing.T) {
	in := baseInput(eligibility.Item{Type: eligibility.TypeBofAMuseumsOnUs, Lifetime: true})
	in.Now = time.Date(2026, 8, 1, 11, 0, 0, 0, time.UTC) // first Saturday
	defs := []Definition{{
		ID:     "bofa-museums-on-us",
		Types:  []eligibility.Type{eligibility.TypeBofAMuseumsOnUs},
		Value:  "free",
		Window: &Window{Recurring: RecurFirstFullWeekend},
	}}

	rows := ComputeRows(in, defs)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Qualifies)
	require.NotNil(t, rows[0].YourPrice)
	assert.Equal(t, 0.0, *rows[0].YourPrice)
}

func TestAgeBracketRules(t *testing.T) {
	senior := eligibility.Item{Type: eligibility.TypeDateOfBirth, DateOfBirth: "1956-02-01", Lifetime: true}
	in := baseInput(senior)
	defs := []Definition{
		{
			ID:     "senior",
			Types:  []eligibility.Type{eligibility.TypeDateOfBirth},
			Value:  "flat:25",
			AgeMin: intPtr(65),
		},
		{
			ID:     "youth",
			Types:  []eligibility.Type{eligibility.TypeDateOfBirth},
			Value:  "flat:10",
			AgeMax: intPtr(17),
		},
	}

	rows := ComputeRows(in, defs)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Qualifies)
	assert.False(t, rows[1].Qualifies)
}

func TestUnparseableDateOfBirthFailsOnlyItsRow(t *testing.T) {
	in := baseInput(
		eligibility.Item{Type: eligibility.TypeDateOfBirth, DateOfBirth: "eighteen-something", Lifetime: true},
		eligibility.Item{Type: eligibility.TypeSnapEBT, Lifetime: true},
	)
	defs := []Definition{
		{ID: "senior", Types: []eligibility.Type{eligibility.TypeDateOfBirth}, Value: "flat:25", AgeMin: intPtr(65)},
		{ID: "snap", Types: []eligibility.Type{eligibility.TypeSnapEBT}, Value: "flat:3"},
	}

	rows := ComputeRows(in, defs)
	require.Len(t, rows, 2)
	assert.False(t, rows[0].Qualifies)
	assert.True(t, rows[1].Qualifies, "other rules keep evaluating")
}

func TestMembershipRuleChecksMuseumAndExpiry(t *testing.T) {
	member := eligibility.Item{
		Type:        eligibility.TypeMuseumMember,
		Lifetime:    true,
		Memberships: []eligibility.Membership{
			{MuseumID: "mus-001", ExpiresOn: "2027-01-01"},
			{MuseumID: "mus-002", ExpiresOn: "2025-01-01"},
		},
	}
	defs := []Definition{{
		ID:    "member-free",
		Types: []eligibility.Type{eligibility.TypeMuseumMember},
		Value: "free",
	}}

	in := baseInput(member)
	rows := ComputeRows(in, defs)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Qualifies)

	// Same user at the museum whose membership lapsed.
	in.MuseumID = "mus-002"
	rows = ComputeRows(in, defs)
	assert.False(t, rows[0].Qualifies || rows[0].YourPrice != nil)

	// And at a museum they never joined.
	in.MuseumID = "mus-999"
	rows = ComputeRows(in, defs)
	assert.False(t, rows[0].Qualifies)
}

func TestResidencyLocations(t *testing.T) {
	resident := eligibility.Item{
		Type:      eligibility.TypeResident,
		Locations: []string{"Chicago, IL, US"},
		Lifetime:  true,
	}
	defs := []Definition{{
		ID:        "chicago-residents",
		Types:     []eligibility.Type{eligibility.TypeResident},
		Value:     "free",
		Locations: []string{"chicago, il, us"},
	}}

	rows := ComputeRows(baseInput(resident), defs)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Qualifies, "location match is case-insensitive")

	defs[0].Locations = []string{"New York, NY, US"}
	rows = ComputeRows(baseInput(resident), defs)
	assert.False(t, rows[0].Qualifies)
}

func TestMalformedValueFailsOnlyItsRow(t *testing.T) {
	in := baseInput(eligibility.Item{Type: eligibility.TypeSnapEBT, Lifetime: true})
	defs := []Definition{
		{ID: "broken", Types: []eligibility.Type{eligibility.TypeSnapEBT}, Value: "half-off"},
		{ID: "ok", Types: []eligibility.Type{eligibility.TypeSnapEBT}, Value: "flat:3"},
	}

	rows := ComputeRows(in, defs)
	require.Len(t, rows, 2)
	assert.False(t, rows[0].Qualifies)
	assert.Equal(t, "Unavailable", rows[0].StatusLabel)
	assert.True(t, rows[1].Qualifies)
}

func TestRowsPreserveDeclarationOrder(t *testing.T) {
	in := baseInput(eligibility.Item{Type: eligibility.TypeSnapEBT, Lifetime: true})
	defs := []Definition{
		{ID: "b", Types: []eligibility.Type{eligibility.TypeSnapEBT}, Value: "flat:10"},
		{ID: "a", Types: []eligibility.Type{eligibility.TypeSnapEBT}, Value: "flat:3"},
	}

	rows := ComputeRows(in, defs)
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[0].ID)
	assert.Equal(t, "a", rows[1].ID)
}

func TestBestPrice(t *testing.T) {
	p3, p10 := 3.0, 10.0
	rows := []Row{
		{Qualifies: true, YourPrice: &p10},
		{Qualifies: true, YourPrice: &p3},
		{Qualifies: false, YourPrice: nil},
	}

	best, ok := BestPrice(rows)
	require.True(t, ok)
	assert.Equal(t, 3.0, best)

	_, ok = BestPrice([]Row{{Qualifies: false}})
	assert.False(t, ok)
}

func TestPercentWithUnknownBasePriceStaysNil(t *testing.T) {
	in := baseInput(eligibility.Item{Type: eligibility.TypeSnapEBT, Lifetime: true})
	in.BasePrice = nil
	defs := []Definition{{
		ID:    "half",
		Types: []eligibility.Type{eligibility.TypeSnapEBT},
		Value: "percent:50",
	}}

	rows := ComputeRows(in, defs)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Qualifies)
	assert.Nil(t, rows[0].YourPrice, "unknown base price never coerced")
}
