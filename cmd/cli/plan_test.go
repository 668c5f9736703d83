package main

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musemap/trip-service/internal/discounts"
	"github.com/musemap/trip-service/internal/eligibility"
)

func init() {
	// The global logger is normally set up by the command's PersistentPreRunE,
	// which doesn't run when calling helpers directly in tests.
	l := zerolog.Nop()
	logger = &l
}

func TestEligItemsBuildsLifetimeItems(t *testing.T) {
	planElig = []string{"bofa_museums_on_us", " military ", "not-a-type"}
	defer func() { planElig = nil }()

	items := eligItems()
	require.Len(t, items, 2)
	assert.Equal(t, eligibility.TypeBofAMuseumsOnUs, items[0].Type)
	assert.Equal(t, eligibility.TypeMilitary, items[1].Type)
	for _, it := range items {
		assert.True(t, it.Lifetime, "%s should hold without an expiry", it.Type)
	}
}

func TestEligItemsQualifyForWindowedRules(t *testing.T) {
	planElig = []string{"bofa_museums_on_us"}
	defer func() { planElig = nil }()

	base := 25.0
	def := discounts.Definition{
		ID:     "bofa",
		Name:   "Museums on Us",
		Types:  []eligibility.Type{eligibility.TypeBofAMuseumsOnUs},
		Value:  "free",
		Window: &discounts.Window{Recurring: discounts.RecurFirstFullWeekend},
	}

	// 2026-09-05 is the first Saturday of September.
	on := time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)
	rows := discounts.ComputeRows(discounts.Input{
		Eligibilities:  eligItems(),
		BasePrice:      &base,
		TicketCategory: "adult",
		MuseumID:       "mus-001",
		Now:            on,
	}, []discounts.Definition{def})

	require.Len(t, rows, 1)
	assert.True(t, rows[0].Qualifies)
	require.NotNil(t, rows[0].YourPrice)
	assert.Equal(t, 0.0, *rows[0].YourPrice)
}
