package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/musemap/trip-service/internal/catalog"
	"github.com/musemap/trip-service/internal/eligibility"
	"github.com/musemap/trip-service/internal/planner"
	"github.com/musemap/trip-service/internal/ticketplan"
)

var (
	planCity      string
	planLat       float64
	planLng       float64
	planRadius    float64
	planStart     string
	planEnd       string
	planDays      int
	planMode      string
	planCategory  string
	planElig      []string
	planOutput    string
)

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build a museum visit itinerary",
	Long: `Build a day-by-day museum itinerary for a stop and date range. Museums are
drawn from the local catalog, filtered by distance from the stop, checked
against their posted opening hours, and placed into days under the daily
time budget.

With --mode money the cheapest effective admission (after eligibility-based
discounts) ranks first; with --mode time shorter visits rank first so more
museums fit.`,
	Example: `  trip-service plan --city chicago --start 2026-09-01 --end 2026-09-03
  trip-service plan --lat 41.8781 --lng -87.6298 --radius 40 --days 2 --mode time
  trip-service plan --city "new york" --start 2026-09-01 --end 2026-09-05 --eligibility snap_ebt --output json`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVar(&planCity, "city", "", "Stop city name")
	planCmd.Flags().Float64Var(&planLat, "lat", 0, "Stop latitude (with --lng)")
	planCmd.Flags().Float64Var(&planLng, "lng", 0, "Stop longitude (with --lat)")
	planCmd.Flags().Float64Var(&planRadius, "radius", 0, "Search radius in km (default from config)")
	planCmd.Flags().StringVar(&planStart, "start", "", "Start date (YYYY-MM-DD)")
	planCmd.Flags().StringVar(&planEnd, "end", "", "End date (YYYY-MM-DD)")
	planCmd.Flags().IntVar(&planDays, "days", 0, "Flexible day count starting today (instead of --start/--end)")
	planCmd.Flags().StringVar(&planMode, "mode", "money", "Ranking mode: money or time")
	planCmd.Flags().StringVar(&planCategory, "category", "adult", "Ticket category for pricing")
	planCmd.Flags().StringSliceVar(&planElig, "eligibility", nil, "Eligibility types (e.g. snap_ebt, student)")
	planCmd.Flags().StringVar(&planOutput, "output", "table", "Output format: table or json")
}

func runPlan(cmd *cobra.Command, args []string) error {
	if planCity == "" && (planLat == 0 || planLng == 0) {
		return fmt.Errorf("a stop is required: --city or --lat/--lng")
	}
	if planMode != "money" && planMode != "time" {
		return fmt.Errorf("invalid mode: %s (expected money or time)", planMode)
	}

	ctx := context.Background()
	museums, rules, err := loadCatalog(ctx)
	if err != nil {
		return err
	}

	stop := planner.Stop{City: planCity, RadiusKm: planRadius}
	if planLat != 0 || planLng != 0 {
		stop.Lat = &planLat
		stop.Lng = &planLng
	}

	req := planner.Request{
		Stops: []planner.Stop{stop},
		Mode:  planner.Mode(planMode),
	}
	if planDays > 0 {
		req.DateMode = planner.DateModeFlexible
		req.FlexibleDays = planDays
	} else {
		if planStart == "" || planEnd == "" {
			return fmt.Errorf("dates are required: --start and --end, or --days")
		}
		req.DateMode = planner.DateModeFixed
		req.StartDate = planStart
		req.EndDate = planEnd
	}

	items := eligItems()
	now := time.Now().UTC()
	est := &ticketplan.Estimator{Rules: rules, Items: items, Category: planCategory, Now: now}

	itinerary, err := planner.NewBuilder(nil).Build(req, museums, est, now)
	if err != nil {
		return err
	}

	plan := ticketplan.Build(itinerary, rules, items, planCategory, now)
	totals := ticketplan.Sum(plan)

	if planOutput == "json" {
		return printJSON(map[string]any{
			"itinerary":  itinerary,
			"ticketPlan": plan,
			"totals":     totals,
		})
	}

	printItinerary(itinerary, plan)
	printTotals(totals)
	return nil
}

func loadCatalog(ctx context.Context) ([]catalog.Museum, catalog.RuleTable, error) {
	museumsPath, rulesPath := catalogPaths()
	source := catalog.NewFileSource(museumsPath, rulesPath)

	museums, err := source.Museums(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load museum catalog: %w", err)
	}
	rules, err := source.Rules(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load ticket rules: %w", err)
	}
	logger.Debug().Int("museums", len(museums)).Int("rule_sets", len(rules)).Msg("Catalog loaded")
	return museums, rules, nil
}

func eligItems() []eligibility.Item {
	items := make([]eligibility.Item, 0, len(planElig))
	for _, raw := range planElig {
		t := eligibility.Type(strings.TrimSpace(raw))
		if !eligibility.Valid(t) {
			logger.Warn().Str("type", raw).Msg("Unknown eligibility type, skipping")
			continue
		}
		// A bare flag asserts the eligibility holds today, so the item
		// must carry no expiry for windowed rules to honor it.
		items = append(items, eligibility.Item{Type: t, Lifetime: true})
	}
	return items
}

func printItinerary(itinerary []planner.Day, plan []ticketplan.Item) {
	prices := make(map[string]*float64, len(plan))
	for _, item := range plan {
		if item.BestPrice != nil {
			prices[item.MuseumID] = item.BestPrice.Price
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, day := range itinerary {
		fmt.Fprintf(w, "%s\n", day.Date)
		if len(day.Museums) == 0 {
			fmt.Fprintf(w, "\t(rest day)\n")
			continue
		}
		for _, mv := range day.Museums {
			price := "-"
			if p := prices[mv.Museum.MuseumID]; p != nil {
				price = fmt.Sprintf("%.2f", *p)
			}
			note := ""
			if mv.OpenStatus.Note != "" {
				note = " (" + mv.OpenStatus.Note + ")"
			}
			fmt.Fprintf(w, "\t%s\t%.1fh\t%s%s\n", mv.Museum.Name, mv.SuggestedDuration, price, note)
		}
	}
	w.Flush()
}

func printTotals(totals ticketplan.Totals) {
	fmt.Printf("\nTotal admission: %.2f", totals.EffectiveTotal)
	if totals.SavingsTotal > 0 {
		fmt.Printf(" (saving %.2f)", totals.SavingsTotal)
	}
	if totals.UnknownCount > 0 {
		fmt.Printf(", %d museum(s) without pricing", totals.UnknownCount)
	}
	fmt.Println()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
