package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/musemap/trip-service/internal/discounts"
)

var (
	priceCategory string
	priceElig     []string
	priceOn       string
	priceOutput   string
)

// priceCmd represents the price command
var priceCmd = &cobra.Command{
	Use:   "price <museum-id>",
	Short: "Evaluate admission discounts for a museum",
	Long: `Evaluate every discount rule a museum publishes against a set of eligibility
types and print the per-rule breakdown: whether the caller qualifies, the
resulting price, and for time-windowed programs the next date they apply.`,
	Example: `  trip-service price art-institute-chicago
  trip-service price art-institute-chicago --eligibility snap_ebt,student
  trip-service price moma --eligibility bofa_museums_on_us --on 2026-09-05`,
	Args: cobra.ExactArgs(1),
	RunE: runPrice,
}

func init() {
	rootCmd.AddCommand(priceCmd)

	priceCmd.Flags().StringVar(&priceCategory, "category", "adult", "Ticket category")
	priceCmd.Flags().StringSliceVar(&priceElig, "eligibility", nil, "Eligibility types (e.g. snap_ebt, student)")
	priceCmd.Flags().StringVar(&priceOn, "on", "", "Evaluate as of this date (YYYY-MM-DD, default today)")
	priceCmd.Flags().StringVar(&priceOutput, "output", "table", "Output format: table or json")
}

func runPrice(cmd *cobra.Command, args []string) error {
	museumID := args[0]

	ctx := context.Background()
	museums, rules, err := loadCatalog(ctx)
	if err != nil {
		return err
	}

	rs, ok := rules[museumID]
	if !ok {
		return fmt.Errorf("no ticket rules for museum: %s", museumID)
	}

	now := time.Now().UTC()
	if priceOn != "" {
		parsed, err := time.Parse(discounts.DateLayout, priceOn)
		if err != nil {
			return fmt.Errorf("invalid --on date: %s", priceOn)
		}
		// Midday avoids boundary surprises at day edges.
		now = parsed.Add(12 * time.Hour)
	}

	var hoursText string
	for _, m := range museums {
		if m.MuseumID == museumID {
			hoursText = m.OpeningHours
			break
		}
	}

	planElig = priceElig // reuse plan's eligibility parsing
	items := eligItems()
	base := rs.BasePrice(priceCategory)

	rows := discounts.ComputeRows(discounts.Input{
		Eligibilities:  items,
		BasePrice:      base,
		TicketCategory: priceCategory,
		MuseumID:       museumID,
		Now:            now,
		Hours:          hoursText,
	}, rs.Discounts)

	if priceOutput == "json" {
		out := map[string]any{
			"museumId":  museumID,
			"category":  priceCategory,
			"currency":  rs.Currency,
			"basePrice": base,
			"rows":      rows,
		}
		if best, ok := discounts.BestPrice(rows); ok {
			out["bestPrice"] = best
		}
		return printJSON(out)
	}

	if base != nil {
		fmt.Printf("%s %s admission: %.2f %s\n\n", museumID, priceCategory, *base, rs.Currency)
	} else {
		fmt.Printf("%s %s admission: unknown\n\n", museumID, priceCategory)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DISCOUNT\tSTATUS\tPRICE\tNOTE")
	for _, row := range rows {
		price := "-"
		if row.YourPrice != nil {
			price = fmt.Sprintf("%.2f", *row.YourPrice)
		}
		note := row.Note
		if row.NextEligible != "" {
			note = "next: " + row.NextEligible
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.Name, row.StatusLabel, price, note)
	}
	w.Flush()

	if best, ok := discounts.BestPrice(rows); ok {
		fmt.Printf("\nBest price: %.2f %s\n", best, rs.Currency)
	}
	return nil
}
