package visits

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/musemap/trip-service/internal/catalog"
	"github.com/musemap/trip-service/internal/pkg/cuid2"
	"github.com/musemap/trip-service/internal/planner"
	"github.com/musemap/trip-service/internal/ticketplan"
)

// Service is the visit workflow: CRUD over the repository plus plan
// generation against the catalog.
type Service struct {
	repo    Repository
	source  catalog.Source
	builder *planner.Builder
	logger  zerolog.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

func NewService(repo Repository, source catalog.Source, builder *planner.Builder) *Service {
	if builder == nil {
		builder = planner.NewBuilder(nil)
	}
	return &Service{
		repo:    repo,
		source:  source,
		builder: builder,
		logger:  log.With().Str("component", "visits").Logger(),
		tracer:  otel.Tracer("visits"),
		now:     time.Now,
	}
}

// WithClock overrides the service clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create stores a new visit with a fresh ID. Any pre-set results are
// discarded; plans are generated, never imported.
func (s *Service) Create(ctx context.Context, v *Visit) (*Visit, error) {
	now := s.now().UTC()
	v.ID = cuid2.GeneratePrefixedId("vst", cuid2.PrefixedIdOptions{})
	v.Results = nil
	v.CreatedAt = now
	v.UpdatedAt = now

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("error creating visit: %w", err)
	}
	s.logger.Info().Str("visit_id", v.ID).Str("user_id", v.UserID).Msg("Visit created")
	return v, nil
}

func (s *Service) Get(ctx context.Context, userID, visitID string) (*Visit, error) {
	return s.repo.Get(ctx, userID, visitID)
}

func (s *Service) List(ctx context.Context, userID string) ([]*Visit, error) {
	return s.repo.List(ctx, userID)
}

// Update replaces the visit's plan parameters. Existing results are cleared:
// they were derived from the old parameters and would otherwise go stale
// silently.
func (s *Service) Update(ctx context.Context, v *Visit) (*Visit, error) {
	existing, err := s.repo.Get(ctx, v.UserID, v.ID)
	if err != nil {
		return nil, err
	}

	v.CreatedAt = existing.CreatedAt
	v.UpdatedAt = s.now().UTC()
	v.Results = nil

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("error updating visit: %w", err)
	}
	return v, nil
}

func (s *Service) Delete(ctx context.Context, userID, visitID string) error {
	return s.repo.Delete(ctx, userID, visitID)
}

// Generate builds the itinerary and ticket plan for a visit and attaches
// both as one Results value. Regenerating an unchanged visit replaces the
// results with an equivalent set.
func (s *Service) Generate(ctx context.Context, userID, visitID string) (*Visit, error) {
	ctx, span := s.tracer.Start(ctx, "visits.Generate",
		trace.WithAttributes(attribute.String("visit.id", visitID)))
	defer span.End()

	v, err := s.repo.Get(ctx, userID, visitID)
	if err != nil {
		return nil, err
	}

	results, err := s.generate(ctx, v)
	if err != nil {
		s.logger.Error().Err(err).Str("visit_id", visitID).Msg("Plan generation failed")
		return nil, err
	}

	v.Results = results
	v.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("error saving generated plan: %w", err)
	}

	s.logger.Info().
		Str("visit_id", visitID).
		Int("days", len(results.Itinerary)).
		Int("museums", len(results.TicketPlan)).
		Msg("Plan generated")
	return v, nil
}

// Preview runs generation for ad-hoc parameters without persisting anything.
func (s *Service) Preview(ctx context.Context, v *Visit) (*Results, error) {
	return s.generate(ctx, v)
}

func (s *Service) generate(ctx context.Context, v *Visit) (*Results, error) {
	museums, err := s.source.Museums(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading museum catalog: %w", err)
	}
	rules, err := s.source.Rules(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading ticket rules: %w", err)
	}

	now := s.now().UTC()
	est := &ticketplan.Estimator{
		Rules:    rules,
		Items:    v.Eligibilities,
		Category: v.TicketCategory,
		Now:      now,
	}

	itinerary, err := s.builder.Build(v.Request(), museums, est, now)
	if err != nil {
		return nil, err
	}

	plan := ticketplan.Build(itinerary, rules, v.Eligibilities, v.TicketCategory, now)
	attachPrices(itinerary, plan)

	return &Results{
		Itinerary:   itinerary,
		TicketPlan:  plan,
		Totals:      ticketplan.Sum(plan),
		GeneratedAt: now,
	}, nil
}

// attachPrices backfills each itinerary entry with its museum's best price
// so a day can be rendered without a second lookup into the ticket plan.
func attachPrices(itinerary []planner.Day, plan []ticketplan.Item) {
	byMuseum := make(map[string]ticketplan.Item, len(plan))
	for _, item := range plan {
		byMuseum[item.MuseumID] = item
	}
	for di := range itinerary {
		for mi := range itinerary[di].Museums {
			mv := &itinerary[di].Museums[mi]
			item, ok := byMuseum[mv.Museum.MuseumID]
			if !ok || item.BestPrice == nil {
				continue
			}
			mv.PriceResult = &planner.PriceResult{
				Price:   item.BestPrice.Price,
				Savings: item.BestPrice.Savings,
				Notes:   item.BestPrice.Notes,
			}
		}
	}
}

// Duplicate copies a visit's plan parameters into a new visit under a fresh
// ID. Results are not copied; the duplicate starts ungenerated.
func (s *Service) Duplicate(ctx context.Context, userID, visitID, name string) (*Visit, error) {
	src, err := s.repo.Get(ctx, userID, visitID)
	if err != nil {
		return nil, err
	}

	dup := *src
	dup.Results = nil
	if name != "" {
		dup.Name = name
	} else {
		dup.Name = src.Name + " (copy)"
	}
	return s.Create(ctx, &dup)
}
