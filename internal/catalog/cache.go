package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// CachedSource wraps a Source with an atomically-swapped snapshot of both
// documents. Reads never block on reloads; a stale snapshot keeps serving
// until the refresh completes.
type CachedSource struct {
	inner  Source
	ttl    time.Duration
	logger zerolog.Logger

	snapshot atomic.Value // *catalogSnapshot

	refreshMu sync.Mutex
}

type catalogSnapshot struct {
	museums  []Museum
	rules    RuleTable
	loadedAt time.Time
}

// NewCachedSource wraps inner with a TTL-based snapshot cache.
func NewCachedSource(inner Source, ttl time.Duration) *CachedSource {
	return &CachedSource{
		inner:  inner,
		ttl:    ttl,
		logger: log.With().Str("component", "catalog_cache").Logger(),
	}
}

// Warmup loads both documents concurrently and installs the first snapshot.
func (c *CachedSource) Warmup(ctx context.Context) error {
	start := time.Now()
	snap, err := c.load(ctx)
	if err != nil {
		recordLoadError()
		return err
	}
	c.snapshot.Store(snap)
	recordLoadDuration(time.Since(start))
	c.logger.Info().
		Int("museums", len(snap.museums)).
		Int("rule_sets", len(snap.rules)).
		Dur("took", time.Since(start)).
		Msg("Catalog warmed up")
	return nil
}

// Museums returns the cached museum list, refreshing first if stale.
func (c *CachedSource) Museums(ctx context.Context) ([]Museum, error) {
	snap, err := c.current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.museums, nil
}

// Rules returns the cached rule table, refreshing first if stale.
func (c *CachedSource) Rules(ctx context.Context) (RuleTable, error) {
	snap, err := c.current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.rules, nil
}

// IsHealthy reports whether a snapshot has been installed.
func (c *CachedSource) IsHealthy(_ context.Context) bool {
	return c.snapshot.Load() != nil
}

func (c *CachedSource) current(ctx context.Context) (*catalogSnapshot, error) {
	if snap, ok := c.snapshot.Load().(*catalogSnapshot); ok {
		if c.ttl <= 0 || time.Since(snap.loadedAt) < c.ttl {
			recordHit()
			return snap, nil
		}
	}
	recordMiss()

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	// Another caller may have refreshed while we waited on the lock.
	if snap, ok := c.snapshot.Load().(*catalogSnapshot); ok {
		if c.ttl <= 0 || time.Since(snap.loadedAt) < c.ttl {
			return snap, nil
		}
	}

	snap, err := c.load(ctx)
	if err != nil {
		recordLoadError()
		// Serve the stale snapshot rather than failing the request.
		if stale, ok := c.snapshot.Load().(*catalogSnapshot); ok {
			c.logger.Warn().Err(err).Msg("Catalog refresh failed, serving stale snapshot")
			return stale, nil
		}
		return nil, err
	}
	c.snapshot.Store(snap)
	return snap, nil
}

func (c *CachedSource) load(ctx context.Context) (*catalogSnapshot, error) {
	snap := &catalogSnapshot{loadedAt: time.Now()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		museums, err := c.inner.Museums(gctx)
		if err != nil {
			return err
		}
		snap.museums = museums
		return nil
	})
	g.Go(func() error {
		rules, err := c.inner.Rules(gctx)
		if err != nil {
			return err
		}
		snap.rules = rules
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}
