package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogFiles(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	museumsPath := filepath.Join(dir, "museums.json")
	require.NoError(t, os.WriteFile(museumsPath, []byte(`[
		{"museum_id": "m1", "name": "Art Museum", "lat": 41.88, "lng": -87.62, "city": "Chicago", "has_full_content": true},
		{"museum_id": "m2", "name": "History Museum", "lat": 41.91, "lng": -87.63, "city": "Chicago", "has_full_content": false}
	]`), 0o644))

	rulesPath := filepath.Join(dir, "rules.json")
	require.NoError(t, os.WriteFile(rulesPath, []byte(`{
		"m1": {"basePrices": {"adult": 25}, "currency": "USD", "discounts": []}
	}`), 0o644))

	return museumsPath, rulesPath
}

func TestFileSourceLoadsDocuments(t *testing.T) {
	museumsPath, rulesPath := writeCatalogFiles(t)
	source := NewFileSource(museumsPath, rulesPath)

	museums, err := source.Museums(context.Background())
	require.NoError(t, err)
	require.Len(t, museums, 2)
	assert.Equal(t, "m1", museums[0].MuseumID)
	assert.True(t, museums[0].HasFullContent)

	rules, err := source.Rules(context.Background())
	require.NoError(t, err)
	require.Contains(t, rules, "m1")

	price := rules["m1"].BasePrice("adult")
	require.NotNil(t, price)
	assert.Equal(t, 25.0, *price)
	assert.Nil(t, rules["m1"].BasePrice("child"))
}

func TestFileSourceMissingFile(t *testing.T) {
	source := NewFileSource("/nonexistent/museums.json", "/nonexistent/rules.json")

	_, err := source.Museums(context.Background())
	require.Error(t, err)
	_, err = source.Rules(context.Background())
	require.Error(t, err)
}

func TestFileSourceMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "museums.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	source := NewFileSource(path, path)
	_, err := source.Museums(context.Background())
	require.Error(t, err)
}

// flakySource fails after a configurable number of successful loads.
type flakySource struct {
	loads    int
	failFrom int
}

func (f *flakySource) Museums(_ context.Context) ([]Museum, error) {
	f.loads++
	if f.failFrom > 0 && f.loads > f.failFrom {
		return nil, errors.New("origin unavailable")
	}
	return []Museum{{MuseumID: "m1", Name: "Art Museum"}}, nil
}

func (f *flakySource) Rules(_ context.Context) (RuleTable, error) {
	return RuleTable{}, nil
}

func TestCachedSourceServesSnapshotWithinTTL(t *testing.T) {
	inner := &flakySource{}
	cached := NewCachedSource(inner, time.Hour)
	require.NoError(t, cached.Warmup(context.Background()))

	for i := 0; i < 5; i++ {
		museums, err := cached.Museums(context.Background())
		require.NoError(t, err)
		assert.Len(t, museums, 1)
	}
	assert.Equal(t, 1, inner.loads, "warm snapshot should not reload")
}

func TestCachedSourceStaleFallback(t *testing.T) {
	inner := &flakySource{failFrom: 1}
	cached := NewCachedSource(inner, 1) // effectively always stale
	require.NoError(t, cached.Warmup(context.Background()))

	time.Sleep(time.Millisecond)

	// Refresh fails but the stale snapshot keeps serving.
	museums, err := cached.Museums(context.Background())
	require.NoError(t, err)
	assert.Len(t, museums, 1)
}

func TestCachedSourceUnhealthyBeforeWarmup(t *testing.T) {
	cached := NewCachedSource(&flakySource{}, time.Hour)
	assert.False(t, cached.IsHealthy(context.Background()))

	require.NoError(t, cached.Warmup(context.Background()))
	assert.True(t, cached.IsHealthy(context.Background()))
}

func TestStaticSourceRoundTrip(t *testing.T) {
	source := &StaticSource{
		MuseumList: []Museum{{MuseumID: "m1"}},
		RuleSet:    RuleTable{"m1": {Currency: "USD"}},
	}

	museums, err := source.Museums(context.Background())
	require.NoError(t, err)
	assert.Len(t, museums, 1)

	rules, err := source.Rules(context.Background())
	require.NoError(t, err)
	assert.Contains(t, rules, "m1")
}
