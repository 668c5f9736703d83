package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	trhttp "github.com/musemap/trip-service/internal/http"
)

// HTTPSource fetches the catalog documents from remote URLs, for deployments
// where the catalog is published by the content pipeline rather than shipped
// with the service. Fetches retry with backoff; wrap in a CachedSource so a
// flaky origin degrades to a stale snapshot instead of failing requests.
type HTTPSource struct {
	client     *trhttp.Client
	museumsURL string
	rulesURL   string
	logger     zerolog.Logger
}

func NewHTTPSource(museumsURL, rulesURL string) *HTTPSource {
	return &HTTPSource{
		client:     trhttp.NewClientDefault(),
		museumsURL: museumsURL,
		rulesURL:   rulesURL,
		logger:     log.With().Str("component", "catalog-http").Logger(),
	}
}

func (s *HTTPSource) Museums(_ context.Context) ([]Museum, error) {
	data, err := s.client.GetBytes(s.museumsURL)
	if err != nil {
		return nil, fmt.Errorf("error fetching museum catalog: %w", err)
	}
	s.logger.Debug().Str("sha256", trhttp.ComputeSha256(data)).Int("bytes", len(data)).Msg("Fetched museum catalog")

	var museums []Museum
	if err := json.Unmarshal(data, &museums); err != nil {
		return nil, fmt.Errorf("error parsing museum catalog: %w", err)
	}
	return museums, nil
}

func (s *HTTPSource) Rules(_ context.Context) (RuleTable, error) {
	data, err := s.client.GetBytes(s.rulesURL)
	if err != nil {
		return nil, fmt.Errorf("error fetching ticket rules: %w", err)
	}
	s.logger.Debug().Str("sha256", trhttp.ComputeSha256(data)).Int("bytes", len(data)).Msg("Fetched ticket rules")

	var table RuleTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("error parsing ticket rules: %w", err)
	}
	return table, nil
}
