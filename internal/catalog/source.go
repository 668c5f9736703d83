package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// FileSource loads the catalog documents from JSON files on disk
// (data/museums.json and data/ticket_rules.json in the default deployment).
type FileSource struct {
	museumsPath string
	rulesPath   string
	logger      zerolog.Logger
}

// NewFileSource creates a FileSource reading from the given paths.
func NewFileSource(museumsPath, rulesPath string) *FileSource {
	return &FileSource{
		museumsPath: museumsPath,
		rulesPath:   rulesPath,
		logger:      log.With().Str("component", "catalog_file_source").Logger(),
	}
}

// Museums reads and decodes the museum catalog document.
func (s *FileSource) Museums(_ context.Context) ([]Museum, error) {
	raw, err := os.ReadFile(s.museumsPath)
	if err != nil {
		return nil, fmt.Errorf("reading museum catalog: %w", err)
	}
	var museums []Museum
	if err := json.Unmarshal(raw, &museums); err != nil {
		return nil, fmt.Errorf("decoding museum catalog: %w", err)
	}
	s.logger.Debug().Int("count", len(museums)).Msg("Loaded museum catalog")
	return museums, nil
}

// Rules reads and decodes the ticket-rule table document.
func (s *FileSource) Rules(_ context.Context) (RuleTable, error) {
	raw, err := os.ReadFile(s.rulesPath)
	if err != nil {
		return nil, fmt.Errorf("reading ticket rules: %w", err)
	}
	var table RuleTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("decoding ticket rules: %w", err)
	}
	s.logger.Debug().Int("museums", len(table)).Msg("Loaded ticket rule table")
	return table, nil
}

// StaticSource serves fixed in-memory documents. Used by tests and the plan
// preview endpoint when callers supply the catalog inline.
type StaticSource struct {
	MuseumList []Museum
	RuleSet    RuleTable
}

func (s *StaticSource) Museums(_ context.Context) ([]Museum, error) {
	return s.MuseumList, nil
}

func (s *StaticSource) Rules(_ context.Context) (RuleTable, error) {
	return s.RuleSet, nil
}
