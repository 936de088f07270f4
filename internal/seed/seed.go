package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/techfest/internal/app/models"
	"github.com/yigit/techfest/internal/pkg/slugs"
	"gopkg.in/yaml.v3"
)

// EventUpserter writes catalog entries without touching their counters
type EventUpserter interface {
	Upsert(ctx context.Context, e *models.Event) error
}

// Catalog is the layout of the events YAML file
type Catalog struct {
	Events []models.Event `yaml:"events"`
}

// LoadCatalog reads and checks the events file. Missing slugs are derived
// from titles and missing ids default to the slug.
func LoadCatalog(path string) ([]models.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event catalog: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse event catalog: %w", err)
	}

	seen := make(map[string]bool, len(catalog.Events))
	for i := range catalog.Events {
		e := &catalog.Events[i]
		e.Title = strings.TrimSpace(e.Title)
		if e.Title == "" {
			return nil, fmt.Errorf("event #%d: title is required", i+1)
		}

		s, err := slugs.Canonical(e.Slug, e.Title)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", e.Title, err)
		}
		if seen[s] {
			return nil, fmt.Errorf("event %q: duplicate slug %q", e.Title, s)
		}
		seen[s] = true
		e.Slug = s

		if e.ID == "" {
			e.ID = s
		}
	}

	return catalog.Events, nil
}

// SeedEvents upserts every catalog event. Individual failures are collected
// so one bad row does not stop the rest.
func SeedEvents(ctx context.Context, repo EventUpserter, path string, lgr zerolog.Logger) (int, error) {
	events, err := LoadCatalog(path)
	if err != nil {
		return 0, err
	}

	lgr.Info().Str("path", path).Int("events", len(events)).Msg("Seeding event catalog...")
	var finalErr error
	seeded := 0
	for i := range events {
		if err := repo.Upsert(ctx, &events[i]); err != nil {
			lgr.Error().Err(err).Str("slug", events[i].Slug).Msg("Error seeding event")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		seeded++
	}

	lgr.Info().Int("seeded", seeded).Msg("Event catalog seeded")
	return seeded, finalErr
}
