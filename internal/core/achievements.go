// ABOUTME: Achievement rule engine promoting pending achievements whose predicate holds
// ABOUTME: Predicates are garden aggregate reads evaluated concurrently; completion is idempotent
package core

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/raajvamsy/plantopia/internal/logging"
	"github.com/raajvamsy/plantopia/internal/models"
	"github.com/raajvamsy/plantopia/internal/storage"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// DefaultEvalConcurrency bounds concurrent predicate reads when none is configured
const DefaultEvalConcurrency = 4

// Predicate reports whether a user has earned an achievement. It must only read.
type Predicate func(ctx context.Context, userID string) (bool, error)

// Rules builds the fixed achievement registry over the garden aggregates
func Rules(garden storage.GardenRepository) map[models.AchievementType]Predicate {
	return map[models.AchievementType]Predicate{
		models.AchievementFirstPlant:    plantsAtLeast(garden, models.PlantFilter{}, 1),
		models.AchievementHydrationHero: careLogsAtLeast(garden, models.CareWatering, 30),
		models.AchievementSunWorshipper: plantsAtLeast(garden, models.PlantFilter{MinSunlight: 80}, 10),
		models.AchievementPestPro:       careLogsAtLeast(garden, models.CarePestControl, 1),
		models.AchievementGrowthSpurt:   plantsAtLeast(garden, models.PlantFilter{MinLevel: 5}, 3),
		models.AchievementCollector:     plantsAtLeast(garden, models.PlantFilter{}, 50),
	}
}

func plantsAtLeast(garden storage.GardenRepository, f models.PlantFilter, n int) Predicate {
	return func(ctx context.Context, userID string) (bool, error) {
		count, err := garden.CountPlants(ctx, userID, f)
		if err != nil {
			return false, err
		}
		return count >= n, nil
	}
}

func careLogsAtLeast(garden storage.GardenRepository, action models.CareAction, n int) Predicate {
	return func(ctx context.Context, userID string) (bool, error) {
		count, err := garden.CountCareLogs(ctx, userID, action)
		if err != nil {
			return false, err
		}
		return count >= n, nil
	}
}

//go:embed catalog.yaml
var catalogYAML []byte

// CatalogEntry holds the presentation fields of one achievement type
type CatalogEntry struct {
	Type        models.AchievementType `yaml:"type"`
	Title       string                 `yaml:"title"`
	Description string                 `yaml:"description"`
	Icon        string                 `yaml:"icon"`
	Color       string                 `yaml:"color"`
}

// ParseCatalog decodes a catalog document and checks it against the registry.
// Every entry needs a predicate and every predicate needs exactly one entry.
func ParseCatalog(data []byte, rules map[models.AchievementType]Predicate) ([]CatalogEntry, error) {
	var doc struct {
		Achievements []CatalogEntry `yaml:"achievements"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse achievement catalog: %w", err)
	}

	seen := make(map[models.AchievementType]bool, len(doc.Achievements))
	for _, e := range doc.Achievements {
		if seen[e.Type] {
			return nil, fmt.Errorf("achievement catalog lists %q twice", e.Type)
		}
		seen[e.Type] = true
		if _, ok := rules[e.Type]; !ok {
			return nil, fmt.Errorf("achievement catalog entry %q has no predicate", e.Type)
		}
		if strings.TrimSpace(e.Title) == "" {
			return nil, fmt.Errorf("achievement catalog entry %q has no title", e.Type)
		}
	}
	for typ := range rules {
		if !seen[typ] {
			return nil, fmt.Errorf("achievement %q is missing from the catalog", typ)
		}
	}
	return doc.Achievements, nil
}

// AchievementEngine evaluates the registry for a user and records completions
type AchievementEngine struct {
	rules       map[models.AchievementType]Predicate
	catalog     []CatalogEntry
	store       *storage.AchievementStore
	concurrency int
	log         *logging.Logger
}

// NewAchievementEngine builds the engine over the built-in registry and catalog
func NewAchievementEngine(garden storage.GardenRepository, store *storage.AchievementStore, concurrency int, log *logging.Logger) (*AchievementEngine, error) {
	rules := Rules(garden)
	catalog, err := ParseCatalog(catalogYAML, rules)
	if err != nil {
		return nil, err
	}
	return newAchievementEngine(rules, catalog, store, concurrency, log), nil
}

func newAchievementEngine(rules map[models.AchievementType]Predicate, catalog []CatalogEntry, store *storage.AchievementStore, concurrency int, log *logging.Logger) *AchievementEngine {
	if concurrency <= 0 {
		concurrency = DefaultEvalConcurrency
	}
	return &AchievementEngine{
		rules:       rules,
		catalog:     catalog,
		store:       store,
		concurrency: concurrency,
		log:         logging.OrNop(log).With("component", "achievement_engine"),
	}
}

// Catalog returns the achievement catalog in display order
func (e *AchievementEngine) Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(e.catalog))
	copy(out, e.catalog)
	return out
}

// Bootstrap creates a pending achievement for every registry entry the user does not have yet.
// It returns the number of rows created.
func (e *AchievementEngine) Bootstrap(ctx context.Context, userID string) (int, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, &models.ValidationError{Field: "user_id", Reason: "is required"}
	}

	rows := make([]models.Achievement, len(e.catalog))
	for i, c := range e.catalog {
		rows[i] = models.Achievement{
			UserID:          userID,
			AchievementType: c.Type,
			Title:           c.Title,
			Description:     c.Description,
			Icon:            c.Icon,
			Color:           c.Color,
		}
	}

	n, err := e.store.Create(ctx, rows)
	if err != nil {
		return 0, err
	}
	e.log.Info("achievements bootstrapped", "user_id", userID, "created", n)
	return n, nil
}

// EvaluateAll checks every pending achievement of the user and completes those whose
// predicate holds. Only achievements this call actually completed are returned, in
// pending-list order. A failing predicate or completion skips that achievement;
// only failing to load the pending list is an error.
func (e *AchievementEngine) EvaluateAll(ctx context.Context, userID string) ([]models.Achievement, error) {
	pending, err := e.store.ListPending(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending achievements: %w", err)
	}
	if len(pending) == 0 {
		return nil, nil
	}

	earned := make([]bool, len(pending))
	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, a := range pending {
		pred, ok := e.rules[a.AchievementType]
		if !ok {
			e.log.Warn("no predicate for achievement", "id", a.ID, "type", a.AchievementType)
			continue
		}
		g.Go(func() error {
			ok, err := pred(ctx, userID)
			if err != nil {
				e.log.Warn("predicate failed, skipping", "id", a.ID, "type", a.AchievementType, "error", err)
				return nil
			}
			earned[i] = ok
			return nil
		})
	}
	_ = g.Wait()

	var awarded []models.Achievement
	for i, a := range pending {
		if !earned[i] {
			continue
		}
		done, changed, err := e.store.Complete(ctx, a.ID)
		if err != nil {
			e.log.Warn("completion failed, skipping", "id", a.ID, "type", a.AchievementType, "error", err)
			continue
		}
		if changed {
			awarded = append(awarded, *done)
		}
	}

	e.log.Debug("achievements evaluated", "user_id", userID, "pending", len(pending), "awarded", len(awarded))
	return awarded, nil
}
