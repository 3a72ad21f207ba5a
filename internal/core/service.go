package core

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"recipecards/pkg/domain"
)

// Service exposes the command-layer operations over the section registry.
// Multi-section concerns (search fan-out, section lifecycle) live here;
// the stores themselves stay single-section.
type Service struct {
	registry *Registry
	metrics  MetricsRecorder
	logger   *slog.Logger
}

// NewService constructs a service over the supplied registry. metrics and
// logger may be nil.
func NewService(registry *Registry, metrics MetricsRecorder, logger *slog.Logger) *Service {
	if metrics == nil {
		metrics = NoopMetricsRecorder{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{registry: registry, metrics: metrics, logger: logger}
}

// Registry returns the underlying section registry.
func (s *Service) Registry() *Registry { return s.registry }

// SearchHit pairs a matched record with the section it came from.
type SearchHit struct {
	Section string        `json:"section"`
	Recipe  domain.Recipe `json:"recipe"`
}

func (s *Service) observe(ctx context.Context, op string, start time.Time, err error) {
	s.metrics.Observe(ctx, op, err == nil, time.Since(start))
	if err != nil {
		s.logger.Warn("operation failed", "operation", op, "error", err)
	}
}

func (s *Service) store(section string) (*RecipeStore, error) {
	store, ok := s.registry.Get(section)
	if !ok {
		return nil, domain.SectionNotFoundError{Section: section}
	}
	return store, nil
}

// CreateSection registers a section store.
func (s *Service) CreateSection(ctx context.Context, section string) (err error) {
	defer func(start time.Time) { s.observe(ctx, "create_section", start, err) }(time.Now())
	_, err = s.registry.CreateSection(section)
	if err == nil {
		s.logger.Info("section created", "section", section)
	}
	return err
}

// RemoveSection drops a section and its persisted collection.
func (s *Service) RemoveSection(ctx context.Context, section string) (found bool, err error) {
	defer func(start time.Time) { s.observe(ctx, "remove_section", start, err) }(time.Now())
	return s.registry.RemoveSection(ctx, section)
}

// Sections lists the registered section ids.
func (s *Service) Sections() []string {
	return s.registry.Sections()
}

// ListRecipes returns a section's full collection.
func (s *Service) ListRecipes(ctx context.Context, section string) (recipes []domain.Recipe, err error) {
	defer func(start time.Time) { s.observe(ctx, "list", start, err) }(time.Now())
	store, err := s.store(section)
	if err != nil {
		return nil, err
	}
	return store.Load(ctx)
}

// GetRecipe returns one record by id.
func (s *Service) GetRecipe(ctx context.Context, section, id string) (r domain.Recipe, found bool, err error) {
	defer func(start time.Time) { s.observe(ctx, "get", start, err) }(time.Now())
	store, err := s.store(section)
	if err != nil {
		return domain.Recipe{}, false, err
	}
	return store.Get(ctx, id)
}

// AddRecipe appends a new record to a section.
func (s *Service) AddRecipe(ctx context.Context, section string, r domain.Recipe) (added domain.Recipe, err error) {
	defer func(start time.Time) { s.observe(ctx, "add", start, err) }(time.Now())
	store, err := s.store(section)
	if err != nil {
		return domain.Recipe{}, err
	}
	added, err = store.Add(ctx, r)
	if err == nil {
		s.logger.Info("recipe added", "section", section, "id", added.ID, "title", added.Title)
	}
	return added, err
}

// UpdateRecipe replaces a record wholesale.
func (s *Service) UpdateRecipe(ctx context.Context, section, id string, r domain.Recipe) (updated domain.Recipe, found bool, err error) {
	defer func(start time.Time) { s.observe(ctx, "update", start, err) }(time.Now())
	store, err := s.store(section)
	if err != nil {
		return domain.Recipe{}, false, err
	}
	return store.Update(ctx, id, r)
}

// MergeRecipe overlays a partial payload on the stored record and then
// replaces it wholesale. The store never merges; that contract stays with
// callers, and this is the canonical caller.
func (s *Service) MergeRecipe(ctx context.Context, section, id string, patch domain.RecipePatch) (merged domain.Recipe, found bool, err error) {
	defer func(start time.Time) { s.observe(ctx, "merge", start, err) }(time.Now())
	store, err := s.store(section)
	if err != nil {
		return domain.Recipe{}, false, err
	}
	existing, ok, err := store.Get(ctx, id)
	if err != nil || !ok {
		return domain.Recipe{}, ok, err
	}
	return store.Update(ctx, id, patch.Apply(existing))
}

// DeleteRecipe removes a record; absent ids are a no-op.
func (s *Service) DeleteRecipe(ctx context.Context, section, id string) (err error) {
	defer func(start time.Time) { s.observe(ctx, "delete", start, err) }(time.Now())
	store, err := s.store(section)
	if err != nil {
		return err
	}
	return store.Delete(ctx, id)
}

// Search scans every registered section for records matching the query
// (case-insensitive substring over title, description, and ingredients).
// Fanning out across sections is deliberately a command-layer concern.
func (s *Service) Search(ctx context.Context, query string) (hits []SearchHit, err error) {
	defer func(start time.Time) { s.observe(ctx, "search", start, err) }(time.Now())
	needle := strings.ToLower(strings.TrimSpace(query))
	hits = []SearchHit{}
	for _, section := range s.registry.Sections() {
		store, ok := s.registry.Get(section)
		if !ok {
			continue
		}
		recipes, err := store.Load(ctx)
		if err != nil {
			return nil, err
		}
		for _, r := range recipes {
			if needle == "" || recipeMatches(r, needle) {
				hits = append(hits, SearchHit{Section: section, Recipe: r})
			}
		}
	}
	return hits, nil
}

func recipeMatches(r domain.Recipe, needle string) bool {
	if strings.Contains(strings.ToLower(r.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), needle) {
		return true
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing), needle) {
			return true
		}
	}
	return false
}
