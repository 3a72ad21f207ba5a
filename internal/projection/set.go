package projection

import (
	"context"
	"log/slog"
	"sync"

	"recipecards/internal/core"
)

// Set tracks one projector per section so adapters can look entities up
// by section id. Sections appear and disappear at runtime.
type Set struct {
	mu     sync.RWMutex
	logger *slog.Logger
	byName map[string]*Projector
}

// NewSet builds an empty projector set. logger may be nil.
func NewSet(logger *slog.Logger) *Set {
	return &Set{logger: logger, byName: make(map[string]*Projector)}
}

// Attach creates (or returns) the projector for section, registering it
// as the store's update observer.
func (s *Set) Attach(section string, store *core.RecipeStore) *Projector {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.byName[section]; ok {
		return p
	}
	p := New(section, store, s.logger)
	s.byName[section] = p
	return p
}

// Detach drops the projector for section.
func (s *Set) Detach(section string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byName, section)
}

// RefreshAll rebuilds every attached projector, typically after startup
// discovery or seeding.
func (s *Set) RefreshAll(ctx context.Context) error {
	s.mu.RLock()
	projectors := make([]*Projector, 0, len(s.byName))
	for _, p := range s.byName {
		projectors = append(projectors, p)
	}
	s.mu.RUnlock()
	for _, p := range projectors {
		if err := p.Refresh(ctx); err != nil {
			return err
		}
	}
	return nil
}

// SectionEntities returns the entity set for section, reporting whether a
// projector exists for it.
func (s *Set) SectionEntities(section string) ([]Entity, bool) {
	s.mu.RLock()
	p, ok := s.byName[section]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return p.Entities(), true
}
