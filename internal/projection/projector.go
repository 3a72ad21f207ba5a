// Package projection mirrors each section's records as read-only display
// entities: one summary entity per section plus one entity per record.
package projection

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"recipecards/internal/core"
	"recipecards/pkg/domain"
)

// Entity is a read-only projection of a record (or of the section summary)
// into the host's state tree. Identity is sectionID + recordID; an entity
// whose backing record disappears becomes unavailable rather than being
// deleted outright.
type Entity struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Icon       string         `json:"icon"`
	State      int            `json:"state"`
	Available  bool           `json:"available"`
	Attributes map[string]any `json:"attributes"`
}

// Projector keeps one section's entity set in sync with its store by
// observing the store's update callback.
type Projector struct {
	mu      sync.RWMutex
	section string
	store   *core.RecipeStore
	logger  *slog.Logger
	known   []string // record ids in first-seen order
	last    map[string]Entity
	summary Entity
}

// New builds a projector for section and registers it as the store's
// update observer. A refresh failure is contained here; it must not mask
// the mutation that triggered it.
func New(section string, store *core.RecipeStore, logger *slog.Logger) *Projector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p := &Projector{
		section: section,
		store:   store,
		logger:  logger,
		last:    make(map[string]Entity),
		summary: Entity{
			ID:         section + "_recipe_count",
			Name:       "Recipe Cards",
			Icon:       "mdi:notebook",
			Available:  true,
			Attributes: map[string]any{"recipes": []domain.Document{}},
		},
	}
	store.SetUpdateCallback(func(ctx context.Context) {
		if err := p.Refresh(ctx); err != nil {
			p.logger.Warn("entity refresh failed", "section", section, "error", err)
		}
	})
	return p
}

// Section returns the section this projector renders.
func (p *Projector) Section() string { return p.section }

// Refresh reloads the store and rebuilds the entity set.
func (p *Projector) Refresh(ctx context.Context) error {
	recipes, err := p.store.Load(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	byID := make(map[string]domain.Recipe, len(recipes))
	docs := make([]domain.Document, 0, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
		docs = append(docs, domain.ToDocument(r))
		if _, seen := p.last[r.ID]; !seen {
			p.known = append(p.known, r.ID)
		}
	}

	for _, id := range p.known {
		if r, ok := byID[id]; ok {
			p.last[id] = Entity{
				ID:         p.section + "_" + id,
				Name:       r.Title,
				Icon:       "mdi:note-text",
				State:      len(r.Instructions),
				Available:  true,
				Attributes: domain.ToDocument(r),
			}
			continue
		}
		prev := p.last[id]
		prev.State = 0
		prev.Available = false
		prev.Attributes = map[string]any{}
		p.last[id] = prev
	}

	p.summary.State = len(recipes)
	p.summary.Attributes = map[string]any{"recipes": docs}
	return nil
}

// Entities returns the current entity set, summary first, record entities
// in first-seen order.
func (p *Projector) Entities() []Entity {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Entity, 0, len(p.known)+1)
	out = append(out, p.summary)
	for _, id := range p.known {
		out = append(out, p.last[id])
	}
	return out
}
