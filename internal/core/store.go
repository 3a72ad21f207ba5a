// Package core implements the sectioned recipe record store, its section
// registry, and the command-layer service built on top of them.
package core

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"recipecards/pkg/domain"
)

// RecipeStore is a durable CRUD store for one section's recipe collection.
// Every mutating call reloads from the backend before mutating and writes
// the full collection back, so concurrent store instances sharing a backing
// key cannot silently lose each other's writes. The mutex serializes
// mutations on this instance; callers own any coordination beyond that.
type RecipeStore struct {
	mu       sync.Mutex
	backend  domain.Backend
	section  string
	recipes  []domain.Recipe
	onUpdate domain.UpdateCallback
	newID    func() string
}

// NewRecipeStore constructs a store for the given section.
func NewRecipeStore(backend domain.Backend, section string) *RecipeStore {
	return &RecipeStore{
		backend: backend,
		section: section,
		newID:   uuid.NewString,
	}
}

// Section returns the section identifier this store is scoped to.
func (s *RecipeStore) Section() string { return s.section }

// SetUpdateCallback registers the single notification hook invoked after
// every successful mutation. A later registration replaces the prior one;
// nil clears it.
func (s *RecipeStore) SetUpdateCallback(cb domain.UpdateCallback) {
	s.mu.Lock()
	s.onUpdate = cb
	s.mu.Unlock()
}

// Load reads the persisted collection, migrating a legacy-key blob on first
// access, and replaces the in-memory cache. It always reflects the latest
// persisted state; there is no caching across calls.
func (s *RecipeStore) Load(ctx context.Context) ([]domain.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reload(ctx); err != nil {
		return nil, err
	}
	return cloneRecipes(s.recipes), nil
}

// Get returns the record with the given id, if present.
func (s *RecipeStore) Get(ctx context.Context, id string) (domain.Recipe, bool, error) {
	recipes, err := s.Load(ctx)
	if err != nil {
		return domain.Recipe{}, false, err
	}
	for _, r := range recipes {
		if r.ID == id {
			return r, true, nil
		}
	}
	return domain.Recipe{}, false, nil
}

// Add validates and appends a new record, assigning an id when absent,
// recomputing derived duration fields, and persisting the full collection.
func (s *RecipeStore) Add(ctx context.Context, r domain.Recipe) (domain.Recipe, error) {
	if err := r.Validate(); err != nil {
		return domain.Recipe{}, err
	}
	r.Normalize()
	if r.ID == "" {
		r.ID = s.newID()
	}
	r.RecomputeDurations()

	s.mu.Lock()
	if err := s.reload(ctx); err != nil {
		s.mu.Unlock()
		return domain.Recipe{}, err
	}
	s.recipes = append(s.recipes, domain.CloneRecipe(r))
	if err := s.persist(ctx); err != nil {
		s.mu.Unlock()
		return domain.Recipe{}, err
	}
	cb := s.onUpdate
	s.mu.Unlock()

	s.notify(ctx, cb)
	return r, nil
}

// Update replaces the record with the given id wholesale. The id is forced
// to the lookup key regardless of the payload's own id field and the
// record keeps its position. Returns false, with no persisted change, when
// the id is absent.
func (s *RecipeStore) Update(ctx context.Context, id string, r domain.Recipe) (domain.Recipe, bool, error) {
	if err := r.Validate(); err != nil {
		return domain.Recipe{}, false, err
	}
	r.Normalize()
	r.ID = id
	r.RecomputeDurations()

	s.mu.Lock()
	if err := s.reload(ctx); err != nil {
		s.mu.Unlock()
		return domain.Recipe{}, false, err
	}
	idx := -1
	for i := range s.recipes {
		if s.recipes[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return domain.Recipe{}, false, nil
	}
	s.recipes[idx] = domain.CloneRecipe(r)
	if err := s.persist(ctx); err != nil {
		s.mu.Unlock()
		return domain.Recipe{}, false, err
	}
	cb := s.onUpdate
	s.mu.Unlock()

	s.notify(ctx, cb)
	return r, true, nil
}

// Delete removes any record whose id matches. A missing id is a no-op, not
// an error; the (possibly unchanged) collection is persisted either way.
func (s *RecipeStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if err := s.reload(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	kept := s.recipes[:0]
	for _, r := range s.recipes {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.recipes = kept
	if err := s.persist(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	cb := s.onUpdate
	s.mu.Unlock()

	s.notify(ctx, cb)
	return nil
}

// reload refreshes the cache from the backend. Must be called with mu held.
func (s *RecipeStore) reload(ctx context.Context) error {
	key := CurrentKey(s.section)
	payload, ok, err := s.backend.Load(ctx, key)
	if err != nil {
		return domain.StorageError{Op: "load", Key: key, Err: err}
	}
	if !ok {
		payload, err = s.migrateLegacy(ctx)
		if err != nil {
			return err
		}
	}
	recipes, err := domain.DecodeDocuments(payload)
	if err != nil {
		return domain.StorageError{Op: "decode", Key: key, Err: err}
	}
	s.recipes = recipes
	return nil
}

// migrateLegacy reads the legacy key(s) once and persists any content found
// under the current key. The legacy blob is never written back or deleted.
func (s *RecipeStore) migrateLegacy(ctx context.Context) ([]byte, error) {
	for _, legacyKey := range LegacyKeys(s.section) {
		payload, ok, err := s.backend.Load(ctx, legacyKey)
		if err != nil {
			return nil, domain.StorageError{Op: "load", Key: legacyKey, Err: err}
		}
		if !ok {
			continue
		}
		currentKey := CurrentKey(s.section)
		if err := s.backend.Save(ctx, currentKey, payload); err != nil {
			return nil, domain.StorageError{Op: "save", Key: currentKey, Err: err}
		}
		return payload, nil
	}
	return nil, nil
}

// persist writes the full cached collection. Must be called with mu held.
func (s *RecipeStore) persist(ctx context.Context) error {
	key := CurrentKey(s.section)
	payload, err := domain.EncodeDocuments(s.recipes)
	if err != nil {
		return domain.StorageError{Op: "encode", Key: key, Err: err}
	}
	if err := s.backend.Save(ctx, key, payload); err != nil {
		return domain.StorageError{Op: "save", Key: key, Err: err}
	}
	return nil
}

// notify awaits the registered callback. Callback failures are the
// callback's own responsibility; a panic here would mask a successful
// mutation, so there is nothing to catch.
func (s *RecipeStore) notify(ctx context.Context, cb domain.UpdateCallback) {
	if cb != nil {
		cb(ctx)
	}
}

func cloneRecipes(in []domain.Recipe) []domain.Recipe {
	out := make([]domain.Recipe, 0, len(in))
	for _, r := range in {
		out = append(out, domain.CloneRecipe(r))
	}
	return out
}
