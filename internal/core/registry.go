package core

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"recipecards/pkg/domain"
)

// Registry owns the section → store map. It is passed by reference to the
// layers that need it (command layer, projection); there is no process-wide
// ambient lookup.
type Registry struct {
	mu       sync.RWMutex
	backend  domain.Backend
	stores   map[string]*RecipeStore
	onCreate func(section string, store *RecipeStore)
	onRemove func(section string)
}

// NewRegistry constructs an empty registry over the given backend.
func NewRegistry(backend domain.Backend) *Registry {
	return &Registry{
		backend: backend,
		stores:  make(map[string]*RecipeStore),
	}
}

// SetLifecycleHooks installs callbacks invoked when a section store is
// created or removed. Set once during wiring, before concurrent use.
func (r *Registry) SetLifecycleHooks(onCreate func(section string, store *RecipeStore), onRemove func(section string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onCreate = onCreate
	r.onRemove = onRemove
}

// CreateSection registers a store for the section, creating it if absent.
// Creating an existing section returns the existing store.
func (r *Registry) CreateSection(section string) (*RecipeStore, error) {
	if section == "" {
		return nil, domain.ValidationError{Field: "section", Reason: "section id must not be empty"}
	}
	r.mu.Lock()
	if store, ok := r.stores[section]; ok {
		r.mu.Unlock()
		return store, nil
	}
	store := NewRecipeStore(r.backend, section)
	r.stores[section] = store
	hook := r.onCreate
	r.mu.Unlock()
	if hook != nil {
		hook(section, store)
	}
	return store, nil
}

// RemoveSection drops the section's store and deletes its persisted blob.
// Returns false when the section was not registered.
func (r *Registry) RemoveSection(ctx context.Context, section string) (bool, error) {
	r.mu.Lock()
	_, ok := r.stores[section]
	delete(r.stores, section)
	hook := r.onRemove
	r.mu.Unlock()
	if !ok {
		return false, nil
	}
	if hook != nil {
		hook(section)
	}
	key := CurrentKey(section)
	if _, err := r.backend.Delete(ctx, key); err != nil {
		return true, domain.StorageError{Op: "delete", Key: key, Err: err}
	}
	return true, nil
}

// Get returns the store registered for section, if any.
func (r *Registry) Get(section string) (*RecipeStore, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	store, ok := r.stores[section]
	return store, ok
}

// Sections returns the registered section ids in ascending order.
func (r *Registry) Sections() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.stores))
	for section := range r.stores {
		out = append(out, section)
	}
	sort.Strings(out)
	return out
}

// Discover registers stores for every section already persisted under the
// current key scheme. Intended for startup.
func (r *Registry) Discover(ctx context.Context) ([]string, error) {
	keys, err := r.backend.ListKeys(ctx, storageKeyPrefix)
	if err != nil {
		return nil, domain.StorageError{Op: "list", Key: storageKeyPrefix, Err: err}
	}
	var discovered []string
	for _, key := range keys {
		section, ok := SectionFromKey(key)
		if !ok {
			continue
		}
		if _, err := r.CreateSection(section); err != nil {
			return nil, fmt.Errorf("register section %s: %w", section, err)
		}
		discovered = append(discovered, section)
	}
	sort.Strings(discovered)
	return discovered, nil
}
