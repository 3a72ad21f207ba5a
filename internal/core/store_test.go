package core

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"recipecards/internal/blob"
	"recipecards/pkg/domain"
)

func newMemoryStore(t *testing.T, section string) (*RecipeStore, domain.Backend) {
	t.Helper()
	backend := NewBlobBackend(blob.NewMemory())
	return NewRecipeStore(backend, section), backend
}

func TestAddThenLoad(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryStore(t, "kitchen")

	added, err := store.Add(ctx, domain.Recipe{Title: "Tea", Ingredients: []string{"water"}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.ID == "" {
		t.Fatalf("expected generated id")
	}
	if added.Color != domain.DefaultColor {
		t.Fatalf("color = %q, want default", added.Color)
	}

	recipes, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recipes) != 1 {
		t.Fatalf("len = %d, want 1", len(recipes))
	}
	if !reflect.DeepEqual(recipes[0], added) {
		t.Fatalf("loaded record differs:\n got %+v\nwant %+v", recipes[0], added)
	}
}

func TestAddEmptyTitleFails(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryStore(t, "kitchen")
	_, err := store.Add(ctx, domain.Recipe{})
	var verr domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "title" {
		t.Fatalf("want title ValidationError, got %v", err)
	}
	recipes, err := store.Load(ctx)
	if err != nil || len(recipes) != 0 {
		t.Fatalf("collection should stay empty: %v %v", recipes, err)
	}
}

func TestAddRecomputesDurations(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryStore(t, "kitchen")
	added, err := store.Add(ctx, domain.Recipe{
		Title:        "Roast",
		Instructions: []string{"Prep: 15 min", "Cook: 1 hr 20 minutes"},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.PrepTime == nil || *added.PrepTime != 15 {
		t.Fatalf("prep = %v", added.PrepTime)
	}
	if added.CookTime == nil || *added.CookTime != 80 {
		t.Fatalf("cook = %v", added.CookTime)
	}
	if added.TotalTime == nil || *added.TotalTime != 95 {
		t.Fatalf("total = %v", added.TotalTime)
	}
}

func TestUpdateAbsentID(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryStore(t, "kitchen")
	if _, err := store.Add(ctx, domain.Recipe{Title: "Tea"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	before, _ := store.Load(ctx)

	_, found, err := store.Update(ctx, "missing", domain.Recipe{Title: "X"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if found {
		t.Fatalf("expected found=false")
	}
	after, _ := store.Load(ctx)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("collection changed on missed update")
	}
}

func TestUpdateForcesIDAndKeepsPosition(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryStore(t, "kitchen")
	first, _ := store.Add(ctx, domain.Recipe{Title: "A"})
	second, _ := store.Add(ctx, domain.Recipe{Title: "B"})

	replacement := domain.Recipe{ID: "attacker-controlled", Title: "A v2"}
	updated, found, err := store.Update(ctx, first.ID, replacement)
	if err != nil || !found {
		t.Fatalf("update: found=%v err=%v", found, err)
	}
	if updated.ID != first.ID {
		t.Fatalf("id = %q, want forced %q", updated.ID, first.ID)
	}

	recipes, _ := store.Load(ctx)
	if len(recipes) != 2 || recipes[0].ID != first.ID || recipes[0].Title != "A v2" {
		t.Fatalf("position not preserved: %+v", recipes)
	}
	if recipes[1].ID != second.ID {
		t.Fatalf("unrelated record disturbed: %+v", recipes[1])
	}
}

func TestDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryStore(t, "kitchen")
	added, _ := store.Add(ctx, domain.Recipe{Title: "Tea"})

	if err := store.Delete(ctx, added.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, added.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	recipes, err := store.Load(ctx)
	if err != nil || len(recipes) != 0 {
		t.Fatalf("collection should be empty: %v %v", recipes, err)
	}
}

func TestLegacyMigration(t *testing.T) {
	ctx := context.Background()
	backend := NewBlobBackend(blob.NewMemory())
	legacyKey := LegacyKeys("kitchen")[0]
	legacyPayload := []byte(`[{"id":"1","title":"A"}]`)
	if err := backend.Save(ctx, legacyKey, legacyPayload); err != nil {
		t.Fatalf("seed legacy: %v", err)
	}

	store := NewRecipeStore(backend, "kitchen")
	recipes, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recipes) != 1 || recipes[0].ID != "1" || recipes[0].Title != "A" {
		t.Fatalf("migrated content wrong: %+v", recipes)
	}

	// current key now holds the content
	payload, ok, err := backend.Load(ctx, CurrentKey("kitchen"))
	if err != nil || !ok {
		t.Fatalf("current key missing after migration: ok=%v err=%v", ok, err)
	}
	migrated, err := domain.DecodeDocuments(payload)
	if err != nil || len(migrated) != 1 || migrated[0].ID != "1" {
		t.Fatalf("current key content wrong: %+v err=%v", migrated, err)
	}

	// legacy key untouched
	raw, ok, err := backend.Load(ctx, legacyKey)
	if err != nil || !ok || string(raw) != string(legacyPayload) {
		t.Fatalf("legacy key changed: %q ok=%v err=%v", raw, ok, err)
	}
}

func TestLegacySharedFileMigration(t *testing.T) {
	ctx := context.Background()
	backend := NewBlobBackend(blob.NewMemory())
	if err := backend.Save(ctx, ".recipecards.json", []byte(`[{"id":"9","title":"Shared"}]`)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := NewRecipeStore(backend, "kitchen")
	recipes, err := store.Load(ctx)
	if err != nil || len(recipes) != 1 || recipes[0].ID != "9" {
		t.Fatalf("shared-file migration failed: %+v err=%v", recipes, err)
	}
}

func TestReloadBeforeMutate(t *testing.T) {
	// Two store instances over the same backing key must not lose each
	// other's writes.
	ctx := context.Background()
	backend := NewBlobBackend(blob.NewMemory())
	a := NewRecipeStore(backend, "kitchen")
	b := NewRecipeStore(backend, "kitchen")

	if _, err := a.Add(ctx, domain.Recipe{Title: "From A"}); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if _, err := b.Add(ctx, domain.Recipe{Title: "From B"}); err != nil {
		t.Fatalf("add b: %v", err)
	}
	recipes, err := a.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recipes) != 2 {
		t.Fatalf("lost update: %+v", recipes)
	}
}

func TestUpdateCallback(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryStore(t, "kitchen")

	calls := 0
	store.SetUpdateCallback(func(context.Context) { calls++ })

	added, _ := store.Add(ctx, domain.Recipe{Title: "Tea"})
	if _, _, err := store.Update(ctx, added.ID, domain.Recipe{Title: "Tea v2"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := store.Delete(ctx, added.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if calls != 3 {
		t.Fatalf("callback calls = %d, want 3", calls)
	}

	// no callback on a failed write
	if _, err := store.Add(ctx, domain.Recipe{}); err == nil {
		t.Fatalf("expected validation error")
	}
	if calls != 3 {
		t.Fatalf("callback fired on failed write")
	}

	// later registration replaces the prior one
	replaced := 0
	store.SetUpdateCallback(func(context.Context) { replaced++ })
	if _, err := store.Add(ctx, domain.Recipe{Title: "Again"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if calls != 3 || replaced != 1 {
		t.Fatalf("callback replacement broken: old=%d new=%d", calls, replaced)
	}
}

func TestEndToEndLifecycle(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryStore(t, "kitchen")

	added, err := store.Add(ctx, domain.Recipe{Title: "Tea"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	recipes, _ := store.Load(ctx)
	if len(recipes) != 1 || recipes[0].Title != "Tea" || recipes[0].ID == "" {
		t.Fatalf("unexpected collection: %+v", recipes)
	}

	_, found, err := store.Update(ctx, added.ID, domain.Recipe{Title: "Tea v2"})
	if err != nil || !found {
		t.Fatalf("update: found=%v err=%v", found, err)
	}
	if err := store.Delete(ctx, added.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	recipes, _ = store.Load(ctx)
	if len(recipes) != 0 {
		t.Fatalf("collection should be empty: %+v", recipes)
	}
}

// failingBackend fails every operation with a fixed error.
type failingBackend struct{ err error }

func (f failingBackend) Load(context.Context, string) ([]byte, bool, error) { return nil, false, f.err }
func (f failingBackend) Save(context.Context, string, []byte) error         { return f.err }
func (f failingBackend) Delete(context.Context, string) (bool, error)       { return false, f.err }
func (f failingBackend) ListKeys(context.Context, string) ([]string, error) { return nil, f.err }

func TestStorageErrorPropagates(t *testing.T) {
	ctx := context.Background()
	boom := fmt.Errorf("disk on fire")
	store := NewRecipeStore(failingBackend{err: boom}, "kitchen")

	_, err := store.Load(ctx)
	var serr domain.StorageError
	if !errors.As(err, &serr) || !errors.Is(err, boom) {
		t.Fatalf("want wrapped StorageError, got %v", err)
	}
	if _, err := store.Add(ctx, domain.Recipe{Title: "Tea"}); !errors.Is(err, boom) {
		t.Fatalf("add should propagate backend error, got %v", err)
	}
}

func TestMalformedStoredRecordsCoerced(t *testing.T) {
	ctx := context.Background()
	backend := NewBlobBackend(blob.NewMemory())
	// missing title and color, bogus color type
	if err := backend.Save(ctx, CurrentKey("kitchen"), []byte(`[{"id":"1","color":42}]`)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := NewRecipeStore(backend, "kitchen")
	recipes, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recipes) != 1 || recipes[0].Color != domain.DefaultColor {
		t.Fatalf("coercion failed: %+v", recipes)
	}
}

func TestSectionKeyHelpers(t *testing.T) {
	if got := CurrentKey("kitchen"); got != "recipecards/kitchen.json" {
		t.Fatalf("current key = %q", got)
	}
	section, ok := SectionFromKey("recipecards/kitchen.json")
	if !ok || section != "kitchen" {
		t.Fatalf("section = %q ok=%v", section, ok)
	}
	if _, ok := SectionFromKey("other/kitchen.json"); ok {
		t.Fatalf("foreign key accepted")
	}
}
