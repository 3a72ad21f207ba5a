package core

import (
	"context"
	"errors"
	"testing"

	"recipecards/internal/blob"
	"recipecards/pkg/domain"
)

func newTestService(t *testing.T, sections ...string) *Service {
	t.Helper()
	reg := NewRegistry(NewBlobBackend(blob.NewMemory()))
	for _, section := range sections {
		if _, err := reg.CreateSection(section); err != nil {
			t.Fatalf("create %s: %v", section, err)
		}
	}
	return NewService(reg, nil, nil)
}

func strp(s string) *string { return &s }

func TestServiceSectionNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, err := svc.ListRecipes(ctx, "nowhere")
	var nf domain.SectionNotFoundError
	if !errors.As(err, &nf) || nf.Section != "nowhere" {
		t.Fatalf("want SectionNotFoundError, got %v", err)
	}
}

func TestServiceMergeRecipe(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, "kitchen")
	added, err := svc.AddRecipe(ctx, "kitchen", domain.Recipe{
		Title:       "Tea",
		Description: "hot leaf juice",
		Ingredients: []string{"water", "leaves"},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	merged, found, err := svc.MergeRecipe(ctx, "kitchen", added.ID, domain.RecipePatch{Title: strp("Tea v2")})
	if err != nil || !found {
		t.Fatalf("merge: found=%v err=%v", found, err)
	}
	if merged.Title != "Tea v2" {
		t.Fatalf("title = %q", merged.Title)
	}
	// untouched fields survive the merge
	if merged.Description != "hot leaf juice" || len(merged.Ingredients) != 2 {
		t.Fatalf("merge dropped fields: %+v", merged)
	}

	_, found, err = svc.MergeRecipe(ctx, "kitchen", "missing", domain.RecipePatch{Title: strp("X")})
	if err != nil || found {
		t.Fatalf("merge of missing id: found=%v err=%v", found, err)
	}
}

func TestServiceSearchFanOut(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, "kitchen", "pantry")
	if _, err := svc.AddRecipe(ctx, "kitchen", domain.Recipe{Title: "Ginger Tea", Ingredients: []string{"ginger"}}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddRecipe(ctx, "pantry", domain.Recipe{Title: "Stew", Ingredients: []string{"ginger", "beef"}}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddRecipe(ctx, "pantry", domain.Recipe{Title: "Bread"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	hits, err := svc.Search(ctx, "GINGER")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %+v, want 2", hits)
	}
	if hits[0].Section != "kitchen" || hits[1].Section != "pantry" {
		t.Fatalf("sections out of order: %+v", hits)
	}

	all, err := svc.Search(ctx, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("empty query should list everything: %d %v", len(all), err)
	}
}

func TestServiceMetricsObserved(t *testing.T) {
	ctx := context.Background()
	rec := NewExpvarMetricsRecorder("")
	reg := NewRegistry(NewBlobBackend(blob.NewMemory()))
	if _, err := reg.CreateSection("kitchen"); err != nil {
		t.Fatalf("create: %v", err)
	}
	svc := NewService(reg, rec, nil)

	if _, err := svc.AddRecipe(ctx, "kitchen", domain.Recipe{Title: "Tea"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.ListRecipes(ctx, "missing"); err == nil {
		t.Fatalf("expected error")
	}

	snap := rec.Snapshot()
	if snap.Results["add"]["success"] != 1 {
		t.Fatalf("add success not recorded: %+v", snap.Results)
	}
	if snap.Results["list"]["error"] != 1 {
		t.Fatalf("list error not recorded: %+v", snap.Results)
	}
}
