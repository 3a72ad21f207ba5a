package client_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"recipecards/internal/api"
	"recipecards/internal/blob"
	"recipecards/internal/client"
	"recipecards/internal/core"
	"recipecards/pkg/domain"
)

func setupServer(t *testing.T) *client.Client {
	t.Helper()
	registry := core.NewRegistry(core.NewBlobBackend(blob.NewMemory()))
	svc := core.NewService(registry, nil, nil)
	server := httptest.NewServer(api.NewHandler(svc))
	t.Cleanup(server.Close)
	c, err := client.New(server.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewRejectsEmptyBase(t *testing.T) {
	if _, err := client.New("  "); err == nil {
		t.Fatalf("expected error for empty base url")
	}
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := setupServer(t)

	if err := c.CreateSection(ctx, "kitchen"); err != nil {
		t.Fatalf("create section: %v", err)
	}
	sections, err := c.Sections(ctx)
	if err != nil {
		t.Fatalf("sections: %v", err)
	}
	if len(sections) != 1 || sections[0] != "kitchen" {
		t.Fatalf("unexpected sections %v", sections)
	}

	added, err := c.AddRecipe(ctx, "kitchen", domain.Document{
		"title":        "Toast",
		"instructions": []any{"Prep: 5 min"},
	})
	if err != nil {
		t.Fatalf("add recipe: %v", err)
	}
	id, _ := added["id"].(string)
	if id == "" {
		t.Fatalf("server did not assign an id: %v", added)
	}

	got, err := c.GetRecipe(ctx, "kitchen", id)
	if err != nil {
		t.Fatalf("get recipe: %v", err)
	}
	if got["title"] != "Toast" {
		t.Fatalf("unexpected recipe %v", got)
	}

	desc := "breakfast"
	merged, err := c.MergeRecipe(ctx, "kitchen", id, domain.RecipePatch{Description: &desc})
	if err != nil {
		t.Fatalf("merge recipe: %v", err)
	}
	if merged["title"] != "Toast" || merged["description"] != "breakfast" {
		t.Fatalf("merge should keep unpatched fields, got %v", merged)
	}

	hits, err := c.Search(ctx, "toast")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].Section != "kitchen" {
		t.Fatalf("unexpected hits %v", hits)
	}

	csvData, err := c.ExportCSV(ctx, "kitchen")
	if err != nil {
		t.Fatalf("export csv: %v", err)
	}
	if !strings.Contains(string(csvData), "Toast") {
		t.Fatalf("csv export missing record: %q", csvData)
	}

	if err := c.DeleteRecipe(ctx, "kitchen", id); err != nil {
		t.Fatalf("delete recipe: %v", err)
	}
	if err := c.DeleteRecipe(ctx, "kitchen", id); err != nil {
		t.Fatalf("delete should stay idempotent: %v", err)
	}
	if _, err := c.GetRecipe(ctx, "kitchen", id); err == nil {
		t.Fatalf("expected error fetching deleted recipe")
	}
}

func TestClientSurfacesServerErrors(t *testing.T) {
	ctx := context.Background()
	c := setupServer(t)

	err := c.CreateSection(ctx, "")
	if err == nil || !strings.Contains(err.Error(), "status 400") {
		t.Fatalf("expected a 400 error, got %v", err)
	}
	if _, err := c.ListRecipes(ctx, "missing"); err == nil {
		t.Fatalf("expected error for unknown section")
	}
}
