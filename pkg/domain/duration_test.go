package domain

import "testing"

func intp(n int) *int { return &n }

func TestParseDurationsLabeledPhrases(t *testing.T) {
	d := ParseDurations("Prep: 15 min\nCook: 1 hr 20 minutes")
	if d.Prep == nil || *d.Prep != 15 {
		t.Fatalf("prep = %v, want 15", d.Prep)
	}
	if d.Cook == nil || *d.Cook != 80 {
		t.Fatalf("cook = %v, want 80", d.Cook)
	}
	if d.Total == nil || *d.Total != 95 {
		t.Fatalf("total = %v, want 95 (summed)", d.Total)
	}
}

func TestParseDurationsExplicitTotalWins(t *testing.T) {
	d := ParseDurations("prep 10 minutes\ncook 20 minutes\ntotal time: 2 hours")
	if d.Total == nil || *d.Total != 120 {
		t.Fatalf("total = %v, want explicit 120", d.Total)
	}
}

func TestParseDurationsNoPhrases(t *testing.T) {
	d := ParseDurations("Whisk the eggs until fluffy.")
	if d.Prep != nil || d.Cook != nil || d.Total != nil {
		t.Fatalf("expected all nil, got %+v", d)
	}
}

func TestParseDurationsExplicitZero(t *testing.T) {
	d := ParseDurations("prep: 0 min")
	if d.Prep == nil || *d.Prep != 0 {
		t.Fatalf("prep = %v, want explicit 0", d.Prep)
	}
	if d.Cook != nil || d.Total != nil {
		t.Fatalf("cook/total should stay unset, got %+v", d)
	}
}

func TestParseDurationsLabelScopeEndsAtLine(t *testing.T) {
	// The cook value on the following line must not leak into prep.
	d := ParseDurations("preparation\ncook 30 min")
	if d.Prep != nil {
		t.Fatalf("prep = %v, want nil (no value on prep line)", d.Prep)
	}
	if d.Cook == nil || *d.Cook != 30 {
		t.Fatalf("cook = %v, want 30", d.Cook)
	}
}

func TestParseDurationsLabelsSharingALine(t *testing.T) {
	// Each label only owns the value directly attached to it; a second
	// label on the same line must not feed into the first.
	d := ParseDurations("Prep: 15 min, Cook: 30 min")
	if d.Prep == nil || *d.Prep != 15 {
		t.Fatalf("prep = %v, want 15", d.Prep)
	}
	if d.Cook == nil || *d.Cook != 30 {
		t.Fatalf("cook = %v, want 30", d.Cook)
	}
	if d.Total == nil || *d.Total != 45 {
		t.Fatalf("total = %v, want 45 (summed)", d.Total)
	}
}

func TestParseDurationsLabelWithoutValueIsSkipped(t *testing.T) {
	// A bare label-shaped word must not consume the lookup when a real
	// labeled phrase appears later.
	d := ParseDurations("Serve with cookies\nCook: 30 min")
	if d.Cook == nil || *d.Cook != 30 {
		t.Fatalf("cook = %v, want 30", d.Cook)
	}

	d = ParseDurations("prep the tray\nprep: 10 min")
	if d.Prep == nil || *d.Prep != 10 {
		t.Fatalf("prep = %v, want 10", d.Prep)
	}
}

func TestParseDurationsAlternateCookLabels(t *testing.T) {
	for _, text := range []string{"bake 45 minutes", "roast for 45 min", "grilling: 45m"} {
		d := ParseDurations(text)
		if d.Cook == nil || *d.Cook != 45 {
			t.Fatalf("%q: cook = %v, want 45", text, d.Cook)
		}
	}
}

func TestRecomputeDurationsReplacesSuppliedValues(t *testing.T) {
	r := Recipe{
		Title:        "Tea",
		Instructions: []string{"Prep: 5 min", "Cook: 10 min"},
		PrepTime:     intp(99),
		TotalTime:    intp(99),
	}
	r.RecomputeDurations()
	if r.PrepTime == nil || *r.PrepTime != 5 {
		t.Fatalf("prep = %v, want 5", r.PrepTime)
	}
	if r.TotalTime == nil || *r.TotalTime != 15 {
		t.Fatalf("total = %v, want 15", r.TotalTime)
	}

	r.Instructions = []string{"Steep."}
	r.Notes = ""
	r.RecomputeDurations()
	if r.PrepTime != nil || r.CookTime != nil || r.TotalTime != nil {
		t.Fatalf("expected unset durations after recompute, got %+v", r)
	}
}

func TestRecomputeDurationsReadsNotes(t *testing.T) {
	r := Recipe{Title: "Stew", Notes: "total: 3 hours"}
	r.RecomputeDurations()
	if r.TotalTime == nil || *r.TotalTime != 180 {
		t.Fatalf("total = %v, want 180", r.TotalTime)
	}
}
