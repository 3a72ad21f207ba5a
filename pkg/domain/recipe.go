// Package domain defines the recipe record, its wire codec, derived-field
// computation, and the persistence abstractions used by recipecards.
package domain

// DefaultColor is the card color applied when none is supplied or the
// supplied value cannot be normalized.
const DefaultColor = "#FFD700"

// MaxImageBytes bounds the size of an inline image (data URI or URL).
const MaxImageBytes = 512 * 1024

// Recipe is the unit of storage: one user-authored recipe card scoped to a
// section. Duration fields are derived from free text on every write; nil
// means unset, which is distinct from an explicit zero.
type Recipe struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Ingredients  []string       `json:"ingredients"`
	Notes        string         `json:"notes"`
	Instructions []string       `json:"instructions"`
	Color        string         `json:"color"`
	Image        string         `json:"image,omitempty"`
	PrepTime     *int           `json:"prep_time,omitempty"`
	CookTime     *int           `json:"cook_time,omitempty"`
	TotalTime    *int           `json:"total_time,omitempty"`
	Extra        map[string]any `json:"-"`
}

// CloneRecipe returns a deep copy so callers can hold results without
// aliasing store-internal state.
func CloneRecipe(r Recipe) Recipe {
	cp := r
	cp.Ingredients = append([]string(nil), r.Ingredients...)
	cp.Instructions = append([]string(nil), r.Instructions...)
	cp.PrepTime = cloneInt(r.PrepTime)
	cp.CookTime = cloneInt(r.CookTime)
	cp.TotalTime = cloneInt(r.TotalTime)
	if r.Extra != nil {
		cp.Extra = make(map[string]any, len(r.Extra))
		for k, v := range r.Extra {
			cp.Extra[k] = v
		}
	}
	return cp
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

// Validate checks the write-time invariants. Color is deliberately absent:
// normalization falls back to the default instead of failing the write.
func (r Recipe) Validate() error {
	if r.Title == "" {
		return ValidationError{Field: "title", Reason: "title must not be empty"}
	}
	if len(r.Image) > MaxImageBytes {
		return ValidationError{Field: "image", Reason: "image exceeds size limit"}
	}
	return nil
}

// Normalize applies the canonical fallbacks that keep a record internally
// consistent regardless of where it came from.
func (r *Recipe) Normalize() {
	r.Color = NormalizeColor(r.Color)
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	if r.Instructions == nil {
		r.Instructions = []string{}
	}
}

// RecomputeDurations re-derives prep/cook/total from the record's
// instructions and notes, replacing any previously held values.
func (r *Recipe) RecomputeDurations() {
	d := ParseDurations(durationSource(r.Instructions, r.Notes))
	r.PrepTime = d.Prep
	r.CookTime = d.Cook
	r.TotalTime = d.Total
}

// RecipePatch carries the optional fields of a partial update. Merging a
// patch into an existing record is a caller concern; the store itself only
// replaces records wholesale.
type RecipePatch struct {
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Ingredients  *[]string `json:"ingredients,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	Instructions *[]string `json:"instructions,omitempty"`
	Color        *string   `json:"color,omitempty"`
	Image        *string   `json:"image,omitempty"`
}

// Apply overlays the patch on a copy of base and returns the merged record.
func (p RecipePatch) Apply(base Recipe) Recipe {
	merged := CloneRecipe(base)
	if p.Title != nil {
		merged.Title = *p.Title
	}
	if p.Description != nil {
		merged.Description = *p.Description
	}
	if p.Ingredients != nil {
		merged.Ingredients = append([]string(nil), *p.Ingredients...)
	}
	if p.Notes != nil {
		merged.Notes = *p.Notes
	}
	if p.Instructions != nil {
		merged.Instructions = append([]string(nil), *p.Instructions...)
	}
	if p.Color != nil {
		merged.Color = *p.Color
	}
	if p.Image != nil {
		merged.Image = *p.Image
	}
	return merged
}
