package domain

import (
	"reflect"
	"testing"
)

func TestDocumentRoundTrip(t *testing.T) {
	r := Recipe{
		ID:           "r-1",
		Title:        "Tea",
		Description:  "hot leaf juice",
		Ingredients:  []string{"water", "leaves"},
		Notes:        "steep gently",
		Instructions: []string{"boil", "steep"},
		Color:        "#00FF00",
		Image:        "https://example.com/tea.png",
		PrepTime:     intp(2),
		CookTime:     intp(3),
		TotalTime:    intp(5),
	}
	got := FromDocument(ToDocument(r))
	if !reflect.DeepEqual(got, r) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, r)
	}
}

func TestFromDocumentDefaults(t *testing.T) {
	r := FromDocument(Document{"id": "1", "title": "A"})
	if r.ID != "1" || r.Title != "A" {
		t.Fatalf("unexpected identity fields: %+v", r)
	}
	if r.Color != DefaultColor {
		t.Fatalf("color = %q, want default", r.Color)
	}
	if r.Ingredients == nil || len(r.Ingredients) != 0 {
		t.Fatalf("ingredients = %#v, want empty slice", r.Ingredients)
	}
	if r.PrepTime != nil || r.CookTime != nil || r.TotalTime != nil {
		t.Fatalf("durations should be unset: %+v", r)
	}
}

func TestFromDocumentCoercions(t *testing.T) {
	r := FromDocument(Document{
		"title":        "B",
		"instructions": "single step", // bare string accepted as one-entry list
		"color":        []any{float64(255), float64(0), float64(0)},
		"prep_time":    float64(12),
		"cook_time":    float64(-4), // negative minutes are dropped
	})
	if !reflect.DeepEqual(r.Instructions, []string{"single step"}) {
		t.Fatalf("instructions = %#v", r.Instructions)
	}
	if r.Color != "#FF0000" {
		t.Fatalf("color = %q", r.Color)
	}
	if r.PrepTime == nil || *r.PrepTime != 12 {
		t.Fatalf("prep = %v", r.PrepTime)
	}
	if r.CookTime != nil {
		t.Fatalf("cook = %v, want nil", r.CookTime)
	}
}

func TestDocumentPreservesUnknownKeys(t *testing.T) {
	doc := Document{"id": "1", "title": "A", "rating": float64(5), "source": "grandma"}
	r := FromDocument(doc)
	if r.Extra["rating"] != float64(5) || r.Extra["source"] != "grandma" {
		t.Fatalf("extra keys lost: %#v", r.Extra)
	}
	out := ToDocument(r)
	if out["rating"] != float64(5) || out["source"] != "grandma" {
		t.Fatalf("extra keys not re-encoded: %#v", out)
	}
}

func TestEncodeDecodeDocuments(t *testing.T) {
	in := []Recipe{
		{ID: "1", Title: "A", Ingredients: []string{}, Instructions: []string{}, Color: DefaultColor},
		{ID: "2", Title: "B", Ingredients: []string{"x"}, Instructions: []string{"y"}, Color: "#112233"},
	}
	payload, err := EncodeDocuments(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeDocuments(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Fatalf("collection round trip mismatch:\n got %+v\nwant %+v", out, in)
	}
}

func TestDecodeDocumentsEmptyPayload(t *testing.T) {
	out, err := DecodeDocuments(nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("want empty collection, got %d", len(out))
	}
}

func TestDecodeDocumentsMalformedBlob(t *testing.T) {
	if _, err := DecodeDocuments([]byte("{not json")); err == nil {
		t.Fatalf("expected error for malformed blob")
	}
}

func TestValidate(t *testing.T) {
	if err := (Recipe{Title: "ok"}).Validate(); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	err := (Recipe{}).Validate()
	var verr ValidationError
	if !asValidation(err, &verr) || verr.Field != "title" {
		t.Fatalf("want title ValidationError, got %v", err)
	}
	big := Recipe{Title: "img", Image: string(make([]byte, MaxImageBytes+1))}
	err = big.Validate()
	if !asValidation(err, &verr) || verr.Field != "image" {
		t.Fatalf("want image ValidationError, got %v", err)
	}
}

func asValidation(err error, out *ValidationError) bool {
	v, ok := err.(ValidationError)
	if ok {
		*out = v
	}
	return ok
}
