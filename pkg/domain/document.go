package domain

import "encoding/json"

// Document is the flat wire/storage dictionary form of a record.
type Document = map[string]any

// ToDocument encodes a record into its wire dictionary form. Unknown keys
// captured on decode are merged back so round-trips never drop fields a
// newer writer may have added.
func ToDocument(r Recipe) Document {
	doc := Document{}
	for k, v := range r.Extra {
		doc[k] = v
	}
	doc["id"] = r.ID
	doc["title"] = r.Title
	doc["description"] = r.Description
	doc["ingredients"] = append([]string{}, r.Ingredients...)
	doc["notes"] = r.Notes
	doc["instructions"] = append([]string{}, r.Instructions...)
	doc["color"] = r.Color
	if r.Image != "" {
		doc["image"] = r.Image
	}
	if r.PrepTime != nil {
		doc["prep_time"] = *r.PrepTime
	}
	if r.CookTime != nil {
		doc["cook_time"] = *r.CookTime
	}
	if r.TotalTime != nil {
		doc["total_time"] = *r.TotalTime
	}
	return doc
}

// FromDocument decodes a wire dictionary into a record. The decode is
// tolerant: absent optional fields take their defaults, malformed values
// are coerced per the documented fallback policy, and unrecognized keys are
// preserved in Extra. It never fails; format drift must not reject stored
// records.
func FromDocument(doc Document) Recipe {
	r := Recipe{
		ID:           stringField(doc, "id"),
		Title:        stringField(doc, "title"),
		Description:  stringField(doc, "description"),
		Ingredients:  stringListField(doc, "ingredients"),
		Notes:        stringField(doc, "notes"),
		Instructions: stringListField(doc, "instructions"),
		Color:        NormalizeColor(doc["color"]),
		Image:        stringField(doc, "image"),
		PrepTime:     minutesField(doc, "prep_time"),
		CookTime:     minutesField(doc, "cook_time"),
		TotalTime:    minutesField(doc, "total_time"),
	}
	for k, v := range doc {
		if knownRecipeKeys[k] {
			continue
		}
		if r.Extra == nil {
			r.Extra = map[string]any{}
		}
		r.Extra[k] = v
	}
	return r
}

var knownRecipeKeys = map[string]bool{
	"id": true, "title": true, "description": true, "ingredients": true,
	"notes": true, "instructions": true, "color": true, "image": true,
	"prep_time": true, "cook_time": true, "total_time": true,
}

// EncodeDocuments marshals a collection into the persisted blob form.
func EncodeDocuments(recipes []Recipe) ([]byte, error) {
	docs := make([]Document, 0, len(recipes))
	for _, r := range recipes {
		docs = append(docs, ToDocument(r))
	}
	return json.MarshalIndent(docs, "", "  ")
}

// DecodeDocuments unmarshals a persisted blob back into records, preserving
// stored order. A blob that is not a JSON array is a storage-format error;
// individual malformed records are coerced, not rejected.
func DecodeDocuments(payload []byte) ([]Recipe, error) {
	if len(payload) == 0 {
		return []Recipe{}, nil
	}
	var docs []Document
	if err := json.Unmarshal(payload, &docs); err != nil {
		return nil, err
	}
	recipes := make([]Recipe, 0, len(docs))
	for _, doc := range docs {
		recipes = append(recipes, FromDocument(doc))
	}
	return recipes, nil
}

func stringField(doc Document, key string) string {
	if s, ok := doc[key].(string); ok {
		return s
	}
	return ""
}

func stringListField(doc Document, key string) []string {
	switch v := doc[key].(type) {
	case []string:
		return append([]string{}, v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		// A bare string is accepted as a single-entry list.
		if v == "" {
			return []string{}
		}
		return []string{v}
	default:
		return []string{}
	}
}

func minutesField(doc Document, key string) *int {
	var n int
	switch v := doc[key].(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		n = int(v)
	default:
		return nil
	}
	if n < 0 {
		return nil
	}
	return &n
}
