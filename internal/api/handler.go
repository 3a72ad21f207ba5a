// Package api exposes the recipe command layer over HTTP.
package api

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"recipecards/internal/core"
	"recipecards/internal/projection"
	"recipecards/pkg/domain"
)

// EntitySource resolves the projected entity set for a section.
type EntitySource interface {
	SectionEntities(section string) ([]projection.Entity, bool)
}

// Handler provides HTTP access to sections, records, search, and the
// entity projection.
type Handler struct {
	Service  *core.Service
	Entities EntitySource
}

// NewHandler constructs a recipe HTTP handler.
func NewHandler(service *core.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		writeError(w, http.StatusInternalServerError, "recipe service not configured")
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == "/api/v1/search":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleSearch(w, r)
	case path == "/api/v1/sections":
		h.handleSections(w, r)
	case strings.HasPrefix(path, "/api/v1/sections/"):
		h.handleSection(w, r, strings.TrimPrefix(path, "/api/v1/sections/"))
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleSections(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"sections": h.Service.Sections()})
	case http.MethodPost:
		var req struct {
			Section string `json:"section"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid section payload")
			return
		}
		if err := h.Service.CreateSection(r.Context(), req.Section); err != nil {
			h.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"section": req.Section})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleSection(w http.ResponseWriter, r *http.Request, remainder string) {
	segments := strings.Split(remainder, "/")
	section := segments[0]
	if section == "" {
		http.NotFound(w, r)
		return
	}

	switch len(segments) {
	case 1:
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		found, err := h.Service.RemoveSection(r.Context(), section)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, "section not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case 2:
		switch segments[1] {
		case "recipes":
			h.handleRecipes(w, r, section)
		case "export":
			h.handleExport(w, r, section)
		case "entities":
			h.handleEntities(w, r, section)
		default:
			http.NotFound(w, r)
		}
	case 3:
		if segments[1] != "recipes" || segments[2] == "" {
			http.NotFound(w, r)
			return
		}
		h.handleRecipe(w, r, section, segments[2])
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleRecipes(w http.ResponseWriter, r *http.Request, section string) {
	switch r.Method {
	case http.MethodGet:
		recipes, err := h.Service.ListRecipes(r.Context(), section)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"recipes": toDocuments(recipes)})
	case http.MethodPost:
		recipe, ok := decodeRecipe(w, r)
		if !ok {
			return
		}
		added, err := h.Service.AddRecipe(r.Context(), section, recipe)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"recipe": domain.ToDocument(added)})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleRecipe(w http.ResponseWriter, r *http.Request, section, id string) {
	switch r.Method {
	case http.MethodGet:
		recipe, found, err := h.Service.GetRecipe(r.Context(), section, id)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, "recipe not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"recipe": domain.ToDocument(recipe)})
	case http.MethodPut:
		recipe, ok := decodeRecipe(w, r)
		if !ok {
			return
		}
		updated, found, err := h.Service.UpdateRecipe(r.Context(), section, id, recipe)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, "recipe not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"recipe": domain.ToDocument(updated)})
	case http.MethodPatch:
		var patch domain.RecipePatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid recipe payload")
			return
		}
		merged, found, err := h.Service.MergeRecipe(r.Context(), section, id, patch)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, "recipe not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"recipe": domain.ToDocument(merged)})
	case http.MethodDelete:
		if err := h.Service.DeleteRecipe(r.Context(), section, id); err != nil {
			h.writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	hits, err := h.Service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hits": hits})
}

func (h *Handler) handleEntities(w http.ResponseWriter, r *http.Request, section string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.Entities == nil {
		http.NotFound(w, r)
		return
	}
	entities, ok := h.Entities.SectionEntities(section)
	if !ok {
		writeError(w, http.StatusNotFound, "section not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entities": entities})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request, section string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	recipes, err := h.Service.ListRecipes(r.Context(), section)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	switch negotiateFormat(r) {
	case "csv":
		streamCSV(w, section, recipes)
	case "json":
		writeJSON(w, http.StatusOK, map[string]any{"section": section, "recipes": toDocuments(recipes)})
	default:
		writeError(w, http.StatusNotAcceptable, "requested format not supported")
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var notFound domain.SectionNotFoundError
	if errors.As(err, &notFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	var invalid domain.ValidationError
	if errors.As(err, &invalid) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func decodeRecipe(w http.ResponseWriter, r *http.Request) (domain.Recipe, bool) {
	var doc domain.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid recipe payload")
		return domain.Recipe{}, false
	}
	return domain.FromDocument(doc), true
}

func toDocuments(recipes []domain.Recipe) []domain.Document {
	docs := make([]domain.Document, 0, len(recipes))
	for _, r := range recipes {
		docs = append(docs, domain.ToDocument(r))
	}
	return docs
}

func negotiateFormat(r *http.Request) string {
	wanted := strings.ToLower(r.URL.Query().Get("format"))
	if wanted == "" {
		if strings.Contains(r.Header.Get("Accept"), "text/csv") {
			return "csv"
		}
		return "json"
	}
	switch wanted {
	case "csv", "json":
		return wanted
	}
	return ""
}

var csvColumns = []string{"id", "title", "description", "ingredients", "instructions", "notes", "color", "prep_time", "cook_time", "total_time"}

func streamCSV(w http.ResponseWriter, section string, recipes []domain.Recipe) {
	filename := fmt.Sprintf("%s-%s.csv", section, time.Now().UTC().Format("20060102T150405Z"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(csvColumns); err != nil {
		return
	}
	for _, r := range recipes {
		record := []string{
			r.ID,
			r.Title,
			r.Description,
			strings.Join(r.Ingredients, "; "),
			strings.Join(r.Instructions, "\n"),
			r.Notes,
			r.Color,
			formatMinutes(r.PrepTime),
			formatMinutes(r.CookTime),
			formatMinutes(r.TotalTime),
		}
		if err := writer.Write(record); err != nil {
			return
		}
	}
}

func formatMinutes(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
