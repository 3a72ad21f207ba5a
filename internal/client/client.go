// Package client provides a small HTTP client for the recipecards API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipecards/pkg/domain"
)

// Client talks to a running recipecards server.
type Client struct {
	base string
	http *http.Client
}

// New builds a client for the API at base (e.g. http://localhost:8088).
func New(base string) (*Client, error) {
	base = strings.TrimSuffix(strings.TrimSpace(base), "/")
	if base == "" {
		return nil, fmt.Errorf("api base url is empty")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", base, err)
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// SearchHit mirrors the server's search response entry.
type SearchHit struct {
	Section string          `json:"section"`
	Recipe  json.RawMessage `json:"recipe"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var failure struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&failure); decodeErr == nil && failure.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, failure.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Sections lists the registered section ids.
func (c *Client) Sections(ctx context.Context) ([]string, error) {
	var body struct {
		Sections []string `json:"sections"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/sections", nil, &body); err != nil {
		return nil, err
	}
	return body.Sections, nil
}

// CreateSection registers a new section.
func (c *Client) CreateSection(ctx context.Context, section string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/sections", map[string]string{"section": section}, nil)
}

// RemoveSection drops a section and its records.
func (c *Client) RemoveSection(ctx context.Context, section string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/sections/"+url.PathEscape(section), nil, nil)
}

// ListRecipes returns a section's records as raw documents.
func (c *Client) ListRecipes(ctx context.Context, section string) ([]domain.Document, error) {
	var body struct {
		Recipes []domain.Document `json:"recipes"`
	}
	path := "/api/v1/sections/" + url.PathEscape(section) + "/recipes"
	if err := c.do(ctx, http.MethodGet, path, nil, &body); err != nil {
		return nil, err
	}
	return body.Recipes, nil
}

// GetRecipe fetches one record by id.
func (c *Client) GetRecipe(ctx context.Context, section, id string) (domain.Document, error) {
	var body struct {
		Recipe domain.Document `json:"recipe"`
	}
	path := "/api/v1/sections/" + url.PathEscape(section) + "/recipes/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, nil, &body); err != nil {
		return nil, err
	}
	return body.Recipe, nil
}

// AddRecipe creates a record from a free-form document and returns the
// stored form.
func (c *Client) AddRecipe(ctx context.Context, section string, doc domain.Document) (domain.Document, error) {
	var body struct {
		Recipe domain.Document `json:"recipe"`
	}
	path := "/api/v1/sections/" + url.PathEscape(section) + "/recipes"
	if err := c.do(ctx, http.MethodPost, path, doc, &body); err != nil {
		return nil, err
	}
	return body.Recipe, nil
}

// UpdateRecipe replaces a record wholesale.
func (c *Client) UpdateRecipe(ctx context.Context, section, id string, doc domain.Document) (domain.Document, error) {
	var body struct {
		Recipe domain.Document `json:"recipe"`
	}
	path := "/api/v1/sections/" + url.PathEscape(section) + "/recipes/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, path, doc, &body); err != nil {
		return nil, err
	}
	return body.Recipe, nil
}

// MergeRecipe applies a partial update to a record.
func (c *Client) MergeRecipe(ctx context.Context, section, id string, patch domain.RecipePatch) (domain.Document, error) {
	var body struct {
		Recipe domain.Document `json:"recipe"`
	}
	path := "/api/v1/sections/" + url.PathEscape(section) + "/recipes/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPatch, path, patch, &body); err != nil {
		return nil, err
	}
	return body.Recipe, nil
}

// DeleteRecipe removes a record. Deleting an absent id succeeds.
func (c *Client) DeleteRecipe(ctx context.Context, section, id string) error {
	path := "/api/v1/sections/" + url.PathEscape(section) + "/recipes/" + url.PathEscape(id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Search queries every section for matching records.
func (c *Client) Search(ctx context.Context, query string) ([]SearchHit, error) {
	var body struct {
		Hits []SearchHit `json:"hits"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/search?q="+url.QueryEscape(query), nil, &body); err != nil {
		return nil, err
	}
	return body.Hits, nil
}

// ExportCSV streams a section's records in CSV form.
func (c *Client) ExportCSV(ctx context.Context, section string) ([]byte, error) {
	path := "/api/v1/sections/" + url.PathEscape(section) + "/export?format=csv"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("export: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
