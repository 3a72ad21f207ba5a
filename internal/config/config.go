// Package config holds server settings sourced from RECIPECARDS_* env vars
// and the optional YAML seed file that declares sections and starter records.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	envparse "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"recipecards/internal/core"
	"recipecards/pkg/domain"
)

// Server carries the settings of the HTTP server process. Storage driver
// selection stays with the backend factories; this struct covers what the
// process itself needs.
type Server struct {
	// ListenAddr is the bind address from RECIPECARDS_LISTEN_ADDR.
	ListenAddr string `env:"RECIPECARDS_LISTEN_ADDR" envDefault:":8088"`
	// LogLevel is the logging level from RECIPECARDS_LOG_LEVEL.
	LogLevel string `env:"RECIPECARDS_LOG_LEVEL" envDefault:"info"`
	// SeedPath points at a YAML seed file from RECIPECARDS_SEED_FILE.
	SeedPath string `env:"RECIPECARDS_SEED_FILE"`
	// DefaultSections lists sections created on startup, from RECIPECARDS_SECTIONS.
	DefaultSections []string `env:"RECIPECARDS_SECTIONS" envSeparator:","`
}

// LoadServer reads an optional .env file and then fills Server from the
// process environment.
func LoadServer() (Server, error) {
	_ = godotenv.Load()
	var cfg Server
	if err := envparse.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Seed declares sections and the records they start with. It mirrors the
// shape of the seed YAML file.
type Seed struct {
	// Sections lists the sections to create with their starter records.
	Sections []SeedSection `yaml:"sections"`
}

// SeedSection is one section entry in the seed file.
type SeedSection struct {
	// Name is the section identifier.
	Name string `yaml:"name"`
	// Recipes lists starter records as free-form documents.
	Recipes []map[string]any `yaml:"recipes,omitempty"`
}

// LoadSeed parses the seed file at path. An empty path yields an empty seed.
func LoadSeed(path string) (Seed, error) {
	if strings.TrimSpace(path) == "" {
		return Seed{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file %q: %w", path, err)
	}
	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed file %q: %w", path, err)
	}
	for i, section := range seed.Sections {
		if strings.TrimSpace(section.Name) == "" {
			return Seed{}, fmt.Errorf("seed file %q: section %d has no name", path, i)
		}
	}
	return seed, nil
}

// Apply creates the seed's sections and inserts starter records into any
// section that is still empty. Sections that already hold records are left
// alone so restarts never duplicate seed data.
func (s Seed) Apply(ctx context.Context, svc *core.Service) error {
	for _, section := range s.Sections {
		if err := svc.CreateSection(ctx, section.Name); err != nil {
			return err
		}
		if len(section.Recipes) == 0 {
			continue
		}
		existing, err := svc.ListRecipes(ctx, section.Name)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}
		for _, doc := range section.Recipes {
			if _, err := svc.AddRecipe(ctx, section.Name, domain.FromDocument(doc)); err != nil {
				return fmt.Errorf("seed section %q: %w", section.Name, err)
			}
		}
	}
	return nil
}
