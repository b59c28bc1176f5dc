package services

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceKindRSS     = "rss"
	SourceKindListing = "listing"
)

// Source describes one configured news source.
type Source struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	URL  string `yaml:"url"`
	// Lower priority runs first.
	Priority int  `yaml:"priority"`
	Enabled  bool `yaml:"enabled"`
	// CategoryFilter is an optional regex; feed items whose title+summary
	// don't match are skipped.
	CategoryFilter string `yaml:"category_filter,omitempty"`
	// LinkPatterns are URL path substrings that identify article links on a
	// listing page.
	LinkPatterns []string `yaml:"link_patterns,omitempty"`
}

type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// LoadSources reads the YAML source list, keeping only enabled sources,
// sorted by ascending priority.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	var enabled []Source
	for _, src := range file.Sources {
		if !src.Enabled {
			continue
		}
		if src.Name == "" || src.URL == "" {
			return nil, fmt.Errorf("source entries need both name and url")
		}
		if src.Kind != SourceKindRSS && src.Kind != SourceKindListing {
			return nil, fmt.Errorf("source %q has unknown kind %q", src.Name, src.Kind)
		}
		enabled = append(enabled, src)
	}

	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})
	return enabled, nil
}
