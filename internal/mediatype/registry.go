// Package mediatype classifies uploads into material categories from an
// embedded YAML definition. The declared material type on an upload is
// advisory; unknown values fall back to the classified category.
package mediatype

import (
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed types.yaml
var configFile embed.FS

// Other is the fallback category for unclassifiable content
const Other = "other"

// Category groups media types under one material label
type Category struct {
	Name         string   `yaml:"name" json:"name"`
	MIMEPrefixes []string `yaml:"mime_prefixes" json:"-"`
	Extensions   []string `yaml:"extensions" json:"extensions"`
}

type definition struct {
	Categories []Category `yaml:"categories"`
}

// Registry resolves content types and filenames to material categories
type Registry struct {
	categories []Category
	mu         sync.RWMutex
}

// NewRegistry loads the embedded category definitions
func NewRegistry() (*Registry, error) {
	data, err := configFile.ReadFile("types.yaml")
	if err != nil {
		return nil, fmt.Errorf("read media type definitions: %w", err)
	}

	var def definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("unmarshal media type definitions: %w", err)
	}
	if len(def.Categories) == 0 {
		return nil, fmt.Errorf("media type definitions are empty")
	}

	return &Registry{categories: def.Categories}, nil
}

// Classify maps a declared content type and filename to a category
// name. Content type wins; the extension is the fallback.
func (r *Registry) Classify(contentType, filename string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, cat := range r.categories {
		for _, prefix := range cat.MIMEPrefixes {
			if contentType != "" && strings.HasPrefix(contentType, prefix) {
				return cat.Name
			}
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != "" {
		for _, cat := range r.categories {
			for _, e := range cat.Extensions {
				if ext == e {
					return cat.Name
				}
			}
		}
	}

	return Other
}

// Valid reports whether name is a known category (or the fallback)
func (r *Registry) Valid(name string) bool {
	if name == Other {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cat := range r.categories {
		if cat.Name == name {
			return true
		}
	}
	return false
}

// Categories returns the known categories
func (r *Registry) Categories() []Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}
