// Package catalog loads the static topic and language catalog: the
// popular-topic suggestions and the Judge0 language table used to resolve
// execution requests.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"mentai-server/utils"
)

// Language describes one executable language.
type Language struct {
	Judge0ID         int      `yaml:"judge0_id" json:"judge0_id"`
	ExecutionEnabled bool     `yaml:"execution_enabled" json:"execution_enabled"`
	Aliases          []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Extension        string   `yaml:"extension" json:"extension"`
}

// Catalog is the parsed catalog.yaml.
type Catalog struct {
	PopularTopics   []string            `yaml:"popular_topics" json:"popular_topics"`
	DefaultLanguage string              `yaml:"default_language" json:"default_language"`
	Languages       map[string]Language `yaml:"languages" json:"languages"`
}

// Load reads and parses the catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	return &cat, nil
}

// Resolve maps a language name or alias to its catalog entry. Empty input
// falls back to the default language.
func (c *Catalog) Resolve(name string) (Language, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = c.DefaultLanguage
	}
	if lang, ok := c.Languages[name]; ok {
		return lang, true
	}
	for _, lang := range c.Languages {
		if utils.ContainsString(lang.Aliases, name) {
			return lang, true
		}
	}
	return Language{}, false
}
