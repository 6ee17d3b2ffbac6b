package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat is the YAML layout accepted by Load. Sections left empty fall
// back to the built-in definitions.
type fileFormat struct {
	Categories []BoostCategory       `yaml:"categories"`
	Challenges []ChallengeDefinition `yaml:"challenges"`
	Boosts     []BoostDefinition     `yaml:"boosts"`
}

// Load reads the catalog at path, or returns the built-in catalog when path is
// empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

func Parse(data []byte) (*Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	if len(f.Categories) == 0 {
		f.Categories = defaultCategories
	}
	if len(f.Challenges) == 0 {
		f.Challenges = defaultChallenges
	}
	if len(f.Boosts) == 0 {
		f.Boosts = defaultBoosts
	}
	for i := range f.Categories {
		if f.Categories[i].MaxDailyBoosts == 0 {
			f.Categories[i].MaxDailyBoosts = defaultMaxDailyBoosts
		}
	}

	return New(f.Categories, f.Challenges, f.Boosts)
}
