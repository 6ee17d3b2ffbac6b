// Package catalog holds the immutable challenge and boost definitions loaded
// once at process start.
package catalog

import (
	"fmt"
	"strings"

	"HealthRocket/pkg/errors"
)

type Category string

const (
	CategoryMindset    Category = "mindset"
	CategorySleep      Category = "sleep"
	CategoryExercise   Category = "exercise"
	CategoryNutrition  Category = "nutrition"
	CategoryBiohacking Category = "biohacking"
	CategoryBonus      Category = "bonus" // challenges only
)

// ChallengeCategories lists every category a challenge may belong to, in
// display order.
var ChallengeCategories = []Category{
	CategoryMindset, CategorySleep, CategoryExercise, CategoryNutrition, CategoryBiohacking, CategoryBonus,
}

func (c Category) Valid() bool {
	for _, known := range ChallengeCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory accepts any casing, "Sleep" and "sleep" alike.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

type ChallengeDefinition struct {
	ID              string   `yaml:"id" json:"id"`
	Name            string   `yaml:"name" json:"name"`
	Description     string   `yaml:"description" json:"description"`
	Category        Category `yaml:"category" json:"category"`
	Tier            int      `yaml:"tier" json:"tier"`
	FuelPoints      int      `yaml:"fuel_points" json:"fuel_points"`
	DurationDays    int      `yaml:"duration_days" json:"duration_days"`
	ExpertReference string   `yaml:"expert_reference,omitempty" json:"expert_reference,omitempty"`
	Repeatable      bool     `yaml:"repeatable,omitempty" json:"repeatable"`
}

type BoostDefinition struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Category    Category `yaml:"category" json:"category"`
	FuelPoints  int      `yaml:"fuel_points" json:"fuel_points"`
	WeeklyLimit int      `yaml:"weekly_limit,omitempty" json:"weekly_limit"` // 0 means unlimited
}

type BoostCategory struct {
	ID             Category `yaml:"id" json:"id"`
	Name           string   `yaml:"name" json:"name"`
	MaxDailyBoosts int      `yaml:"max_daily_boosts" json:"max_daily_boosts"`
}

// Catalog is read-only after New returns. Accessors hand out copies.
type Catalog struct {
	challenges []ChallengeDefinition
	boosts     []BoostDefinition
	categories []BoostCategory

	challengeIdx map[string]int
	boostIdx     map[string]int
	categoryIdx  map[Category]int
}

// New validates the definitions and builds the lookup indexes.
func New(categories []BoostCategory, challenges []ChallengeDefinition, boosts []BoostDefinition) (*Catalog, error) {
	c := &Catalog{
		challenges:   append([]ChallengeDefinition(nil), challenges...),
		boosts:       append([]BoostDefinition(nil), boosts...),
		categories:   append([]BoostCategory(nil), categories...),
		challengeIdx: make(map[string]int, len(challenges)),
		boostIdx:     make(map[string]int, len(boosts)),
		categoryIdx:  make(map[Category]int, len(categories)),
	}

	for i, bc := range c.categories {
		if !bc.ID.Valid() || bc.ID == CategoryBonus {
			return nil, invalid("boost category %q is not a boost category", bc.ID)
		}
		if bc.MaxDailyBoosts < 1 {
			return nil, invalid("boost category %q: max_daily_boosts must be positive", bc.ID)
		}
		if _, dup := c.categoryIdx[bc.ID]; dup {
			return nil, invalid("duplicate boost category %q", bc.ID)
		}
		c.categoryIdx[bc.ID] = i
	}

	hasTier0 := false
	for i, ch := range c.challenges {
		if ch.ID == "" {
			return nil, invalid("challenge at index %d has no id", i)
		}
		if _, dup := c.challengeIdx[ch.ID]; dup {
			return nil, invalid("duplicate challenge id %q", ch.ID)
		}
		if !ch.Category.Valid() {
			return nil, invalid("challenge %q: unknown category %q", ch.ID, ch.Category)
		}
		if ch.Tier < 0 || ch.Tier > 2 {
			return nil, invalid("challenge %q: tier must be 0, 1 or 2", ch.ID)
		}
		if ch.FuelPoints <= 0 {
			return nil, invalid("challenge %q: fuel_points must be positive", ch.ID)
		}
		if ch.Tier == 0 {
			hasTier0 = true
		}
		c.challengeIdx[ch.ID] = i
	}
	if len(c.challenges) > 0 && !hasTier0 {
		return nil, invalid("catalog has no tier 0 challenge")
	}

	for i, b := range c.boosts {
		if b.ID == "" {
			return nil, invalid("boost at index %d has no id", i)
		}
		if _, dup := c.boostIdx[b.ID]; dup {
			return nil, invalid("duplicate boost id %q", b.ID)
		}
		if _, ok := c.categoryIdx[b.Category]; !ok {
			return nil, invalid("boost %q: category %q has no quota definition", b.ID, b.Category)
		}
		if b.FuelPoints <= 0 {
			return nil, invalid("boost %q: fuel_points must be positive", b.ID)
		}
		if b.WeeklyLimit < 0 {
			return nil, invalid("boost %q: weekly_limit must not be negative", b.ID)
		}
		c.boostIdx[b.ID] = i
	}

	return c, nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errors.CatalogInvalid, fmt.Sprintf(format, args...))
}

// Challenges returns all challenge definitions in catalog order.
func (c *Catalog) Challenges() []ChallengeDefinition {
	return append([]ChallengeDefinition(nil), c.challenges...)
}

func (c *Catalog) Challenge(id string) (ChallengeDefinition, bool) {
	i, ok := c.challengeIdx[id]
	if !ok {
		return ChallengeDefinition{}, false
	}
	return c.challenges[i], true
}

// ChallengesIn filters by category, keeping catalog order.
func (c *Catalog) ChallengesIn(category Category) []ChallengeDefinition {
	var out []ChallengeDefinition
	for _, ch := range c.challenges {
		if ch.Category == category {
			out = append(out, ch)
		}
	}
	return out
}

// RequiredFirst is the first tier 0 challenge in catalog order.
func (c *Catalog) RequiredFirst() (ChallengeDefinition, bool) {
	for _, ch := range c.challenges {
		if ch.Tier == 0 {
			return ch, true
		}
	}
	return ChallengeDefinition{}, false
}

func (c *Catalog) Boosts() []BoostDefinition {
	return append([]BoostDefinition(nil), c.boosts...)
}

func (c *Catalog) Boost(id string) (BoostDefinition, bool) {
	i, ok := c.boostIdx[id]
	if !ok {
		return BoostDefinition{}, false
	}
	return c.boosts[i], true
}

func (c *Catalog) BoostsIn(category Category) []BoostDefinition {
	var out []BoostDefinition
	for _, b := range c.boosts {
		if b.Category == category {
			out = append(out, b)
		}
	}
	return out
}

func (c *Catalog) BoostCategories() []BoostCategory {
	return append([]BoostCategory(nil), c.categories...)
}

func (c *Catalog) BoostCategory(id Category) (BoostCategory, bool) {
	i, ok := c.categoryIdx[id]
	if !ok {
		return BoostCategory{}, false
	}
	return c.categories[i], true
}

// CategoryOfBoost resolves a boost id to its category.
func (c *Catalog) CategoryOfBoost(boostID string) (Category, bool) {
	b, ok := c.Boost(boostID)
	return b.Category, ok
}
