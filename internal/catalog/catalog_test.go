package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HealthRocket/pkg/errors"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	first, ok := c.RequiredFirst()
	require.True(t, ok)
	assert.Equal(t, 0, first.Tier)

	cats := c.BoostCategories()
	require.Len(t, cats, 5)
	for _, bc := range cats {
		assert.Equal(t, 3, bc.MaxDailyBoosts)
		assert.NotEmpty(t, c.BoostsIn(bc.ID), "category %s has no boosts", bc.ID)
	}

	_, ok = c.BoostCategory(CategoryBonus)
	assert.False(t, ok, "bonus is not a boost category")
}

func TestAccessorsReturnCopies(t *testing.T) {
	c := Default()

	list := c.Challenges()
	list[0].ID = "mutated"

	again := c.Challenges()
	assert.NotEqual(t, "mutated", again[0].ID)
	_, ok := c.Challenge("mutated")
	assert.False(t, ok)
}

func TestNewValidation(t *testing.T) {
	cats := []BoostCategory{{ID: CategorySleep, Name: "Sleep", MaxDailyBoosts: 3}}
	t0 := ChallengeDefinition{ID: "t0", Category: CategoryBonus, Tier: 0, FuelPoints: 10}

	tests := []struct {
		name       string
		cats       []BoostCategory
		challenges []ChallengeDefinition
		boosts     []BoostDefinition
	}{
		{
			name:       "duplicate challenge",
			cats:       cats,
			challenges: []ChallengeDefinition{t0, t0},
		},
		{
			name:       "tier out of range",
			cats:       cats,
			challenges: []ChallengeDefinition{t0, {ID: "x", Category: CategorySleep, Tier: 3, FuelPoints: 1}},
		},
		{
			name:       "zero fuel points",
			cats:       cats,
			challenges: []ChallengeDefinition{{ID: "t0", Category: CategoryBonus, Tier: 0}},
		},
		{
			name:       "unknown category",
			cats:       cats,
			challenges: []ChallengeDefinition{t0, {ID: "x", Category: "cardio", Tier: 1, FuelPoints: 1}},
		},
		{
			name:       "missing tier 0",
			cats:       cats,
			challenges: []ChallengeDefinition{{ID: "x", Category: CategorySleep, Tier: 1, FuelPoints: 1}},
		},
		{
			name:   "boost without quota category",
			cats:   cats,
			boosts: []BoostDefinition{{ID: "b", Category: CategoryExercise, FuelPoints: 1}},
		},
		{
			name: "bonus boost category",
			cats: []BoostCategory{{ID: CategoryBonus, MaxDailyBoosts: 1}},
		},
		{
			name: "zero daily max",
			cats: []BoostCategory{{ID: CategorySleep}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cats, tt.challenges, tt.boosts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.CatalogInvalid))
		})
	}
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("Sleep")
	assert.True(t, ok)
	assert.Equal(t, CategorySleep, c)

	_, ok = ParseCategory("cardio")
	assert.False(t, ok)
}

func TestLoadYAML(t *testing.T) {
	data := `
categories:
  - id: sleep
    name: Sleep
    max_daily_boosts: 2
challenges:
  - id: t0
    name: Start Here
    category: bonus
    tier: 0
    fuel_points: 20
  - id: s1
    category: sleep
    tier: 1
    fuel_points: 30
boosts:
  - id: sb1
    category: sleep
    fuel_points: 1
    weekly_limit: 4
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	c, err := Load(path)
	require.NoError(t, err)

	bc, ok := c.BoostCategory(CategorySleep)
	require.True(t, ok)
	assert.Equal(t, 2, bc.MaxDailyBoosts)

	b, ok := c.Boost("sb1")
	require.True(t, ok)
	assert.Equal(t, 4, b.WeeklyLimit)
	assert.Len(t, c.Challenges(), 2)
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, len(Default().Challenges()), len(c.Challenges()))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
