package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"HealthRocket/internal/catalog"
)

func identity(s string) string { return s }

func TestRank(t *testing.T) {
	tests := []struct {
		name        string
		items       []string
		recommended []string
		want        []string
	}{
		{name: "one recommended", items: []string{"a", "b", "c"}, recommended: []string{"b"}, want: []string{"b", "a", "c"}},
		{name: "nothing recommended", items: []string{"a", "b"}, recommended: nil, want: []string{"a", "b"}},
		{name: "keeps input order inside partition", items: []string{"a", "b", "c", "d"}, recommended: []string{"d", "b"}, want: []string{"b", "d", "a", "c"}},
		{name: "unknown recommendation", items: []string{"a", "b"}, recommended: []string{"z"}, want: []string{"a", "b"}},
		{name: "empty", items: nil, recommended: []string{"a"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rank(tt.items, identity, tt.recommended))
		})
	}
}

func TestRankChallengesDoesNotMutateInput(t *testing.T) {
	in := []ClassifiedChallenge{
		{ChallengeDefinition: catalog.ChallengeDefinition{ID: "a"}},
		{ChallengeDefinition: catalog.ChallengeDefinition{ID: "b"}},
	}
	out := RankChallenges(in, []string{"b"})

	assert.Equal(t, "b", out[0].ID)
	assert.Equal(t, "a", in[0].ID)
}

func TestFocusCategory(t *testing.T) {
	defs := testChallenges()

	cat, ok := FocusCategory(defs, []string{"t1-mind", "t1-sleep"})
	assert.True(t, ok)
	assert.Equal(t, catalog.CategoryMindset, cat)

	_, ok = FocusCategory(defs, nil)
	assert.False(t, ok)
}
