package engine

import "HealthRocket/internal/catalog"

// Rank is a stable partition: items whose id is recommended come first, and
// both halves keep their input order.
func Rank[T any](items []T, idOf func(T) string, recommendedIDs []string) []T {
	recommended := toSet(recommendedIDs)
	out := make([]T, 0, len(items))
	var rest []T
	for _, it := range items {
		if _, ok := recommended[idOf(it)]; ok {
			out = append(out, it)
		} else {
			rest = append(rest, it)
		}
	}
	return append(out, rest...)
}

func RankChallenges(challenges []ClassifiedChallenge, recommendedIDs []string) []ClassifiedChallenge {
	return Rank(challenges, func(c ClassifiedChallenge) string { return c.ID }, recommendedIDs)
}

// FocusCategory is the category of the first recommended id that exists in
// challenges.
func FocusCategory(challenges []catalog.ChallengeDefinition, recommendedIDs []string) (catalog.Category, bool) {
	for _, id := range recommendedIDs {
		for _, ch := range challenges {
			if ch.ID == id {
				return ch.Category, true
			}
		}
	}
	return "", false
}
