package question

import "math/rand/v2"

// Shuffle permutes items in place with the Fisher–Yates algorithm:
// walking from the last index down to 1, each element is swapped with a
// uniformly chosen element at an index <= its own. Every permutation is
// equally likely given a uniform source.
//
// A nil rng uses the package-level source of math/rand/v2.
func Shuffle[T any](items []T, rng *rand.Rand) {
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	for i := len(items) - 1; i > 0; i-- {
		j := intN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Pick returns at most limit questions from qs in random order, with the
// answer key removed. qs itself is left untouched. A limit <= 0 keeps
// every question.
func Pick(qs []Question, limit int, rng *rand.Rand) []PublicQuestion {
	shuffled := make([]Question, len(qs))
	copy(shuffled, qs)
	Shuffle(shuffled, rng)

	if limit > 0 && limit < len(shuffled) {
		shuffled = shuffled[:limit]
	}

	out := make([]PublicQuestion, len(shuffled))
	for i, q := range shuffled {
		out[i] = q.Public()
	}
	return out
}
