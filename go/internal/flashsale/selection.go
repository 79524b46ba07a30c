package flashsale

import "math/rand/v2"

// DefaultSelectionSize is the number of products shown per window
const DefaultSelectionSize = 5

// SelectSubset returns up to count items drawn uniformly at random without
// replacement: the items are fully permuted and the permutation is truncated.
// The input slice is never modified. A nil rng uses the global generator.
func SelectSubset[T any](rng *rand.Rand, items []T, count int) []T {
	if len(items) == 0 || count <= 0 {
		return []T{}
	}

	shuffled := make([]T, len(items))
	copy(shuffled, items)

	swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
	if rng != nil {
		rng.Shuffle(len(shuffled), swap)
	} else {
		rand.Shuffle(len(shuffled), swap)
	}

	if count < len(shuffled) {
		shuffled = shuffled[:count]
	}
	return shuffled
}
