// Package sample draws a finite data sample of unlabeled record pairs
// for active learning and blocking-predicate evaluation.
package sample

import (
	"math/rand/v2"

	"github.com/cognicore/erecon/pkg/erecon/model"
)

// Uniform draws up to n distinct unordered pairs uniformly from records,
// using rng for determinism (pass a seeded *rand.Rand for reproducible
// samples; a fresh rand.New(rand.NewPCG(...)) otherwise). If the full
// population has fewer than n possible pairs, all of them are returned.
func Uniform(records []model.Record, n int, rng *rand.Rand) []model.Pair {
	if len(records) < 2 || n <= 0 {
		return nil
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 1))
	}

	total := len(records) * (len(records) - 1) / 2
	if n >= total {
		return allPairs(records)
	}

	seen := make(map[[2]string]struct{}, n)
	out := make([]model.Pair, 0, n)

	// Rejection sampling: for the sample sizes this system targets
	// (O(10^3-10^4)) relative to typical record counts, collisions are
	// rare enough that this converges quickly.
	for len(out) < n {
		i := rng.IntN(len(records))
		j := rng.IntN(len(records))
		if i == j {
			continue
		}
		pair := model.NewPair(records[i], records[j])
		key := pair.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, pair)
	}
	return out
}

func allPairs(records []model.Record) []model.Pair {
	var out []model.Pair
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			out = append(out, model.NewPair(records[i], records[j]))
		}
	}
	return out
}
