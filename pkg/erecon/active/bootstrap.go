package active

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/cognicore/erecon/pkg/erecon/feature"
	"github.com/cognicore/erecon/pkg/erecon/model"
)

// lowSimilarityQuantile is the quantile below which a pair's maximum
// per-field similarity is considered confident evidence of a
// non-duplicate.
const lowSimilarityQuantile = 0.05

// semiSupervisedNonDuplicates bootstraps an initial negative set when
// the labeled set has fewer than one positive and one negative: it picks
// pairs whose maximum per-field comparator value falls below a low
// quantile of the sample's distribution, labeling up to n of them as
// confident non-duplicates.
func semiSupervisedNonDuplicates(pairs []model.Pair, dm *model.DataModel, n int) []model.LabeledPair {
	if len(pairs) == 0 || n <= 0 {
		return nil
	}

	type scored struct {
		pair model.Pair
		sim  float64
	}
	ranked := make([]scored, len(pairs))
	sims := make([]float64, len(pairs))
	for i, p := range pairs {
		s := maxFieldSimilarity(p, dm)
		ranked[i] = scored{pair: p, sim: s}
		sims[i] = s
	}

	sort.Float64s(sims)
	threshold := stat.Quantile(lowSimilarityQuantile, stat.Empirical, sims, nil)

	var candidates []scored
	for _, r := range ranked {
		if r.sim <= threshold {
			candidates = append(candidates, r)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].sim < candidates[j].sim })

	if len(candidates) > n {
		candidates = candidates[:n]
	}

	out := make([]model.LabeledPair, len(candidates))
	for i, c := range candidates {
		out[i] = model.LabeledPair{Pair: c.pair, Label: 0}
	}
	return out
}

// maxFieldSimilarity returns the similarity (1 - distance) of dm's
// best-matching real (non-synthetic) field for pair p: the maximum
// field similarity the bootstrap selects on. A pair whose
// best-matching field is still dissimilar is confident evidence of a
// non-duplicate. Missing fields compare to a 0 distance (1.0
// similarity), matching feature.Build's convention, but are excluded
// here since a missing-field match carries no evidence either way.
func maxFieldSimilarity(p model.Pair, dm *model.DataModel) float64 {
	vec := feature.Build(p.A, p.B, dm)
	minDist := math.Inf(1)
	for i, v := range vec {
		spec := dm.FieldAt(i)
		if spec.Kind == model.FieldMissingIndicator {
			continue
		}
		if _, ok := p.A.Get(spec.Name); !ok {
			continue
		}
		if _, ok := p.B.Get(spec.Name); !ok {
			continue
		}
		if v < minDist {
			minDist = v
		}
	}
	if math.IsInf(minDist, 1) {
		return 0
	}
	return 1 - minDist
}
