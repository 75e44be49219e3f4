package score

import (
	"sort"

	"github.com/cognicore/erecon/pkg/erecon/feature"
	"github.com/cognicore/erecon/pkg/erecon/model"
	"github.com/cognicore/erecon/pkg/erecon/train"
)

// ThresholdStats reports the precision/recall/Fbeta GoodThreshold
// computed at its chosen cutoff.
type ThresholdStats struct {
	Threshold float64
	Precision float64
	Recall    float64
	FBeta     float64
}

// GoodThreshold scores every intra-block pair, sorts probabilities
// descending, and treats cumulative sums of probability as an
// estimated-duplicate-count proxy for recall. This overestimates recall
// under a miscalibrated model; see CalibratedStats for the
// held-out-label alternative. It returns the threshold maximizing
// Fbeta (beta^2 = recallWeight^2), ties broken toward the smaller
// probability.
func GoodThreshold(blocks [][]model.Record, dm *model.DataModel, recallWeight float64) (float64, ThresholdStats) {
	pairs := pairsFromBlocks(blocks)
	if len(pairs) == 0 {
		return 0, ThresholdStats{}
	}

	probs := make([]float64, len(pairs))
	weights := dm.Weights()
	bias := dm.Bias()
	for i, p := range pairs {
		x := feature.Build(p.A, p.B, dm)
		probs[i] = train.Predict(x, weights, bias)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(probs)))

	var total float64
	for _, p := range probs {
		total += p
	}
	if total == 0 {
		return 0, ThresholdStats{}
	}

	beta2 := recallWeight * recallWeight

	var best ThresholdStats
	bestFBeta := -1.0
	var cumulative float64
	for k, p := range probs {
		cumulative += p
		precision := cumulative / float64(k+1)
		recall := cumulative / total
		fbeta := fBeta(precision, recall, beta2)

		if fbeta > bestFBeta || (fbeta == bestFBeta && p < best.Threshold) {
			bestFBeta = fbeta
			best = ThresholdStats{Threshold: p, Precision: precision, Recall: recall, FBeta: fbeta}
		}
	}
	return best.Threshold, best
}

func fBeta(precision, recall, beta2 float64) float64 {
	denom := beta2*precision + recall
	if denom == 0 {
		return 0
	}
	return (1 + beta2) * precision * recall / denom
}

// pairsFromBlocks expands every block into its intra-block pairs,
// deduplicated across overlapping blocks via canonical (min_id, max_id)
// ordering, matching blocker.Blocker.CandidatePairs's convention.
func pairsFromBlocks(blocks [][]model.Record) []model.Pair {
	seen := make(map[[2]string]struct{})
	var out []model.Pair
	for _, block := range blocks {
		for i := 0; i < len(block); i++ {
			for j := i + 1; j < len(block); j++ {
				pair := model.NewPair(block[i], block[j])
				key := pair.Key()
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				out = append(out, pair)
			}
		}
	}
	return out
}
