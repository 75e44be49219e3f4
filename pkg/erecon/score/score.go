// Package score turns candidate record pairs into calibrated
// duplicate-probability estimates and picks an operating threshold.
package score

import (
	"iter"

	"github.com/cognicore/erecon/pkg/erecon/feature"
	"github.com/cognicore/erecon/pkg/erecon/model"
	"github.com/cognicore/erecon/pkg/erecon/train"
)

// Score lazily computes sigma(w.x+b) for every candidate pair. It never
// materializes the full candidate set — callers drive iteration with a
// range-over-func loop, so scoring a large candidate stream never
// requires holding it all in memory at once.
func Score(candidates iter.Seq[model.Pair], dm *model.DataModel) iter.Seq2[model.Pair, float64] {
	weights := dm.Weights()
	bias := dm.Bias()
	return func(yield func(model.Pair, float64) bool) {
		for pair := range candidates {
			x := feature.Build(pair.A, pair.B, dm)
			p := train.Predict(x, weights, bias)
			if !yield(pair, p) {
				return
			}
		}
	}
}

// ScoreDuplicates is Score filtered to pairs scoring at or above
// threshold.
func ScoreDuplicates(candidates iter.Seq[model.Pair], dm *model.DataModel, threshold float64) iter.Seq2[model.Pair, float64] {
	scored := Score(candidates, dm)
	return func(yield func(model.Pair, float64) bool) {
		for pair, p := range scored {
			if p < threshold {
				continue
			}
			if !yield(pair, p) {
				return
			}
		}
	}
}
