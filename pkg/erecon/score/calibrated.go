package score

import (
	"github.com/cognicore/erecon/pkg/erecon/feature"
	"github.com/cognicore/erecon/pkg/erecon/model"
	"github.com/cognicore/erecon/pkg/erecon/train"
)

// CalibratedStats computes precision/recall/Fbeta at threshold against
// a held-out labeled set, an alternative to GoodThreshold's
// cumulative-sum proxy for callers who have ground truth to calibrate
// against.
func CalibratedStats(labeled []model.LabeledPair, dm *model.DataModel, threshold, recallWeight float64) ThresholdStats {
	weights := dm.Weights()
	bias := dm.Bias()

	var truePositives, predictedPositives, actualPositives float64
	for _, lp := range labeled {
		x := feature.Build(lp.Pair.A, lp.Pair.B, dm)
		p := train.Predict(x, weights, bias)

		predicted := p >= threshold
		if predicted {
			predictedPositives++
		}
		if lp.Label == 1 {
			actualPositives++
			if predicted {
				truePositives++
			}
		}
	}

	var precision, recall float64
	if predictedPositives > 0 {
		precision = truePositives / predictedPositives
	}
	if actualPositives > 0 {
		recall = truePositives / actualPositives
	}

	beta2 := recallWeight * recallWeight
	return ThresholdStats{
		Threshold: threshold,
		Precision: precision,
		Recall:    recall,
		FBeta:     fBeta(precision, recall, beta2),
	}
}
