// Package train implements regularized logistic regression over erecon's
// FeatureVectors, with k-fold cross-validated regularizer selection.
// The feature matrix is accumulated into a dense gonum/mat matrix;
// gonum is also used by tfidf (gonum/floats) and cluster
// (gonum/graph/simple).
package train

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cognicore/erecon/pkg/erecon/erecerr"
	"github.com/cognicore/erecon/pkg/erecon/feature"
	"github.com/cognicore/erecon/pkg/erecon/model"
)

// TrainingSet holds a materialized feature matrix aligned row-for-row
// with a parallel label slice, plus the underlying labeled pairs kept
// separately per label.
type TrainingSet struct {
	Positives []model.LabeledPair
	Negatives []model.LabeledPair

	X *mat.Dense // rows = len(Positives)+len(Negatives), cols = dm.Len()
	Y []float64  // 0/1, aligned with X's rows
}

// BuildTrainingSet computes feature vectors for every labeled pair under
// dm and assembles the aligned matrix/label pair BuildTrainingSet keeps.
// Order is positives first, then negatives, for determinism.
func BuildTrainingSet(pairs []model.LabeledPair, dm *model.DataModel) (*TrainingSet, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("train: no labeled pairs: %w", erecerr.ErrEmptyInput)
	}

	ts := &TrainingSet{}
	for _, lp := range pairs {
		switch lp.Label {
		case 1:
			ts.Positives = append(ts.Positives, lp)
		case 0:
			ts.Negatives = append(ts.Negatives, lp)
		default:
			return nil, fmt.Errorf("train: label must be 0 or 1, got %d: %w", lp.Label, erecerr.ErrInvalidConfig)
		}
	}

	n := len(ts.Positives) + len(ts.Negatives)
	cols := dm.Len()
	data := make([]float64, 0, n*cols)
	ts.Y = make([]float64, 0, n)

	for _, lp := range ts.Positives {
		data = append(data, feature.Build(lp.Pair.A, lp.Pair.B, dm)...)
		ts.Y = append(ts.Y, 1)
	}
	for _, lp := range ts.Negatives {
		data = append(data, feature.Build(lp.Pair.A, lp.Pair.B, dm)...)
		ts.Y = append(ts.Y, 0)
	}

	ts.X = mat.NewDense(n, cols, data)
	return ts, nil
}

// HasBothClasses reports whether the training set has at least one
// positive and one negative label. ActiveLearner applies the same test
// to its own labeled slice to decide when to bootstrap negatives; it
// does not call this method.
func (ts *TrainingSet) HasBothClasses() bool {
	return ts != nil && len(ts.Positives) > 0 && len(ts.Negatives) > 0
}
