package train

import (
	"fmt"

	"github.com/cognicore/erecon/pkg/erecon/model"
)

// FitDataModel builds a training set from labeled pairs, selects a
// regularizer via GridSearch, fits the final model against every label
// at that regularizer, and stores the weights positionally in dm's
// field order plus its bias.
func FitDataModel(pairs []model.LabeledPair, dm *model.DataModel) error {
	ts, err := BuildTrainingSet(pairs, dm)
	if err != nil {
		return err
	}

	alpha, err := GridSearch(ts)
	if err != nil {
		return err
	}

	weights, bias, err := Fit(ts.X, ts.Y, alpha)
	if err != nil {
		return err
	}

	if err := dm.SetWeights(weights, bias); err != nil {
		return fmt.Errorf("train: fitted weights rejected by data model: %w", err)
	}
	return nil
}
