// Package active implements uncertainty-sampled active learning over a
// user-supplied Oracle: a Run(ctx) loop that scores the unlabeled pool,
// collects the most-uncertain pairs, and routes them through the Oracle
// as a mandatory reviewer.
package active

import (
	"context"

	"github.com/cognicore/erecon/pkg/erecon/model"
)

// Oracle labels a batch of candidate pairs. It must account for every
// pair in the input set: a pair may appear in zero, one, or (never)
// both of the returned buckets. Buckets use 0 for non-duplicate and 1
// for duplicate, matching model.LabeledPair.Label.
//
// finished tells the ActiveLearner to stop requesting further batches
// regardless of how many pairs this call actually labeled.
type Oracle interface {
	Label(ctx context.Context, pairs []model.Pair, dm *model.DataModel) (buckets map[int][]model.Pair, finished bool, err error)
}
