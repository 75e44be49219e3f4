package active

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/cognicore/erecon/pkg/erecon/erecerr"
	"github.com/cognicore/erecon/pkg/erecon/feature"
	"github.com/cognicore/erecon/pkg/erecon/model"
	"github.com/cognicore/erecon/pkg/erecon/train"
)

// BatchSize is the number of most-uncertain pairs queried per oracle
// round.
const BatchSize = 10

// provisionalAlpha is the fixed ridge penalty used for the provisional
// model fit inside the active-learning loop, distinct from the
// cross-validated alpha Trainer picks for the final model.
const provisionalAlpha = 0.001

// bootstrapCount caps how many semiSupervisedNonDuplicates pairs are
// injected in one bootstrap pass.
const bootstrapCount = BatchSize

// ActiveLearner drives uncertainty-sampled active learning against an
// Oracle: fit, score, query, append, repeat until the oracle signals
// done.
type ActiveLearner struct {
	Oracle Oracle
}

// Run executes the active-learning loop starting from seed (pre-loaded
// labels, may be empty) over the candidate pool. dm is read for its
// field shape only; Run never calls dm.SetWeights — every provisional
// fit happens against a scratch clone, so dm is left untouched even if
// Run returns an error.
//
// A fresh uuid session ID is generated per Run and included in the
// errors Run returns from the oracle step. ctx is checked at the top of
// each round, so a cancelled context stops the loop between oracle
// calls.
func (al *ActiveLearner) Run(ctx context.Context, seed []model.LabeledPair, pool []model.Pair, dm *model.DataModel) ([]model.LabeledPair, error) {
	sessionID := uuid.New()

	labeled := append([]model.LabeledPair(nil), seed...)
	remaining := append([]model.Pair(nil), pool...)
	scratch := dm.Clone()

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("active: session %s: %w", sessionID, err)
		}

		// A cold start (empty or single-class seed) has no positive
		// and/or negative to train against yet. Bootstrap confident
		// non-duplicates to seed a negative class, but — unlike
		// requiring both classes before the first oracle call — still
		// fall through to the oracle query below: the oracle itself is
		// the only source of the missing positive class, so the loop
		// must be able to reach it from an all-negative (or, if
		// bootstrapping finds nothing, still-empty) labeled set.
		if !hasBothClasses(labeled) {
			boot := semiSupervisedNonDuplicates(remaining, dm, bootstrapCount)
			labeled = append(labeled, boot...)
			remaining = removeLabeled(remaining, boot)
		}

		if len(labeled) == 0 {
			return nil, fmt.Errorf("active: cannot bootstrap a negative class from the sample pool and no seed labels were provided: %w", erecerr.ErrEmptyInput)
		}

		if len(remaining) == 0 {
			break
		}

		ts, err := train.BuildTrainingSet(labeled, scratch)
		if err != nil {
			return nil, err
		}
		weights, bias, err := train.Fit(ts.X, ts.Y, provisionalAlpha)
		if err != nil {
			return nil, err
		}

		batch := mostUncertain(remaining, scratch, weights, bias, BatchSize)

		buckets, finished, err := al.Oracle.Label(ctx, batch, dm)
		if err != nil {
			return nil, fmt.Errorf("active: oracle call failed in session %s: %w", sessionID, err)
		}

		newlyLabeled, err := validateBuckets(buckets, batch)
		if err != nil {
			return nil, fmt.Errorf("active: session %s: %w", sessionID, err)
		}

		labeled = append(labeled, newlyLabeled...)
		remaining = removeLabeled(remaining, newlyLabeled)

		if finished {
			break
		}
	}

	return labeled, nil
}

func hasBothClasses(labeled []model.LabeledPair) bool {
	var pos, neg bool
	for _, lp := range labeled {
		switch lp.Label {
		case 1:
			pos = true
		case 0:
			neg = true
		}
		if pos && neg {
			return true
		}
	}
	return false
}

// mostUncertain scores every candidate with the provisional model and
// returns the n pairs whose predicted probability is closest to 0.5.
func mostUncertain(pool []model.Pair, dm *model.DataModel, weights []float64, bias float64, n int) []model.Pair {
	type scored struct {
		pair model.Pair
		dist float64
	}
	ranked := make([]scored, len(pool))
	for i, p := range pool {
		x := feature.Build(p.A, p.B, dm)
		prob := train.Predict(x, weights, bias)
		d := prob - 0.5
		if d < 0 {
			d = -d
		}
		ranked[i] = scored{pair: p, dist: d}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].dist != ranked[j].dist {
			return ranked[i].dist < ranked[j].dist
		}
		return pairLess(ranked[i].pair, ranked[j].pair)
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]model.Pair, n)
	for i := 0; i < n; i++ {
		out[i] = ranked[i].pair
	}
	return out
}

func pairLess(a, b model.Pair) bool {
	ka, kb := a.Key(), b.Key()
	if ka[0] != kb[0] {
		return ka[0] < kb[0]
	}
	return ka[1] < kb[1]
}

// validateBuckets checks the Oracle's response against the protocol it
// must honor: every returned pair must belong to the queried batch, and
// bucket keys must be 0 or 1. A pair absent from every bucket is
// silently skipped, not an error — the Oracle interface allows a pair
// to go unlabeled.
func validateBuckets(buckets map[int][]model.Pair, batch []model.Pair) ([]model.LabeledPair, error) {
	inBatch := make(map[[2]string]struct{}, len(batch))
	for _, p := range batch {
		inBatch[p.Key()] = struct{}{}
	}

	var out []model.LabeledPair
	for label, pairs := range buckets {
		if label != 0 && label != 1 {
			return nil, fmt.Errorf("active: oracle returned unknown bucket key %d: %w", label, erecerr.ErrOracleProtocol)
		}
		for _, p := range pairs {
			if _, ok := inBatch[p.Key()]; !ok {
				return nil, fmt.Errorf("active: oracle returned a pair not in the queried batch: %w", erecerr.ErrOracleProtocol)
			}
			out = append(out, model.LabeledPair{Pair: p, Label: label})
		}
	}
	return out, nil
}

func removeLabeled(pool []model.Pair, labeled []model.LabeledPair) []model.Pair {
	remove := make(map[[2]string]struct{}, len(labeled))
	for _, lp := range labeled {
		remove[lp.Pair.Key()] = struct{}{}
	}
	out := make([]model.Pair, 0, len(pool))
	for _, p := range pool {
		if _, drop := remove[p.Key()]; !drop {
			out = append(out, p)
		}
	}
	return out
}
