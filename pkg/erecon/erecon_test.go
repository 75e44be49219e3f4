// End-to-end acceptance tests tying together multiple erecon
// subpackages.
package erecon_test

import (
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/cognicore/erecon/pkg/erecon/blocker"
	"github.com/cognicore/erecon/pkg/erecon/erecerr"
	"github.com/cognicore/erecon/pkg/erecon/feature"
	"github.com/cognicore/erecon/pkg/erecon/model"
	"github.com/cognicore/erecon/pkg/erecon/predicates"
	"github.com/cognicore/erecon/pkg/erecon/score"
	"github.com/cognicore/erecon/pkg/erecon/strdist"
	"github.com/cognicore/erecon/pkg/erecon/train"
)

// Scenario 1: near-duplicate names score low on affine-gap distance and
// high-probability duplicate after training.
func TestScenarioNearDuplicateNamesTrainAndScoreHigh(t *testing.T) {
	d := strdist.Distance("sally's cafe", "sallys cafe")
	if d >= 0.15 {
		t.Fatalf("Distance(sally's cafe, sallys cafe) = %v, want < 0.15", d)
	}

	dm, err := model.New([]string{"name"}, map[string]model.FieldDef{
		"name": {Type: "String"},
	})
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}

	dupeA := model.Record{ID: "1", Attributes: map[string]string{"name": "sally's cafe"}}
	dupeB := model.Record{ID: "2", Attributes: map[string]string{"name": "sallys cafe"}}
	nonDupeA := model.Record{ID: "3", Attributes: map[string]string{"name": "totally different business"}}
	nonDupeB := model.Record{ID: "4", Attributes: map[string]string{"name": "xyz unrelated corp"}}
	nonDupeC := model.Record{ID: "5", Attributes: map[string]string{"name": "another store 123"}}

	labeled := []model.LabeledPair{
		{Pair: model.NewPair(dupeA, dupeB), Label: 1},
		{Pair: model.NewPair(nonDupeA, nonDupeB), Label: 0},
		{Pair: model.NewPair(nonDupeB, nonDupeC), Label: 0},
		{Pair: model.NewPair(nonDupeA, nonDupeC), Label: 0},
	}

	if err := train.FitDataModel(labeled, dm); err != nil {
		t.Fatalf("FitDataModel: %v", err)
	}

	x := feature.Build(dupeA, dupeB, dm)
	p := train.Predict(x, dm.Weights(), dm.Bias())
	if p <= 0.9 {
		t.Fatalf("p(duplicate) = %v, want > 0.9", p)
	}
}

// Scenario 2: a Custom field without a comparator is a ConfigurationError.
func TestScenarioCustomFieldWithoutComparatorRejected(t *testing.T) {
	_, err := model.New([]string{"phone", "note"}, map[string]model.FieldDef{
		"phone": {Type: "String"},
		"note":  {Type: "Custom"},
	})
	if err == nil {
		t.Fatal("want ConfigurationError for Custom field without comparator")
	}
	if !errors.Is(err, erecerr.ErrInvalidConfig) {
		t.Fatalf("want erecerr.ErrInvalidConfig, got %v", err)
	}
}

// Scenario 3: a minimal training set separates identical from differing
// vectors with low in-sample log-loss.
func TestScenarioMinimalTrainingSetSeparatesClasses(t *testing.T) {
	dm, err := model.New([]string{"a"}, map[string]model.FieldDef{
		"a": {Type: "String"},
	})
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}

	same := model.NewPair(
		model.Record{ID: "1", Attributes: map[string]string{"a": "x"}},
		model.Record{ID: "2", Attributes: map[string]string{"a": "x"}},
	)
	diff := model.NewPair(
		model.Record{ID: "3", Attributes: map[string]string{"a": "x"}},
		model.Record{ID: "4", Attributes: map[string]string{"a": "y"}},
	)
	labeled := []model.LabeledPair{
		{Pair: same, Label: 1},
		{Pair: diff, Label: 0},
	}

	if err := train.FitDataModel(labeled, dm); err != nil {
		t.Fatalf("FitDataModel: %v", err)
	}

	weights := dm.Weights()
	bias := dm.Bias()

	var logLoss float64
	for _, lp := range labeled {
		x := feature.Build(lp.Pair.A, lp.Pair.B, dm)
		p := train.Predict(x, weights, bias)
		if lp.Label == 1 {
			logLoss -= safeLog(p)
		} else {
			logLoss -= safeLog(1 - p)
		}
	}
	logLoss /= float64(len(labeled))

	if logLoss >= 0.1 {
		t.Fatalf("in-sample log-loss = %v, want < 0.1", logLoss)
	}
}

func safeLog(p float64) float64 {
	const eps = 1e-12
	if p < eps {
		p = eps
	}
	if p > 1-eps {
		p = 1 - eps
	}
	return math.Log(p)
}

// Scenario 4: a same-prefix predicate groups records sharing a 3-char
// prefix and excludes those that don't.
func TestScenarioSamePrefixPredicateGroupsSharedPrefix(t *testing.T) {
	recs := []model.Record{
		{ID: "1", Attributes: map[string]string{"name": "abcdef"}},
		{ID: "2", Attributes: map[string]string{"name": "abcxyz"}},
		{ID: "3", Attributes: map[string]string{"name": "xyzdef"}},
	}

	b := blocker.New([]predicates.Predicate{
		{Kind: predicates.KindSamePrefix, Field: "name", PrefixLen: 3},
	}, predicates.Index{})

	blocks := b.Block(recs)
	if len(blocks) != 1 || len(blocks[0]) != 2 {
		t.Fatalf("want one 2-record block, got %+v", blocks)
	}
	ids := map[string]bool{blocks[0][0].ID: true, blocks[0][1].ID: true}
	if !ids["1"] || !ids["2"] || ids["3"] {
		t.Fatalf("unexpected block membership: %+v", blocks[0])
	}
}

// Scenario 6: GoodThreshold on uniform-random probabilities returns a
// value in (0,1) with finite precision/recall.
func TestScenarioGoodThresholdOnRandomScores(t *testing.T) {
	dm, err := model.New([]string{"a"}, map[string]model.FieldDef{
		"a": {Type: "String"},
	})
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}
	if err := dm.SetWeights([]float64{1.0}, 0); err != nil {
		t.Fatalf("SetWeights: %v", err)
	}

	rng := rand.New(rand.NewPCG(7, 11))
	var recs []model.Record
	for i := 0; i < 20; i++ {
		recs = append(recs, model.Record{
			ID:         randID(i),
			Attributes: map[string]string{"a": randomString(rng, 6)},
		})
	}

	threshold, stats := score.GoodThreshold([][]model.Record{recs}, dm, 1.0)
	if threshold <= 0 || threshold >= 1 {
		t.Fatalf("threshold = %v, want in (0,1)", threshold)
	}
	if math.IsNaN(stats.Precision) || math.IsInf(stats.Precision, 0) ||
		math.IsNaN(stats.Recall) || math.IsInf(stats.Recall, 0) {
		t.Fatalf("non-finite precision/recall: %+v", stats)
	}
}

func randID(i int) string {
	return string(rune('a' + i%26))
}

func randomString(rng *rand.Rand, n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteByte(byte('a' + rng.IntN(26)))
	}
	return sb.String()
}
