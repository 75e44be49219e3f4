package train

import (
	"math"
	"testing"

	"github.com/cognicore/erecon/pkg/erecon/model"
)

func singleFieldModel(t *testing.T) *model.DataModel {
	t.Helper()
	dm, err := model.New([]string{"a"}, map[string]model.FieldDef{
		"a": {Type: "String"},
	})
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}
	return dm
}

func rec(id, a string) model.Record {
	return model.Record{ID: id, Attributes: map[string]string{"a": a}}
}

// TestFitSeparatesCleanData checks that identical {"a":"widget"} pairs
// versus {"a":"widget"}/{"a":"gadget"} pairs fit a clearly separating
// model with low in-sample log-loss.
func TestFitSeparatesCleanData(t *testing.T) {
	dm := singleFieldModel(t)

	var pairs []model.LabeledPair
	for i := 0; i < 20; i++ {
		pairs = append(pairs, model.LabeledPair{
			Pair:  model.NewPair(rec("p1", "widget"), rec("p2", "widget")),
			Label: 1,
		})
		pairs = append(pairs, model.LabeledPair{
			Pair:  model.NewPair(rec("n1", "widget"), rec("n2", "gadget")),
			Label: 0,
		})
	}

	ts, err := BuildTrainingSet(pairs, dm)
	if err != nil {
		t.Fatalf("BuildTrainingSet: %v", err)
	}

	weights, bias, err := Fit(ts.X, ts.Y, 0.01)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	var totalLoss float64
	n, _ := ts.X.Dims()
	for i := 0; i < n; i++ {
		x := make([]float64, len(weights))
		for j := range x {
			x[j] = ts.X.At(i, j)
		}
		p := Predict(x, weights, bias)
		totalLoss += -logLikelihoodTerm(ts.Y[i], p)
	}
	avgLoss := totalLoss / float64(n)
	if avgLoss >= 0.1 {
		t.Errorf("avg in-sample log-loss = %v, want < 0.1", avgLoss)
	}
}

func TestFitSingleClassDoesNotPanic(t *testing.T) {
	dm := singleFieldModel(t)
	ts, err := BuildTrainingSet([]model.LabeledPair{{Pair: model.NewPair(rec("a", "x"), rec("b", "x")), Label: 1}}, dm)
	if err != nil {
		t.Fatalf("BuildTrainingSet: %v", err)
	}
	// Single-class training data is numerically degenerate for IRLS;
	// it must either converge to a finite fit or fail cleanly, never panic.
	_, _, _ = Fit(ts.X, ts.Y, 0.01)
}

func TestAlphaGridIsSortedAndPositive(t *testing.T) {
	grid := AlphaGrid()
	if len(grid) != AlphaGridSize {
		t.Fatalf("len(grid) = %d, want %d", len(grid), AlphaGridSize)
	}
	for i, a := range grid {
		if a <= 0 || math.IsNaN(a) {
			t.Fatalf("grid[%d] = %v, want positive finite", i, a)
		}
		if i > 0 && a <= grid[i-1] {
			t.Fatalf("grid not increasing at %d: %v <= %v", i, a, grid[i-1])
		}
	}
}

func TestFoldAssignmentCoversAllFolds(t *testing.T) {
	folds := foldAssignment(23, 5)
	seen := make(map[int]bool)
	for _, f := range folds {
		if f < 0 || f >= 5 {
			t.Fatalf("fold out of range: %d", f)
		}
		seen[f] = true
	}
	if len(seen) != 5 {
		t.Errorf("expected all 5 folds represented, got %d", len(seen))
	}
}

func TestGridSearchReturnsPositiveAlpha(t *testing.T) {
	dm := singleFieldModel(t)
	var pairs []model.LabeledPair
	for i := 0; i < 30; i++ {
		pairs = append(pairs, model.LabeledPair{Pair: model.NewPair(rec("p1", "acme"), rec("p2", "acme")), Label: 1})
		pairs = append(pairs, model.LabeledPair{Pair: model.NewPair(rec("n1", "acme"), rec("n2", "zz")), Label: 0})
	}
	ts, err := BuildTrainingSet(pairs, dm)
	if err != nil {
		t.Fatalf("BuildTrainingSet: %v", err)
	}
	alpha, err := GridSearch(ts)
	if err != nil {
		t.Fatalf("GridSearch: %v", err)
	}
	if alpha <= 0 {
		t.Errorf("alpha = %v, want positive", alpha)
	}
}

func TestFitDataModelSetsWeights(t *testing.T) {
	dm := singleFieldModel(t)
	var pairs []model.LabeledPair
	for i := 0; i < 20; i++ {
		pairs = append(pairs, model.LabeledPair{Pair: model.NewPair(rec("p1", "widget"), rec("p2", "widget")), Label: 1})
		pairs = append(pairs, model.LabeledPair{Pair: model.NewPair(rec("n1", "widget"), rec("n2", "gadget")), Label: 0})
	}
	if err := FitDataModel(pairs, dm); err != nil {
		t.Fatalf("FitDataModel: %v", err)
	}
	weights := dm.Weights()
	if len(weights) != dm.Len() {
		t.Fatalf("len(weights) = %d, want %d", len(weights), dm.Len())
	}
}
