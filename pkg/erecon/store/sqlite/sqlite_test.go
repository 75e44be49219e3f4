package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cognicore/erecon/pkg/erecon/model"
)

func TestOpenAppendLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "labels.db")

	st, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	a := model.Record{ID: "a", Attributes: map[string]string{"name": "sally's cafe"}}
	b := model.Record{ID: "b", Attributes: map[string]string{"name": "sallys cafe"}}
	pairs := []model.LabeledPair{{Pair: model.NewPair(a, b), Label: 1}}

	if err := st.AppendLabeled(ctx, "session-1", pairs); err != nil {
		t.Fatalf("AppendLabeled: %v", err)
	}

	got, err := st.LoadLabeled(ctx, "session-1")
	if err != nil {
		t.Fatalf("LoadLabeled: %v", err)
	}
	if len(got) != 1 || got[0].Label != 1 {
		t.Fatalf("got %+v, want one labeled pair with label 1", got)
	}
	if got[0].Pair.A.Attributes["name"] == "" {
		t.Fatalf("lost record attributes: %+v", got[0].Pair.A)
	}
}

func TestAppendLabeledPreservesSequenceAcrossCalls(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "labels.db")

	st, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	a := model.Record{ID: "a", Attributes: map[string]string{"name": "x"}}
	b := model.Record{ID: "b", Attributes: map[string]string{"name": "y"}}
	c := model.Record{ID: "c", Attributes: map[string]string{"name": "z"}}

	if err := st.AppendLabeled(ctx, "sess", []model.LabeledPair{{Pair: model.NewPair(a, b), Label: 1}}); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := st.AppendLabeled(ctx, "sess", []model.LabeledPair{{Pair: model.NewPair(b, c), Label: 0}}); err != nil {
		t.Fatalf("second append: %v", err)
	}

	got, err := st.LoadLabeled(ctx, "sess")
	if err != nil {
		t.Fatalf("LoadLabeled: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 pairs in append order, got %d", len(got))
	}
	if got[0].Label != 1 || got[1].Label != 0 {
		t.Fatalf("order not preserved: %+v", got)
	}
}

func TestLoadLabeledUnknownSessionIsEmpty(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "labels.db")

	st, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	got, err := st.LoadLabeled(ctx, "missing")
	if err != nil {
		t.Fatalf("want no error, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty, got %+v", got)
	}
}
