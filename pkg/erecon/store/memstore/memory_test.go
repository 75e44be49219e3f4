package memstore

import (
	"context"
	"testing"

	"github.com/cognicore/erecon/pkg/erecon/model"
)

func TestAppendAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	a := model.Record{ID: "a", Attributes: map[string]string{"name": "x"}}
	b := model.Record{ID: "b", Attributes: map[string]string{"name": "y"}}
	pairs := []model.LabeledPair{{Pair: model.NewPair(a, b), Label: 1}}

	if err := s.AppendLabeled(ctx, "session-1", pairs); err != nil {
		t.Fatalf("AppendLabeled: %v", err)
	}

	got, err := s.LoadLabeled(ctx, "session-1")
	if err != nil {
		t.Fatalf("LoadLabeled: %v", err)
	}
	if len(got) != 1 || got[0].Label != 1 {
		t.Fatalf("got %+v, want one labeled pair with label 1", got)
	}
}

func TestLoadLabeledUnknownSessionIsEmptyNotError(t *testing.T) {
	s := New()
	got, err := s.LoadLabeled(context.Background(), "missing")
	if err != nil {
		t.Fatalf("want no error, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty slice, got %+v", got)
	}
}

func TestAppendLabeledAccumulatesAcrossCalls(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := model.Record{ID: "a", Attributes: map[string]string{"name": "x"}}
	b := model.Record{ID: "b", Attributes: map[string]string{"name": "y"}}
	c := model.Record{ID: "c", Attributes: map[string]string{"name": "z"}}

	if err := s.AppendLabeled(ctx, "sess", []model.LabeledPair{{Pair: model.NewPair(a, b), Label: 1}}); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := s.AppendLabeled(ctx, "sess", []model.LabeledPair{{Pair: model.NewPair(b, c), Label: 0}}); err != nil {
		t.Fatalf("second append: %v", err)
	}

	got, err := s.LoadLabeled(ctx, "sess")
	if err != nil {
		t.Fatalf("LoadLabeled: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 accumulated pairs, got %d", len(got))
	}
}
