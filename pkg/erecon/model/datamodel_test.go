package model

import (
	"errors"
	"testing"

	"github.com/cognicore/erecon/pkg/erecon/erecerr"
)

func TestNewBuildsSyntheticMissingField(t *testing.T) {
	dm, err := New([]string{"name", "phone"}, map[string]FieldDef{
		"name":  {Type: "String"},
		"phone": {Type: "String", Missing: true},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if dm.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (name, phone, phone:not_missing)", dm.Len())
	}
	if dm.FieldAt(2).Name != "phone:not_missing" {
		t.Errorf("FieldAt(2).Name = %q, want phone:not_missing", dm.FieldAt(2).Name)
	}
	if dm.FieldAt(2).Kind != FieldMissingIndicator {
		t.Errorf("FieldAt(2).Kind = %v, want FieldMissingIndicator", dm.FieldAt(2).Kind)
	}
}

func TestNewRejectsCustomComparatorOnString(t *testing.T) {
	_, err := New([]string{"phone"}, map[string]FieldDef{
		"phone": {Type: "String", Comparator: func(a, b string) float64 { return 0 }},
	})
	if !errors.Is(err, erecerr.ErrInvalidConfig) {
		t.Fatalf("New() error = %v, want ErrInvalidConfig", err)
	}
}

func TestNewRejectsMissingComparatorOnCustom(t *testing.T) {
	_, err := New([]string{"phone", "note"}, map[string]FieldDef{
		"phone": {Type: "String"},
		"note":  {Type: "Custom"},
	})
	if !errors.Is(err, erecerr.ErrInvalidConfig) {
		t.Fatalf("New() error = %v, want ErrInvalidConfig", err)
	}
}

func TestNewRejectsUnknownType(t *testing.T) {
	_, err := New([]string{"f"}, map[string]FieldDef{
		"f": {Type: "Weird"},
	})
	if !errors.Is(err, erecerr.ErrInvalidConfig) {
		t.Fatalf("New() error = %v, want ErrInvalidConfig", err)
	}
}

func TestNewRejectsMissingType(t *testing.T) {
	_, err := New([]string{"f"}, map[string]FieldDef{
		"f": {},
	})
	if !errors.Is(err, erecerr.ErrInvalidConfig) {
		t.Fatalf("New() error = %v, want ErrInvalidConfig", err)
	}
}

func TestSetWeightsRejectsWrongLength(t *testing.T) {
	dm, err := New([]string{"name"}, map[string]FieldDef{"name": {Type: "String"}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := dm.SetWeights([]float64{1, 2}, 0); !errors.Is(err, erecerr.ErrInvalidConfig) {
		t.Fatalf("SetWeights() error = %v, want ErrInvalidConfig", err)
	}
}

func TestFieldOrderImmutableAfterConstruction(t *testing.T) {
	dm, err := New([]string{"b", "a"}, map[string]FieldDef{
		"a": {Type: "String"},
		"b": {Type: "String"},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if dm.FieldAt(0).Name != "b" || dm.FieldAt(1).Name != "a" {
		t.Fatalf("field order not preserved: got %q, %q", dm.FieldAt(0).Name, dm.FieldAt(1).Name)
	}
	fields := dm.Fields()
	fields[0].Name = "mutated"
	if dm.FieldAt(0).Name == "mutated" {
		t.Fatalf("Fields() leaked a mutable reference into the DataModel")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	dm, _ := New([]string{"name"}, map[string]FieldDef{"name": {Type: "String"}})
	dm.SetWeights([]float64{1.5}, 0.25)

	clone := dm.Clone()
	clone.SetWeights([]float64{9.9}, 9.9)

	if dm.Weights()[0] != 1.5 || dm.Bias() != 0.25 {
		t.Fatalf("mutating clone affected original: weights=%v bias=%v", dm.Weights(), dm.Bias())
	}
}
