// Package feature computes per-field distance vectors for record pairs.
// Build is a pure function of its inputs: the same (a, b, DataModel)
// always yields the same vector, with no hidden state.
package feature

import "github.com/cognicore/erecon/pkg/erecon/model"

// Build computes a FeatureVector for the pair (a, b) under dm. The
// result has length dm.Len(), one component per field in DataModel
// order (including synthetic :not_missing fields).
func Build(a, b model.Record, dm *model.DataModel) []float64 {
	n := dm.Len()
	out := make([]float64, n)

	for i := 0; i < n; i++ {
		spec := dm.FieldAt(i)
		switch spec.Kind {
		case model.FieldMissingIndicator:
			out[i] = notMissingValue(spec.Name, a, b)
		default:
			out[i] = realFieldValue(spec, a, b)
		}
	}
	return out
}

// realFieldValue returns the comparator distance for a real field, or 0
// (the missing sentinel) if either side lacks a non-empty value.
func realFieldValue(spec model.FieldSpec, a, b model.Record) float64 {
	va, okA := a.Get(spec.Name)
	vb, okB := b.Get(spec.Name)
	if !okA || !okB {
		return 0
	}
	return spec.Comparator(va, vb)
}

// notMissingValue computes the synthetic companion feature: 1.0 iff both
// records have the underlying field present and non-empty, else 0.0.
func notMissingValue(syntheticName string, a, b model.Record) float64 {
	field := underlyingField(syntheticName)
	_, okA := a.Get(field)
	_, okB := b.Get(field)
	if okA && okB {
		return 1.0
	}
	return 0.0
}

const notMissingSuffix = ":not_missing"

func underlyingField(syntheticName string) string {
	if len(syntheticName) > len(notMissingSuffix) {
		return syntheticName[:len(syntheticName)-len(notMissingSuffix)]
	}
	return syntheticName
}
