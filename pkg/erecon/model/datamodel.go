// Package model owns erecon's data model: an ordered collection of field
// specifications plus a scalar bias, and the Record type the rest of the
// pipeline compares.
//
// DataModel is built once at construction time from caller field
// definitions rather than mutating a loosely-typed nested map at
// runtime, turning those definitions into a dense, positionally-indexed
// vector shape.
package model

import (
	"fmt"

	"github.com/cognicore/erecon/pkg/erecon/erecerr"
	"github.com/cognicore/erecon/pkg/erecon/strdist"
)

// FieldDef is the external, caller-supplied definition for one field.
type FieldDef struct {
	Type       string // "String" or "Custom"
	Comparator Comparator
	Missing    bool
}

// DataModel is an ordered collection of FieldSpecs plus a scalar bias.
// Field order is fixed at construction and never changes afterward —
// feature vectors and weight vectors are indexed positionally against
// this order for the DataModel's lifetime.
type DataModel struct {
	fields []FieldSpec
	bias   float64
}

// New builds a DataModel from caller field definitions, in map iteration
// order made deterministic by the caller passing an explicit field-name
// order (defs is validated per name, fieldOrder controls emission order).
// For each field with Missing = true, a synthetic "<name>:not_missing"
// FieldMissingIndicator field is appended immediately after it.
func New(fieldOrder []string, defs map[string]FieldDef) (*DataModel, error) {
	dm := &DataModel{}
	for _, name := range fieldOrder {
		def, ok := defs[name]
		if !ok {
			return nil, fmt.Errorf("model: field %q listed in order but not defined: %w", name, erecerr.ErrInvalidConfig)
		}

		spec, err := buildFieldSpec(name, def)
		if err != nil {
			return nil, err
		}
		dm.fields = append(dm.fields, spec)

		if def.Missing {
			dm.fields = append(dm.fields, FieldSpec{
				Name: notMissingName(name),
				Kind: FieldMissingIndicator,
			})
		}
	}
	return dm, nil
}

func buildFieldSpec(name string, def FieldDef) (FieldSpec, error) {
	switch def.Type {
	case "String":
		if def.Comparator != nil {
			return FieldSpec{}, fmt.Errorf("model: field %q: comparator not allowed on String type: %w", name, erecerr.ErrInvalidConfig)
		}
		return FieldSpec{
			Name:       name,
			Kind:       FieldString,
			Comparator: strdist.Distance,
			HasMissing: def.Missing,
		}, nil
	case "Custom":
		if def.Comparator == nil {
			return FieldSpec{}, fmt.Errorf("model: field %q: Custom type requires a comparator: %w", name, erecerr.ErrInvalidConfig)
		}
		return FieldSpec{
			Name:       name,
			Kind:       FieldCustom,
			Comparator: def.Comparator,
			HasMissing: def.Missing,
		}, nil
	case "":
		return FieldSpec{}, fmt.Errorf("model: field %q: missing required type: %w", name, erecerr.ErrInvalidConfig)
	default:
		return FieldSpec{}, fmt.Errorf("model: field %q: unknown type %q: %w", name, def.Type, erecerr.ErrInvalidConfig)
	}
}

// Fields returns the DataModel's fields in construction order. The
// returned slice is a copy; mutating it does not affect the DataModel.
func (dm *DataModel) Fields() []FieldSpec {
	out := make([]FieldSpec, len(dm.fields))
	copy(out, dm.fields)
	return out
}

// Len returns the number of fields (including synthetic missing
// indicators) — the fixed length of every FeatureVector this DataModel
// produces.
func (dm *DataModel) Len() int {
	return len(dm.fields)
}

// FieldAt returns the field spec at position i.
func (dm *DataModel) FieldAt(i int) FieldSpec {
	return dm.fields[i]
}

// Bias returns the scalar bias term.
func (dm *DataModel) Bias() float64 {
	return dm.bias
}

// SetWeights installs learned weights and bias. Called by
// train.FitDataModel and by settings' Rebuild; ActiveLearner never
// calls it. len(weights) must equal dm.Len().
func (dm *DataModel) SetWeights(weights []float64, bias float64) error {
	if len(weights) != len(dm.fields) {
		return fmt.Errorf("model: got %d weights, want %d: %w", len(weights), len(dm.fields), erecerr.ErrInvalidConfig)
	}
	for i := range dm.fields {
		dm.fields[i].Weight = weights[i]
	}
	dm.bias = bias
	return nil
}

// Weights returns the current per-field weights in field order.
func (dm *DataModel) Weights() []float64 {
	out := make([]float64, len(dm.fields))
	for i, f := range dm.fields {
		out[i] = f.Weight
	}
	return out
}

// Clone returns a deep copy of dm, used where a provisional fit (e.g. in
// ActiveLearner) must not mutate the caller's live DataModel.
func (dm *DataModel) Clone() *DataModel {
	clone := &DataModel{
		fields: make([]FieldSpec, len(dm.fields)),
		bias:   dm.bias,
	}
	copy(clone.fields, dm.fields)
	return clone
}
