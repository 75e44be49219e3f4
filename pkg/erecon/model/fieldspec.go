package model

// FieldKind tags how a field's value should be compared. Predicates are
// represented as tagged data elsewhere in erecon for the same reason
// field kinds are a closed enum here rather than a free-form string: a
// strict-types rewrite reconstructs behavior from a registry instead of
// reflecting over dynamically-shaped configuration.
type FieldKind int

const (
	// FieldString binds the affine-gap kernel by default.
	FieldString FieldKind = iota
	// FieldCustom requires a caller-supplied Comparator.
	FieldCustom
	// FieldMissingIndicator marks a synthetic companion field generated
	// for a field with HasMissing = true. Its value is 1.0 iff both
	// records have the companion field present and non-empty, else 0.0.
	FieldMissingIndicator
)

func (k FieldKind) String() string {
	switch k {
	case FieldString:
		return "String"
	case FieldCustom:
		return "Custom"
	case FieldMissingIndicator:
		return "MissingDataIndicator"
	default:
		return "Unknown"
	}
}

// Comparator is a pure, symmetric distance kernel: Comparator(a, a) == 0
// for all a, and Comparator(a, b) == Comparator(b, a). It must return a
// finite value for any pair of inputs. erecon never modifies or rescales
// a Custom comparator's output.
type Comparator func(a, b string) float64

// FieldSpec describes one field of a DataModel.
type FieldSpec struct {
	Name       string
	Kind       FieldKind
	Comparator Comparator // strdist.Distance for FieldString, the caller's kernel for FieldCustom, nil for FieldMissingIndicator
	HasMissing bool
	Weight     float64
}

// notMissingSuffix is appended to a field's name to build its synthetic
// companion field's name.
const notMissingSuffix = ":not_missing"

func notMissingName(field string) string {
	return field + notMissingSuffix
}
