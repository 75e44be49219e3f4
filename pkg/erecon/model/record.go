package model

// Record is a single entity observation: a stable identifier plus a flat
// attribute map. Attributes are treated as immutable once a Record is
// handed to a DataModel-aware component — nothing in erecon mutates a
// Record's Attributes after construction.
type Record struct {
	ID         string
	Attributes map[string]string
}

// Get returns the value of a named attribute and whether it was present
// and non-empty. A present-but-empty attribute is treated as missing,
// matching spec's "has-missing" semantics for feature building.
func (r Record) Get(field string) (string, bool) {
	v, ok := r.Attributes[field]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
