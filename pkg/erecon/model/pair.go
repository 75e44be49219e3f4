package model

// Pair is an unordered pair of records, canonically ordered by ID so
// NewPair(a,b) and NewPair(b,a) always have the same Key(). Pair itself
// holds map-typed Attributes and is not comparable; Key is the map key.
type Pair struct {
	A, B Record
}

// NewPair returns a Pair with A and B ordered by ID (A.ID <= B.ID),
// giving every downstream component (dedup sets, tie-breaks) a single
// canonical representation of an unordered pair.
func NewPair(a, b Record) Pair {
	if a.ID <= b.ID {
		return Pair{A: a, B: b}
	}
	return Pair{A: b, B: a}
}

// Key returns a comparable, map-safe identity for the pair, independent
// of the (possibly large) Attributes payload.
func (p Pair) Key() [2]string {
	return [2]string{p.A.ID, p.B.ID}
}

// LabeledPair is a Pair together with a ground-truth duplicate label.
type LabeledPair struct {
	Pair  Pair
	Label int // 0 or 1
}
