package predicates

import "github.com/cognicore/erecon/pkg/erecon/model"

// Clause is a conjunction of predicates: a record pair is covered by a
// Clause iff it shares at least one key under every member predicate.
// A single-predicate Clause behaves exactly like that predicate alone.
// BlockingLearner's pairwise conjunctions of simple predicates are
// Clauses of length 2; every other candidate is a Clause of length 1.
type Clause []Predicate

// ID returns a deterministic identifier, the join of each member
// predicate's (ID, Field), used for BlockingLearner's lexicographic
// tie-break.
func (c Clause) ID() string {
	if len(c) == 0 {
		return ""
	}
	out := c[0].ID() + "\x00" + c[0].Field
	for _, p := range c[1:] {
		out += "&" + p.ID() + "\x00" + p.Field
	}
	return out
}

// ClauseKeys computes the blocking keys a Clause produces for a record:
// the cartesian join of each member predicate's keys. Two records match
// under the Clause iff they produce an identical joined key, which only
// happens when they match under every member predicate individually.
func ClauseKeys(c Clause, rec model.Record, idx Index) [][]byte {
	if len(c) == 0 {
		return nil
	}
	combos := [][]byte{{}}
	for _, p := range c {
		keys := Keys(p, rec, idx)
		if len(keys) == 0 {
			return nil // conjunction requires every member to produce a key
		}
		var next [][]byte
		for _, prefix := range combos {
			for _, k := range keys {
				joined := make([]byte, 0, len(prefix)+1+len(k))
				joined = append(joined, prefix...)
				joined = append(joined, '\x03')
				joined = append(joined, k...)
				next = append(next, joined)
			}
		}
		combos = next
	}
	return combos
}
